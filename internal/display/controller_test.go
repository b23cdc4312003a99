package display

import (
	"errors"
	"testing"
)

type applyCall struct {
	target string
	mode   Mode
	flag   ApplyFlag
}

// fakeProvider simulates the OS display store: Persist replaces the stored
// mode, Validate does not.
type fakeProvider struct {
	mode        Mode
	queryErr    error
	validateErr error
	persistErr  error

	queries int
	applies []applyCall
}

func (f *fakeProvider) Query(target string) (Mode, error) {
	f.queries++
	if f.queryErr != nil {
		return Mode{}, f.queryErr
	}
	return f.mode, nil
}

func (f *fakeProvider) Apply(target string, mode Mode, flag ApplyFlag) error {
	f.applies = append(f.applies, applyCall{target: target, mode: mode, flag: flag})
	if flag == Validate {
		return f.validateErr
	}
	if f.persistErr != nil {
		return f.persistErr
	}
	f.mode = mode
	return nil
}

func (f *fakeProvider) Displays() ([]DisplayInfo, error) {
	return []DisplayInfo{{Name: f.mode.Device, Width: f.mode.Width, Height: f.mode.Height, Primary: true}}, nil
}

func TestToggleTwoStateCycle(t *testing.T) {
	tests := []struct {
		name        string
		current     Orientation
		wantAfter   Orientation
		wantChanged bool
	}{
		{"landscape rotates to portrait", Landscape, Portrait, true},
		{"portrait rotates to landscape", Portrait, Landscape, true},
		{"landscape-flipped is unmanaged", LandscapeFlipped, LandscapeFlipped, false},
		{"portrait-flipped is unmanaged", PortraitFlipped, PortraitFlipped, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeProvider{mode: Mode{Orientation: tt.current, Width: 1920, Height: 1080}}
			result := NewController(fake).Toggle("")

			if result.Before != tt.current {
				t.Errorf("Before = %v, want %v", result.Before, tt.current)
			}
			if result.After != tt.wantAfter {
				t.Errorf("After = %v, want %v", result.After, tt.wantAfter)
			}
			if result.Changed != tt.wantChanged {
				t.Errorf("Changed = %v, want %v", result.Changed, tt.wantChanged)
			}
			if !tt.wantChanged && len(fake.applies) != 0 {
				t.Errorf("unmanaged orientation issued %d apply calls, want 0", len(fake.applies))
			}
		})
	}
}

func TestToggleTwiceReturnsToStart(t *testing.T) {
	for _, start := range []Orientation{Landscape, Portrait} {
		fake := &fakeProvider{mode: Mode{Orientation: start, Width: 1920, Height: 1080}}
		ctrl := NewController(fake)

		ctrl.Toggle("")
		ctrl.Toggle("")

		if got := fake.mode.Orientation; got != start {
			t.Errorf("after double toggle from %v: orientation = %v, want %v", start, got, start)
		}
	}
}

func TestSetOrientationDimensionSwap(t *testing.T) {
	tests := []struct {
		target     Orientation
		wantWidth  int
		wantHeight int
	}{
		{Portrait, 1080, 1920},
		{PortraitFlipped, 1080, 1920},
		{Landscape, 1080, 1920}, // the literal rule swaps on 0° too
		{LandscapeFlipped, 1920, 1080},
	}

	for _, tt := range tests {
		fake := &fakeProvider{mode: Mode{Orientation: Landscape, Width: 1920, Height: 1080}}
		NewController(fake).SetOrientation("", tt.target)

		if fake.mode.Width != tt.wantWidth || fake.mode.Height != tt.wantHeight {
			t.Errorf("SetOrientation(%v): dimensions = %dx%d, want %dx%d",
				tt.target, fake.mode.Width, fake.mode.Height, tt.wantWidth, tt.wantHeight)
		}
		if fake.mode.Orientation != tt.target {
			t.Errorf("SetOrientation(%v): orientation = %v", tt.target, fake.mode.Orientation)
		}
	}
}

func TestSetOrientationValidatesBeforePersist(t *testing.T) {
	fake := &fakeProvider{mode: Mode{Orientation: Landscape, Width: 1920, Height: 1080}}
	NewController(fake).SetOrientation("", Portrait)

	if len(fake.applies) != 2 {
		t.Fatalf("got %d apply calls, want 2", len(fake.applies))
	}
	if fake.applies[0].flag != Validate {
		t.Errorf("first apply flag = %v, want validate", fake.applies[0].flag)
	}
	if fake.applies[1].flag != Persist {
		t.Errorf("second apply flag = %v, want persist", fake.applies[1].flag)
	}
	if fake.applies[0].mode != fake.applies[1].mode {
		t.Errorf("validate and persist submitted different modes: %+v vs %+v",
			fake.applies[0].mode, fake.applies[1].mode)
	}
}

func TestSetOrientationFailClosedOnValidationReject(t *testing.T) {
	before := Mode{Orientation: Landscape, Width: 1920, Height: 1080, Device: `\\.\DISPLAY1`}
	fake := &fakeProvider{mode: before, validateErr: ErrValidateRejected}

	NewController(fake).SetOrientation("", Portrait)

	if fake.mode != before {
		t.Errorf("persisted mode changed after validation reject: %+v", fake.mode)
	}
	for _, call := range fake.applies {
		if call.flag == Persist {
			t.Error("persist attempted after validation reject")
		}
	}
}

func TestSetOrientationAbandonsOnQueryFailure(t *testing.T) {
	fake := &fakeProvider{queryErr: ErrQueryFailed}
	NewController(fake).SetOrientation("", Portrait)

	if len(fake.applies) != 0 {
		t.Errorf("got %d apply calls after query failure, want 0", len(fake.applies))
	}
}

func TestCurrentOrientationFallsBackToLandscape(t *testing.T) {
	fake := &fakeProvider{queryErr: ErrQueryFailed}
	if got := NewController(fake).CurrentOrientation(""); got != Landscape {
		t.Errorf("CurrentOrientation on query failure = %v, want landscape", got)
	}
}

func TestSetOrientationQueriesFreshSnapshot(t *testing.T) {
	fake := &fakeProvider{mode: Mode{Orientation: Landscape, Width: 1920, Height: 1080}}
	ctrl := NewController(fake)

	ctrl.CurrentOrientation("")
	queriesBefore := fake.queries
	ctrl.SetOrientation("", Portrait)

	if fake.queries != queriesBefore+1 {
		t.Errorf("SetOrientation issued %d queries, want exactly 1 fresh query", fake.queries-queriesBefore)
	}
}

func TestToggleEndToEndLandscape(t *testing.T) {
	fake := &fakeProvider{mode: Mode{Orientation: Landscape, Width: 1920, Height: 1080, Device: `\\.\DISPLAY1`}}
	result := NewController(fake).Toggle("")

	if !result.Changed || result.After != Portrait {
		t.Fatalf("toggle result = %+v, want change to portrait", result)
	}
	want := Mode{Orientation: Portrait, Width: 1080, Height: 1920, Device: `\\.\DISPLAY1`}
	if fake.mode != want {
		t.Errorf("final mode = %+v, want %+v", fake.mode, want)
	}
}

func TestTogglePassesTargetThrough(t *testing.T) {
	fake := &fakeProvider{mode: Mode{Orientation: Landscape, Width: 1920, Height: 1080}}
	NewController(fake).Toggle(`\\.\DISPLAY2`)

	for _, call := range fake.applies {
		if call.target != `\\.\DISPLAY2` {
			t.Errorf("apply target = %q, want \\\\.\\DISPLAY2", call.target)
		}
	}
}

func TestStatusFallback(t *testing.T) {
	fake := &fakeProvider{queryErr: errors.New("boom")}
	mode, ok := NewController(fake).Status("")

	if ok {
		t.Error("Status reported ok on query failure")
	}
	if mode.Orientation != Landscape {
		t.Errorf("fallback orientation = %v, want landscape", mode.Orientation)
	}
}
