// Package display reads and writes the operating system's display
// configuration. The platform adapters implement Provider; Controller holds
// the orientation policy and is the only piece the CLI talks to.
package display

import (
	"errors"
	"fmt"
)

// Orientation is the rotation state of a display output. The numeric values
// match the Windows DMDO_* constants and are the only four values ever
// constructed.
type Orientation int

const (
	Landscape        Orientation = iota // 0°
	Portrait                            // 90°
	LandscapeFlipped                    // 180°
	PortraitFlipped                     // 270°
)

// Sentinel errors returned by providers.
var (
	// ErrUnsupported implies no display backend exists for this platform.
	ErrUnsupported = errors.New("display configuration not supported on this platform")

	// ErrQueryFailed implies the OS could not report the current settings.
	ErrQueryFailed = errors.New("display settings query failed")

	// ErrValidateRejected implies the OS rejected the trial application.
	ErrValidateRejected = errors.New("display settings rejected by validation")

	// ErrApplyFailed implies the persisting application failed after a
	// successful trial.
	ErrApplyFailed = errors.New("display settings apply failed")

	// ErrDisplayNotFound implies the named display target does not exist.
	ErrDisplayNotFound = errors.New("display not found")
)

// Degrees returns the rotation angle in degrees.
func (o Orientation) Degrees() int {
	return int(o) * 90
}

func (o Orientation) String() string {
	switch o {
	case Landscape:
		return "landscape (0°)"
	case Portrait:
		return "portrait (90°)"
	case LandscapeFlipped:
		return "landscape-flipped (180°)"
	case PortraitFlipped:
		return "portrait-flipped (270°)"
	}
	return fmt.Sprintf("orientation(%d)", int(o))
}

// ParseOrientation maps a CLI selector to an orientation. Only the four
// literal degree values are accepted; anything else is rejected before any
// OS call happens.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "0":
		return Landscape, nil
	case "90":
		return Portrait, nil
	case "180":
		return LandscapeFlipped, nil
	case "270":
		return PortraitFlipped, nil
	}
	return Landscape, fmt.Errorf("invalid orientation %q: must be one of 0, 90, 180, 270", s)
}

// SwapsDimensions reports whether setting this orientation swaps the stored
// width and height. The rule intentionally includes Landscape: parity with
// the original settings writer, which swapped on 0° as well as 90°/270°.
func (o Orientation) SwapsDimensions() bool {
	return o == Portrait || o == PortraitFlipped || o == Landscape
}

// Mode is a snapshot of one display's active configuration. A Mode is built
// fresh for every query and update and discarded afterwards; the only durable
// state is the OS display store itself.
type Mode struct {
	Orientation Orientation
	Width       int
	Height      int

	// Device is the opaque OS device name the snapshot came from. Carried
	// through updates unchanged, never inspected.
	Device string

	// RefreshHz is carried through updates unchanged.
	RefreshHz int
}

// DisplayInfo describes one attached display for enumeration.
type DisplayInfo struct {
	Name        string
	Description string
	Width       int
	Height      int
	Primary     bool
}

// ApplyFlag selects how a provider applies a mode.
type ApplyFlag int

const (
	// Validate trials the mode without persisting anything.
	Validate ApplyFlag = iota
	// Persist writes the mode to the system's durable settings store. A mode
	// must validate successfully before it may be persisted.
	Persist
)

func (f ApplyFlag) String() string {
	if f == Persist {
		return "persist"
	}
	return "validate"
}

// Provider is the OS display-configuration binding. target selects a display
// by OS device name; the empty string means the primary display.
type Provider interface {
	// Query returns a fresh snapshot of the target display's settings.
	Query(target string) (Mode, error)

	// Apply submits a modified snapshot. With Validate nothing is persisted;
	// with Persist the change is written to the system configuration store.
	Apply(target string, mode Mode, flag ApplyFlag) error

	// Displays enumerates the attached displays.
	Displays() ([]DisplayInfo, error)
}
