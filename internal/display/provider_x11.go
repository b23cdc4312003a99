//go:build linux

package display

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// x11Provider drives display rotation through the RandR extension. The
// connection is opened lazily so constructing the provider never fails; a
// missing X server surfaces as a query failure, which the controller already
// treats as non-fatal.
type x11Provider struct {
	conn *xgb.Conn
	root xproto.Window
}

// NewProvider returns the RandR-backed display configuration provider.
func NewProvider() Provider {
	return &x11Provider{}
}

func (p *x11Provider) connect() error {
	if p.conn != nil {
		return nil
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("%w: connect to X server: %v", ErrQueryFailed, err)
	}
	if err := randr.Init(conn); err != nil {
		conn.Close()
		return fmt.Errorf("%w: randr init: %v", ErrQueryFailed, err)
	}

	p.conn = conn
	p.root = xproto.Setup(conn).DefaultScreen(conn).Root
	return nil
}

func orientationToRotation(o Orientation) uint16 {
	switch o {
	case Portrait:
		return randr.RotationRotate90
	case LandscapeFlipped:
		return randr.RotationRotate180
	case PortraitFlipped:
		return randr.RotationRotate270
	}
	return randr.RotationRotate0
}

func rotationToOrientation(r uint16) Orientation {
	switch {
	case r&randr.RotationRotate90 != 0:
		return Portrait
	case r&randr.RotationRotate180 != 0:
		return LandscapeFlipped
	case r&randr.RotationRotate270 != 0:
		return PortraitFlipped
	}
	return Landscape
}

// crtcFor resolves the target selector to an output's CRTC. The empty target
// picks the primary output, falling back to the first connected output that
// has an active CRTC.
func (p *x11Provider) crtcFor(target string, res *randr.GetScreenResourcesReply) (randr.Crtc, string, error) {
	if target == "" {
		if primary, err := randr.GetOutputPrimary(p.conn, p.root).Reply(); err == nil && primary.Output != 0 {
			oi, err := randr.GetOutputInfo(p.conn, primary.Output, res.ConfigTimestamp).Reply()
			if err == nil && oi.Crtc != 0 {
				return oi.Crtc, string(oi.Name), nil
			}
		}
	}

	for _, output := range res.Outputs {
		oi, err := randr.GetOutputInfo(p.conn, output, res.ConfigTimestamp).Reply()
		if err != nil || oi.Connection != randr.ConnectionConnected || oi.Crtc == 0 {
			continue
		}
		name := string(oi.Name)
		if target == "" || name == target {
			return oi.Crtc, name, nil
		}
	}

	return 0, "", fmt.Errorf("%w: %q", ErrDisplayNotFound, target)
}

func (p *x11Provider) Query(target string) (Mode, error) {
	if err := p.connect(); err != nil {
		return Mode{}, err
	}

	res, err := randr.GetScreenResources(p.conn, p.root).Reply()
	if err != nil {
		return Mode{}, fmt.Errorf("%w: screen resources: %v", ErrQueryFailed, err)
	}

	crtc, name, err := p.crtcFor(target, res)
	if err != nil {
		return Mode{}, err
	}

	ci, err := randr.GetCrtcInfo(p.conn, crtc, res.ConfigTimestamp).Reply()
	if err != nil {
		return Mode{}, fmt.Errorf("%w: crtc info: %v", ErrQueryFailed, err)
	}

	return Mode{
		Orientation: rotationToOrientation(ci.Rotation),
		Width:       int(ci.Width),
		Height:      int(ci.Height),
		Device:      name,
		RefreshHz:   refreshForMode(res, ci.Mode),
	}, nil
}

// Apply validates against the CRTC's advertised rotation mask; RandR has no
// trial request, so feasibility of the rotation bit is the validate step.
// Persist reconfigures the CRTC in place, which also makes the geometry swap
// effective.
func (p *x11Provider) Apply(target string, mode Mode, flag ApplyFlag) error {
	if err := p.connect(); err != nil {
		return err
	}

	res, err := randr.GetScreenResources(p.conn, p.root).Reply()
	if err != nil {
		return fmt.Errorf("%w: screen resources: %v", ErrQueryFailed, err)
	}

	crtc, _, err := p.crtcFor(target, res)
	if err != nil {
		return err
	}

	ci, err := randr.GetCrtcInfo(p.conn, crtc, res.ConfigTimestamp).Reply()
	if err != nil {
		return fmt.Errorf("%w: crtc info: %v", ErrQueryFailed, err)
	}

	rotation := orientationToRotation(mode.Orientation)
	if ci.Rotations&rotation == 0 {
		return fmt.Errorf("%w: rotation %d° not supported by crtc", ErrValidateRejected, mode.Orientation.Degrees())
	}
	if flag == Validate {
		return nil
	}

	reply, err := randr.SetCrtcConfig(p.conn, crtc, ci.Timestamp, res.ConfigTimestamp,
		ci.X, ci.Y, ci.Mode, rotation, ci.Outputs).Reply()
	if err != nil {
		return fmt.Errorf("%w: set crtc config: %v", ErrApplyFailed, err)
	}
	if reply.Status != randr.SetConfigSuccess {
		return fmt.Errorf("%w: set crtc config status %d", ErrApplyFailed, reply.Status)
	}
	return nil
}

func (p *x11Provider) Displays() ([]DisplayInfo, error) {
	if err := p.connect(); err != nil {
		return nil, err
	}

	res, err := randr.GetScreenResources(p.conn, p.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: screen resources: %v", ErrQueryFailed, err)
	}

	var primaryOutput randr.Output
	if primary, err := randr.GetOutputPrimary(p.conn, p.root).Reply(); err == nil {
		primaryOutput = primary.Output
	}

	var displays []DisplayInfo
	for _, output := range res.Outputs {
		oi, err := randr.GetOutputInfo(p.conn, output, res.ConfigTimestamp).Reply()
		if err != nil || oi.Connection != randr.ConnectionConnected || oi.Crtc == 0 {
			continue
		}

		info := DisplayInfo{
			Name:    string(oi.Name),
			Primary: output == primaryOutput,
		}
		if ci, err := randr.GetCrtcInfo(p.conn, oi.Crtc, res.ConfigTimestamp).Reply(); err == nil {
			info.Width = int(ci.Width)
			info.Height = int(ci.Height)
		}

		displays = append(displays, info)
	}

	if len(displays) == 0 {
		return nil, fmt.Errorf("%w: no connected outputs", ErrDisplayNotFound)
	}
	return displays, nil
}

func refreshForMode(res *randr.GetScreenResourcesReply, mode randr.Mode) int {
	for _, mi := range res.Modes {
		if mi.Id != uint32(mode) {
			continue
		}
		total := uint64(mi.Htotal) * uint64(mi.Vtotal)
		if total == 0 {
			return 0
		}
		return int(uint64(mi.DotClock) / total)
	}
	return 0
}
