package display

import (
	"log/slog"

	"github.com/displayops/pivot/internal/logging"
)

// Controller applies the orientation policy on top of a Provider. OS-level
// failures are logged and swallowed: a failed query reads as Landscape, a
// failed update leaves the system untouched, and neither is surfaced as an
// error to the caller.
type Controller struct {
	provider Provider
	log      *slog.Logger
}

// ToggleResult describes one run of the two-state toggle.
type ToggleResult struct {
	Before  Orientation
	After   Orientation
	Changed bool
}

func NewController(p Provider) *Controller {
	return &Controller{
		provider: p,
		log:      logging.L("display"),
	}
}

// CurrentOrientation returns the target display's orientation, or Landscape
// when the OS query fails. It always returns one of the four enumerated
// values.
func (c *Controller) CurrentOrientation(target string) Orientation {
	mode, err := c.provider.Query(target)
	if err != nil {
		c.log.Warn("query failed, assuming landscape", logging.KeyDisplay, target, logging.KeyError, err)
		return Landscape
	}
	return mode.Orientation
}

// SetOrientation rotates the target display to the given orientation. The
// snapshot is re-queried fresh, the dimensions are swapped for 0°/90°/270°
// targets, and the change is validated before it is persisted. Any failure
// along the way abandons the change without partial application.
func (c *Controller) SetOrientation(target string, o Orientation) {
	mode, err := c.provider.Query(target)
	if err != nil {
		c.log.Warn("query failed, change abandoned", logging.KeyDisplay, target, logging.KeyError, err)
		return
	}

	mode.Orientation = o
	if o.SwapsDimensions() {
		mode.Width, mode.Height = mode.Height, mode.Width
	}

	if err := c.provider.Apply(target, mode, Validate); err != nil {
		c.log.Warn("validation rejected, change abandoned",
			logging.KeyDisplay, target, "orientation", o.Degrees(), logging.KeyError, err)
		return
	}

	if err := c.provider.Apply(target, mode, Persist); err != nil {
		c.log.Warn("persist failed", logging.KeyDisplay, target, "orientation", o.Degrees(), logging.KeyError, err)
		return
	}

	c.log.Info("orientation applied",
		logging.KeyDisplay, target, "orientation", o.Degrees(), "width", mode.Width, "height", mode.Height)
}

// Toggle cycles the target display between landscape and portrait. The
// flipped orientations are terminal for the toggle: they are reachable only
// through SetOrientation and the toggle leaves them alone.
func (c *Controller) Toggle(target string) ToggleResult {
	current := c.CurrentOrientation(target)

	switch current {
	case Landscape:
		c.SetOrientation(target, Portrait)
		return ToggleResult{Before: current, After: Portrait, Changed: true}
	case Portrait:
		c.SetOrientation(target, Landscape)
		return ToggleResult{Before: current, After: Landscape, Changed: true}
	}

	c.log.Info("orientation unmanaged by toggle, no change", logging.KeyDisplay, target, "orientation", current.Degrees())
	return ToggleResult{Before: current, After: current, Changed: false}
}

// Status returns a fresh snapshot of the target display, with the silent
// fallback applied when the query fails.
func (c *Controller) Status(target string) (Mode, bool) {
	mode, err := c.provider.Query(target)
	if err != nil {
		c.log.Warn("query failed", logging.KeyDisplay, target, logging.KeyError, err)
		return Mode{Orientation: Landscape}, false
	}
	return mode, true
}

// Displays enumerates attached displays through the provider.
func (c *Controller) Displays() ([]DisplayInfo, error) {
	return c.provider.Displays()
}
