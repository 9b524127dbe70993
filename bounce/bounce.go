// Package bounce lets a scroll container bounce vertically while the soft
// keyboard is up, so that a drag-to-dismiss gesture works even when the
// content is too short to scroll.
package bounce

import "github.com/agiangrant/scrollkit/internal/invariant"

// DismissMode is how a scroll container dismisses the keyboard.
type DismissMode int

const (
	// DismissNone never dismisses the keyboard from a scroll gesture.
	DismissNone DismissMode = iota
	// DismissOnDrag dismisses the keyboard when a drag begins.
	DismissOnDrag
	// DismissInteractive lets the keyboard follow the drag down.
	DismissInteractive
)

func (m DismissMode) String() string {
	switch m {
	case DismissNone:
		return "none"
	case DismissOnDrag:
		return "on-drag"
	case DismissInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// ScrollView is the part of a scroll container the controller toggles.
type ScrollView interface {
	KeyboardDismissMode() DismissMode
	AlwaysBounceVertical() bool
	SetAlwaysBounceVertical(on bool)
}

// Controller forces vertical bouncing on while the keyboard overlaps the
// container and restores the previous setting afterwards. It does nothing
// for a container that never dismisses the keyboard.
type Controller struct {
	sv ScrollView

	bottomInset float64
	prior       bool
	hasPrior    bool
}

// New returns a controller for sv. It panics if sv is nil.
func New(sv ScrollView) *Controller {
	if sv == nil {
		panic("bounce: nil scroll view")
	}
	return &Controller{sv: sv}
}

// BottomInset returns the last keyboard overlap passed to SetBottomInset.
func (c *Controller) BottomInset() float64 { return c.bottomInset }

// Prior returns the setting recorded at presentation.
func (c *Controller) Prior() (bool, bool) { return c.prior, c.hasPrior }

// SetBottomInset updates the keyboard overlap.
func (c *Controller) SetBottomInset(v float64) {
	old := c.bottomInset
	c.bottomInset = v

	if c.sv.KeyboardDismissMode() == DismissNone {
		return
	}

	switch {
	case v != 0 && old == 0:
		c.prior = c.sv.AlwaysBounceVertical()
		c.hasPrior = true
		c.sv.SetAlwaysBounceVertical(true)
	case v == 0 && old != 0:
		if !c.hasPrior {
			invariant.Failf("bounce: keyboard dismissed with no recorded setting")
			return
		}
		c.sv.SetAlwaysBounceVertical(c.prior)
		c.prior, c.hasPrior = false, false
	}
}
