// Package safearea reserves space at the bottom of a host container for the
// part of the soft keyboard that overlaps it.
package safearea

import (
	"log/slog"

	"github.com/agiangrant/scrollkit/internal/invariant"
)

// Host owns the reserved bottom margin, the extra bottom safe-area inset the
// host adds on top of the system one.
type Host interface {
	BottomMargin() float64
	SetBottomMargin(v float64)
}

// Delegate is told around keyboard presentation and dismissal. It is
// optional.
type Delegate interface {
	// WillAdjustForPresentedKeyboard is called before the margin is first
	// raised for a newly presented keyboard.
	WillAdjustForPresentedKeyboard()

	// DidRestoreAfterDismissal is called after the margin has been restored
	// for a dismissed keyboard.
	DidRestoreAfterDismissal()
}

// Controller keeps the host's bottom margin at least as large as the
// keyboard overlap while the keyboard is up, and restores the margin the
// host had before the keyboard appeared when it goes away.
type Controller struct {
	host     Host
	delegate Delegate
	logger   *slog.Logger

	bottomInset float64
	prior       float64
	hasPrior    bool
}

// New creates a controller for host. d may be nil.
func New(host Host, d Delegate, logger *slog.Logger) *Controller {
	if host == nil {
		panic("safearea: nil host")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		host:     host,
		delegate: d,
		logger:   logger.With(slog.String("component", "safearea")),
	}
}

// BottomInset returns the last keyboard overlap passed to SetBottomInset.
func (c *Controller) BottomInset() float64 { return c.bottomInset }

// PriorMargin returns the margin recorded when the keyboard was presented.
// The boolean is false while the keyboard is hidden.
func (c *Controller) PriorMargin() (float64, bool) { return c.prior, c.hasPrior }

// SetBottomInset updates the keyboard overlap and adjusts the host margin.
func (c *Controller) SetBottomInset(v float64) {
	old := c.bottomInset
	c.bottomInset = v

	switch {
	case v != 0 && old == 0:
		// Presented.
		c.prior = c.host.BottomMargin()
		c.hasPrior = true
		if c.delegate != nil {
			c.delegate.WillAdjustForPresentedKeyboard()
		}
		c.apply(max(v, c.prior))

	case v == 0 && old != 0:
		// Dismissed.
		if !c.hasPrior {
			invariant.Failf("safearea: keyboard dismissed with no recorded margin")
			return
		}
		prior := c.prior
		c.prior, c.hasPrior = 0, false
		c.apply(prior)
		if c.delegate != nil {
			c.delegate.DidRestoreAfterDismissal()
		}

	case v != old:
		// Resized.
		if !c.hasPrior {
			invariant.Failf("safearea: keyboard resized with no recorded margin")
			return
		}
		c.apply(max(v, c.prior))
	}
}

func (c *Controller) apply(margin float64) {
	c.logger.Debug("set bottom margin",
		slog.Float64("margin", margin),
		slog.Float64("overlap", c.bottomInset))
	c.host.SetBottomMargin(margin)
}
