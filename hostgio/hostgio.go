// Package hostgio connects a Gio window to scrollkit. Gio reports the soft
// keyboard only as part of the window's bottom inset; Tracker turns changes
// of that inset into keyboard notifications and Host applies the reserved
// margin to the window's layout.
//
// Geometry is expressed in device-independent pixels.
package hostgio

import (
	"log/slog"
	"time"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/unit"

	"github.com/agiangrant/scrollkit/geom"
	"github.com/agiangrant/scrollkit/keyboard"
)

// DefaultDuration is reported for keyboard transitions, since Gio does not
// expose the platform's animation duration.
const DefaultDuration = 250 * time.Millisecond

// Tracker derives keyboard notifications from frame events.
type Tracker struct {
	// Baseline is the part of the bottom inset that belongs to system bars
	// rather than the keyboard.
	Baseline unit.Dp

	// Duration is reported with every notification. Zero means
	// DefaultDuration.
	Duration time.Duration

	last    unit.Dp
	started bool
}

// Observe inspects a frame event. It returns a notification when the
// keyboard's share of the bottom inset has changed since the previous event.
func (t *Tracker) Observe(e app.FrameEvent) (keyboard.Notification, bool) {
	overlap := max(e.Insets.Bottom-t.Baseline, 0)
	if t.started && overlap == t.last {
		return keyboard.Notification{}, false
	}
	first := !t.started
	t.started = true
	t.last = overlap
	if first && overlap == 0 {
		return keyboard.Notification{}, false
	}

	d := t.Duration
	if d <= 0 {
		d = DefaultDuration
	}
	w, h := windowSize(e)
	if overlap == 0 {
		return keyboard.Notification{
			Kind:     keyboard.WillHide,
			Frame:    geom.R(0, h, w, 0),
			Duration: d,
		}, true
	}
	k := float64(overlap)
	return keyboard.Notification{
		Kind:     keyboard.WillShow,
		Frame:    geom.R(0, h-k, w, k),
		Duration: d,
	}, true
}

func windowSize(e app.FrameEvent) (w, h float64) {
	return float64(e.Metric.PxToDp(e.Size.X)), float64(e.Metric.PxToDp(e.Size.Y))
}

// Host is a HostController for a Gio window.
type Host struct {
	frame  geom.Rect
	margin float64
	logger *slog.Logger
}

// NewHost returns a host with no frame. Call Update with each frame event.
func NewHost(logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{logger: logger.With(slog.String("component", "hostgio"))}
}

// Update records the window size from e.
func (h *Host) Update(e app.FrameEvent) {
	w, ht := windowSize(e)
	h.frame = geom.R(0, 0, w, ht)
}

// Frame is the window in device-independent pixels. Gio keyboard frames are
// reported in the same space.
func (h *Host) Frame() geom.Rect { return h.frame }

func (h *Host) BottomMargin() float64 { return h.margin }

func (h *Host) SetBottomMargin(v float64) {
	h.logger.Debug("bottom margin", slog.Float64("dp", v))
	h.margin = v
}

// Layout lays out w above the reserved bottom margin.
func (h *Host) Layout(gtx layout.Context, w layout.Widget) layout.Dimensions {
	return layout.Inset{Bottom: unit.Dp(h.margin)}.Layout(gtx, w)
}
