package scrollkit

import (
	"log/slog"

	"github.com/agiangrant/scrollkit/geom"
	"github.com/agiangrant/scrollkit/keyboard"
)

// keyboardObserver turns keyboard notifications into filtered keyboard
// frame events for its manager.
type keyboardObserver struct {
	m      *Manager
	center *keyboard.Center

	last    keyboard.FrameEvent
	hasLast bool
}

func newKeyboardObserver(m *Manager) *keyboardObserver {
	o := &keyboardObserver{m: m, center: m.cfg.Center}
	m.filter.SetKeyboardDelegate(m)
	keyboard.Register(o.center, o)

	if n, ok := o.center.Last(); ok && n.Kind == keyboard.WillShow {
		m.logger.Debug("adopting visible keyboard", slog.String("frame", n.Frame.String()))
		o.submit(eventFor(n))
	}
	return o
}

func (o *keyboardObserver) DidReceiveKeyboardNotification(n keyboard.Notification) {
	o.submit(eventFor(n))
}

// eventFor maps a hide to an empty frame, so it never overlaps the host.
func eventFor(n keyboard.Notification) keyboard.FrameEvent {
	e := n.Event()
	if n.Kind == keyboard.WillHide {
		e.Frame = geom.Rect{}
	}
	return e
}

func (o *keyboardObserver) submit(e keyboard.FrameEvent) {
	o.last, o.hasLast = e, true
	f := o.m.filter
	f.SubmitKeyboardFrameEvent(e)

	// A navigation transition animates the new screen in; the content has
	// to track it rather than catch up afterwards.
	if e.IsLikelyNavigationTransition(o.m.cfg.NavigationThreshold) {
		o.m.logger.Debug("navigation transition, applying immediately",
			slog.Duration("duration", e.Duration))
		f.Flush()
	}
}

func (o *keyboardObserver) safeAreaInsetsDidChange() {
	if o.hasLast {
		o.m.filter.SubmitKeyboardFrameEvent(o.last)
	}
}

func (o *keyboardObserver) close() {
	keyboard.Unregister(o.center, o)
}
