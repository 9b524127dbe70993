// Package scrollkit keeps a scrollable content area usable beneath a soft
// keyboard.
//
// A Manager watches keyboard notifications, waits for each burst of them to
// settle, then reserves space at the bottom of the host for the part of the
// keyboard that overlaps it and scrolls the first responder into view.
// Rotations and other size transitions suspend keyboard handling until the
// transition completes, so only the final keyboard frame is acted on.
//
// Everything here runs on the host's UI goroutine. Use a runloop.Loop as the
// scheduler when the host does not provide one.
package scrollkit

import (
	"log/slog"
	"time"

	"github.com/agiangrant/scrollkit/bounce"
	"github.com/agiangrant/scrollkit/filter"
	"github.com/agiangrant/scrollkit/geom"
	"github.com/agiangrant/scrollkit/keyboard"
	"github.com/agiangrant/scrollkit/safearea"
	"github.com/agiangrant/scrollkit/scroll"
)

// HostController is the view controller hosting the scroll container.
type HostController interface {
	safearea.Host

	// Frame is the host's root view in screen coordinates, the space
	// keyboard frames are reported in.
	Frame() geom.Rect
}

// ContentLayout controls the content view's size while the keyboard is up.
type ContentLayout interface {
	// ContentHeight is the content view's current height.
	ContentHeight() float64

	// PinMinimumHeight keeps the content at least h tall until
	// UnpinMinimumHeight is called.
	PinMinimumHeight(h float64)
	UnpinMinimumHeight()
}

// TransitionCoordinator runs changes alongside a host size transition.
type TransitionCoordinator interface {
	// Animate calls alongside during the transition's animation and
	// completion once it has finished.
	Animate(alongside func(), completion func())
}

// Config configures a Manager.
type Config struct {
	// FilterDelay is the quiet period that coalesces bursts of keyboard
	// notifications and scroll requests.
	FilterDelay time.Duration

	// NavigationThreshold separates keyboard animations from screen
	// navigation transitions. Keyboard events with a longer duration are
	// applied immediately.
	NavigationThreshold time.Duration

	// VisibilityScrollMargin is the default margin kept around areas
	// scrolled into view.
	VisibilityScrollMargin float64

	// ShouldResizeContentViewForKeyboard lets the content shrink with the
	// visible area. When false, the content keeps the height it had when
	// the keyboard appeared.
	ShouldResizeContentViewForKeyboard bool

	// ShouldAdjustSafeAreaForKeyboard raises the host's bottom margin by
	// the keyboard overlap.
	ShouldAdjustSafeAreaForKeyboard bool

	// Center delivers keyboard notifications. Nil means keyboard.Shared().
	Center *keyboard.Center

	// Layout is optional.
	Layout ContentLayout

	Logger *slog.Logger
}

// DefaultConfig returns the default manager configuration.
func DefaultConfig() Config {
	return Config{
		FilterDelay:                     filter.DefaultDelay,
		NavigationThreshold:             keyboard.DefaultNavigationThreshold,
		ShouldAdjustSafeAreaForKeyboard: true,
	}
}

// Manager coordinates a host controller, its scroll container and the
// keyboard.
type Manager struct {
	cfg    Config
	host   HostController
	vp     scroll.Viewport
	logger *slog.Logger

	filter   *filter.Filter
	scroller *scroll.ContentScroller
	safeArea *safearea.Controller
	bounce   *bounce.Controller
	observer *keyboardObserver

	bottomInset  float64
	heightPinned bool
	closed       bool
}

// New creates a manager and starts observing the keyboard. If the keyboard
// is already up, its last reported frame is adopted.
func New(host HostController, vp scroll.Viewport, sched filter.Scheduler, cfg Config) *Manager {
	if host == nil || vp == nil {
		panic("scrollkit: nil host or viewport")
	}
	if cfg.NavigationThreshold <= 0 {
		cfg.NavigationThreshold = keyboard.DefaultNavigationThreshold
	}
	if cfg.Center == nil {
		cfg.Center = keyboard.Shared()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		cfg:    cfg,
		host:   host,
		vp:     vp,
		logger: logger.With(slog.String("component", "manager")),
	}
	m.filter = filter.New(sched, filter.Config{Delay: cfg.FilterDelay, Logger: logger})
	m.scroller = scroll.NewContentScroller(vp, m.filter, scroll.Config{
		VisibilityMargin: cfg.VisibilityScrollMargin,
		Logger:           logger,
	})
	m.safeArea = safearea.New(host, safeAreaHooks{m}, logger)
	m.bounce = bounce.New(vp)
	m.observer = newKeyboardObserver(m)

	m.logger.Debug("manager created",
		slog.String("platform", string(CurrentPlatform())),
		slog.Duration("delay", m.filter.Delay()))
	if !HasSoftKeyboard() {
		m.logger.Debug("platform has no soft keyboard; only host-reported frames apply")
	}
	return m
}

// Filter returns the manager's event filter.
func (m *Manager) Filter() *filter.Filter { return m.filter }

// Scroller returns the scroller for the manager's viewport. Requests to
// scroll content into view should go through it so that they are deferred
// past keyboard changes.
func (m *Manager) Scroller() *scroll.ContentScroller { return m.scroller }

// BottomInset returns the keyboard overlap last applied.
func (m *Manager) BottomInset() float64 { return m.bottomInset }

// ShouldResizeContentViewForKeyboard reports the current setting.
func (m *Manager) ShouldResizeContentViewForKeyboard() bool {
	return m.cfg.ShouldResizeContentViewForKeyboard
}

func (m *Manager) SetShouldResizeContentViewForKeyboard(on bool) {
	m.cfg.ShouldResizeContentViewForKeyboard = on
}

// ShouldAdjustSafeAreaForKeyboard reports the current setting.
func (m *Manager) ShouldAdjustSafeAreaForKeyboard() bool {
	return m.cfg.ShouldAdjustSafeAreaForKeyboard
}

func (m *Manager) SetShouldAdjustSafeAreaForKeyboard(on bool) {
	m.cfg.ShouldAdjustSafeAreaForKeyboard = on
}

// AdjustForKeyboard applies a keyboard overlap. Bounce is updated before
// the safe area. Repeating the current value does nothing.
func (m *Manager) AdjustForKeyboard(bottomInset float64) {
	if bottomInset == m.bottomInset {
		return
	}
	m.logger.Debug("adjust for keyboard",
		slog.Float64("from", m.bottomInset),
		slog.Float64("to", bottomInset))
	m.bottomInset = bottomInset

	m.bounce.SetBottomInset(bottomInset)
	if m.cfg.ShouldAdjustSafeAreaForKeyboard {
		m.safeArea.SetBottomInset(bottomInset)
	}
}

// AdjustForKeyboardFrameEvent implements filter.KeyboardDelegate.
func (m *Manager) AdjustForKeyboardFrameEvent(_ *filter.Filter, e keyboard.FrameEvent) {
	m.AdjustForKeyboard(KeyboardOverlap(e.Frame, m.host.Frame()))
}

// KeyboardOverlap returns the height of the part of keyboard that covers
// host. Both are in screen coordinates.
func KeyboardOverlap(keyboardFrame, host geom.Rect) float64 {
	r, ok := host.Intersection(keyboardFrame)
	if !ok {
		return 0
	}
	return r.Size.Height
}

// InjectKeyboardFrameEvent submits e as though it came from a keyboard
// notification.
func (m *Manager) InjectKeyboardFrameEvent(e keyboard.FrameEvent) {
	m.observer.submit(e)
}

// ViewSafeAreaInsetsDidChange re-evaluates the last keyboard frame against
// the host's new insets. Hosts should call it from their safe-area change
// callback.
func (m *Manager) ViewSafeAreaInsetsDidChange() {
	m.observer.safeAreaInsetsDidChange()
}

// ViewWillTransition keeps the top-left corner of the content fixed across
// a size transition and holds keyboard handling until it completes. A nil
// coordinator applies the correction immediately.
func (m *Manager) ViewWillTransition(size geom.Size, coord TransitionCoordinator) {
	initialInset := m.vp.AdjustedContentInset()
	initialOffset := m.vp.ContentOffset()

	m.logger.Debug("view will transition",
		slog.Float64("width", size.Width),
		slog.Float64("height", size.Height))

	// Rotation posts a hide, then a show only after the animation ends.
	// Suspending means only the final frame is applied.
	m.filter.Suspend()

	alongside := func() {
		inset := m.vp.AdjustedContentInset()
		p := geom.Point{
			X: initialOffset.X + initialInset.Left - inset.Left,
			Y: initialOffset.Y + initialInset.Top - inset.Top,
		}
		m.vp.SetContentOffset(scroll.ConstrainContentOffset(m.vp, p), false)
	}
	completion := func() {
		if m.filter.IsSuspended() {
			m.filter.Resume()
		}
	}

	if coord == nil {
		alongside()
		completion()
		return
	}
	coord.Animate(alongside, completion)
}

// ViewWillAppear logs a warning when the content has no size along either
// axis, which leaves nothing to scroll.
func (m *Manager) ViewWillAppear() {
	size := m.vp.ContentSize()
	if size.Width <= 0 && size.Height <= 0 {
		m.logger.Warn("content size is undefined; give the content a size along at least one axis")
	}
}

// Close stops observing the keyboard and drops pending events.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.observer.close()
	m.filter.Cancel()
}

type safeAreaHooks struct{ m *Manager }

func (h safeAreaHooks) WillAdjustForPresentedKeyboard() {
	m := h.m
	if m.cfg.ShouldResizeContentViewForKeyboard || m.cfg.Layout == nil {
		return
	}
	m.cfg.Layout.PinMinimumHeight(m.cfg.Layout.ContentHeight())
	m.heightPinned = true
}

func (h safeAreaHooks) DidRestoreAfterDismissal() {
	m := h.m
	if !m.heightPinned {
		return
	}
	m.heightPinned = false
	if m.cfg.Layout != nil {
		m.cfg.Layout.UnpinMinimumHeight()
	}
}
