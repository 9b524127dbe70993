// Package filter applies a temporal filter to keyboard frame changes and
// scroll-to-visible requests.
//
// Keyboard frame notifications arrive in bursts: changing the first responder,
// tapping an AutoFill suggestion or rotating the device can post a hide and
// two shows within a tenth of a second. Acting on each one animates the
// content in visible jumps. A Filter holds the latest event of each kind and
// delivers it once the burst has gone quiet, keyboard first, so the scroll
// delegate always sees layout that already accounts for the keyboard.
//
// Scroll requests are filtered too. After a rotation the host asks to scroll
// the first responder into view before the container's insets are updated;
// deferring the request lets it run against the final geometry.
package filter

import (
	"log/slog"
	"time"

	"github.com/agiangrant/scrollkit/keyboard"
)

// DefaultDelay is slightly longer than the gap between the keyboard frame
// notifications that accompany a device rotation.
const DefaultDelay = 100 * time.Millisecond

// KeyboardDelegate is notified when a filtered keyboard frame event fires.
type KeyboardDelegate interface {
	AdjustForKeyboardFrameEvent(f *Filter, e keyboard.FrameEvent)
}

// ScrollDelegate is notified when a filtered scroll rect event fires.
type ScrollDelegate interface {
	AdjustForScrollRectEvent(f *Filter, e ScrollRectEvent)
}

// Config configures a Filter.
type Config struct {
	// Delay is the quiet period that must follow the last submission before
	// delegates are called.
	Delay time.Duration

	Logger *slog.Logger
}

// DefaultConfig returns the default filter configuration.
func DefaultConfig() Config {
	return Config{Delay: DefaultDelay}
}

// Filter coalesces keyboard frame events and scroll rect events behind one
// shared countdown.
//
// A Filter is driven from the host's UI goroutine and its Scheduler must call
// back on that same goroutine. It is not safe for concurrent use.
type Filter struct {
	sched  Scheduler
	delay  time.Duration
	logger *slog.Logger

	keyboardDelegate KeyboardDelegate
	scrollDelegate   ScrollDelegate

	keyboardEvent    keyboard.FrameEvent
	hasKeyboardEvent bool
	scrollEvent      ScrollRectEvent
	hasScrollEvent   bool

	// Countdown state. timer is non-nil only while a countdown is live.
	timer         Timer
	timerStart    time.Time
	timerInterval time.Duration
	generation    uint64

	suspended bool

	// restartOnResume is set when a countdown was live at Suspend or an event
	// was submitted while suspended.
	restartOnResume   bool
	suspendedInterval time.Duration
}

// New creates a filter that schedules its countdown on sched.
func New(sched Scheduler, cfg Config) *Filter {
	if sched == nil {
		panic("filter: nil scheduler")
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{
		sched:  sched,
		delay:  cfg.Delay,
		logger: logger.With(slog.String("component", "filter")),
	}
}

// SetKeyboardDelegate sets the delegate for keyboard frame events.
func (f *Filter) SetKeyboardDelegate(d KeyboardDelegate) { f.keyboardDelegate = d }

// SetScrollDelegate sets the delegate for scroll rect events.
func (f *Filter) SetScrollDelegate(d ScrollDelegate) { f.scrollDelegate = d }

// Delay returns the filter's quiet period.
func (f *Filter) Delay() time.Duration { return f.delay }

// SubmitKeyboardFrameEvent replaces any pending keyboard frame event and
// restarts the countdown.
func (f *Filter) SubmitKeyboardFrameEvent(e keyboard.FrameEvent) {
	f.keyboardEvent = e
	f.hasKeyboardEvent = true
	f.startTimer(f.delay)
}

// SubmitScrollRectEvent replaces any pending scroll rect event and restarts
// the countdown.
func (f *Filter) SubmitScrollRectEvent(e ScrollRectEvent) {
	f.scrollEvent = e
	f.hasScrollEvent = true
	f.startTimer(f.delay)
}

// Cancel drops pending events and any live countdown without calling the
// delegates. A suspended filter stays suspended.
func (f *Filter) Cancel() {
	f.stopTimer()
	f.hasKeyboardEvent = false
	f.keyboardEvent = keyboard.FrameEvent{}
	f.hasScrollEvent = false
	f.scrollEvent = ScrollRectEvent{}
	f.restartOnResume = false
	f.suspendedInterval = 0
}

// Flush delivers pending events immediately. It has no effect when nothing
// is pending. While suspended, nothing is delivered, but pending events fire
// as soon as the filter resumes.
func (f *Filter) Flush() {
	if f.suspended {
		f.suspendedInterval = 0
		return
	}
	if f.hasPending() {
		f.fire()
	}
}

// Suspend pauses the countdown, remembering the time left on it. Calling
// Suspend on a suspended filter has no effect.
func (f *Filter) Suspend() {
	if f.suspended {
		return
	}
	if f.timer != nil {
		f.restartOnResume = true
		f.suspendedInterval = f.remaining()
	} else {
		f.restartOnResume = false
		f.suspendedInterval = 0
	}
	f.suspended = true
	f.stopTimer()

	f.logger.Debug("suspended", slog.Duration("remaining", f.suspendedInterval))
}

// Resume restarts a countdown paused by Suspend with exactly the time that
// was left on it. Calling Resume on a filter that is not suspended has no
// effect.
func (f *Filter) Resume() {
	if !f.suspended {
		return
	}
	f.suspended = false
	if !f.restartOnResume {
		return
	}
	interval := f.suspendedInterval
	f.restartOnResume = false
	f.suspendedInterval = 0

	f.logger.Debug("resumed", slog.Duration("remaining", interval))
	f.startTimer(interval)
}

// IsSuspended reports whether the filter is suspended.
func (f *Filter) IsSuspended() bool { return f.suspended }

// Pending reports which kinds of event are waiting to be delivered.
func (f *Filter) Pending() (keyboardEvent, scrollEvent bool) {
	return f.hasKeyboardEvent, f.hasScrollEvent
}

// Deadline returns when the live countdown elapses.
func (f *Filter) Deadline() (time.Time, bool) {
	if f.timer == nil {
		return time.Time{}, false
	}
	return f.timerStart.Add(f.timerInterval), true
}

func (f *Filter) hasPending() bool {
	return f.hasKeyboardEvent || f.hasScrollEvent
}

// startTimer (re)starts the countdown. The new deadline is never earlier than
// one already in flight.
func (f *Filter) startTimer(interval time.Duration) {
	if f.suspended {
		f.restartOnResume = true
		f.suspendedInterval = max(f.suspendedInterval, interval)
		return
	}

	// remaining must be read before stopTimer clears the countdown.
	interval = max(interval, f.remaining())
	f.stopTimer()

	if interval <= 0 {
		f.fire()
		return
	}

	f.generation++
	gen := f.generation
	f.timerStart = f.sched.Now()
	f.timerInterval = interval
	f.timer = f.sched.AfterFunc(interval, func() {
		if gen != f.generation || f.timer == nil {
			return
		}
		f.fire()
	})
}

func (f *Filter) stopTimer() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.generation++
	f.timerStart = time.Time{}
	f.timerInterval = 0
}

func (f *Filter) remaining() time.Duration {
	if f.timer == nil {
		return 0
	}
	return max(0, f.timerInterval-f.sched.Now().Sub(f.timerStart))
}

// fire delivers pending events, keyboard first. Each slot is cleared before
// its delegate runs, so a delegate that submits a new event of the same kind
// schedules it for the next window.
func (f *Filter) fire() {
	f.stopTimer()

	if f.hasKeyboardEvent {
		e := f.keyboardEvent
		f.hasKeyboardEvent = false
		f.keyboardEvent = keyboard.FrameEvent{}

		f.logger.Debug("deliver keyboard frame event",
			slog.String("frame", e.Frame.String()),
			slog.Duration("duration", e.Duration))
		if f.keyboardDelegate != nil {
			f.keyboardDelegate.AdjustForKeyboardFrameEvent(f, e)
		}
	}

	if f.suspended {
		// The keyboard delegate suspended the filter. Anything still pending
		// waits for Resume.
		if f.hasPending() {
			f.restartOnResume = true
		}
		return
	}

	// A scroll event submitted by the keyboard delegate above is delivered in
	// this same pass.
	if f.hasScrollEvent {
		e := f.scrollEvent
		f.hasScrollEvent = false
		f.scrollEvent = ScrollRectEvent{}

		f.logger.Debug("deliver scroll rect event", slog.Bool("animated", e.Animated))
		if f.scrollDelegate != nil {
			f.scrollDelegate.AdjustForScrollRectEvent(f, e)
		}
	}

	if !f.suspended && !f.hasPending() {
		f.stopTimer()
	}
}
