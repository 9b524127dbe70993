package runloop

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/agiangrant/scrollkit/filter"
)

// Loop is a cooperative run loop: one goroutine, the one calling Run,
// executes every posted function and every timer callback in order. It
// stands in for the host UI thread on platforms that do not provide one.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	closed  bool
	logger  *slog.Logger
}

// New creates a loop. Call Run to start processing.
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		logger: logger.With(slog.String("component", "runloop")),
	}
}

// Post queues fn to run on the loop goroutine. It is safe to call from any
// goroutine, including the loop itself. It returns false once the loop has
// stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run processes posted functions until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.closed = true
		l.pending = nil
		l.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}

		for {
			l.mu.Lock()
			batch := l.pending
			l.pending = nil
			l.mu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, fn := range batch {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				fn()
			}
		}
	}
}

func (l *Loop) Now() time.Time { return time.Now() }

// AfterFunc schedules fn on the loop goroutine after d. The returned timer
// must be stopped from the loop goroutine.
func (l *Loop) AfterFunc(d time.Duration, fn func()) filter.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		if !l.Post(func() {
			if t.stopped {
				return
			}
			t.fired = true
			fn()
		}) {
			l.logger.Debug("timer fired after loop stopped")
		}
	})
	return t
}

type loopTimer struct {
	timer   *time.Timer
	stopped bool
	fired   bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}
