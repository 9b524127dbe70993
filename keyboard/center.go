package keyboard

import (
	"log/slog"
	"sync"
	"weak"
)

// Observer receives keyboard notifications from a Center.
type Observer interface {
	DidReceiveKeyboardNotification(n Notification)
}

// Center fans the host's keyboard notifications out to observers. It holds
// observers weakly: registration never keeps an observer alive, and entries
// whose observer has been collected are skipped and pruned.
//
// A Center is not safe for concurrent use. Like the rest of the package it
// belongs to the host's UI goroutine.
type Center struct {
	entries []*entry
	last    Notification
	hasLast bool
	logger  *slog.Logger
}

type entry struct {
	id      any
	load    func() Observer
	removed bool
}

var (
	sharedOnce sync.Once
	shared     *Center
)

// Shared returns the process-wide center, creating it on first use. It is
// never torn down. Tests that run in parallel should use NewCenter instead.
func Shared() *Center {
	sharedOnce.Do(func() {
		shared = NewCenter()
	})
	return shared
}

// NewCenter returns an isolated center.
func NewCenter() *Center {
	return &Center{}
}

// SetLogger sets the logger used for delivery traces.
func (c *Center) SetLogger(l *slog.Logger) {
	c.logger = l
}

func (c *Center) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default().With(slog.String("component", "keyboard"))
}

// Register adds o to c's observers without taking ownership of it. Observers
// are notified in registration order.
func Register[T any, P interface {
	*T
	Observer
}](c *Center, o P) {
	if o == nil {
		return
	}
	wp := weak.Make((*T)(o))
	c.entries = append(c.entries, &entry{
		id: wp,
		load: func() Observer {
			if p := wp.Value(); p != nil {
				return P(p)
			}
			return nil
		},
	})
}

// Unregister removes o from c's observers. Entries whose observer has been
// collected are dropped at the same time.
func Unregister[T any, P interface {
	*T
	Observer
}](c *Center, o P) {
	if o == nil {
		return
	}
	id := weak.Make((*T)(o))
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.id == any(id) {
			e.removed = true
			continue
		}
		if e.load() == nil {
			e.removed = true
			continue
		}
		kept = append(kept, e)
	}
	clear(c.entries[len(kept):])
	c.entries = kept
}

// Len returns the number of registrations, including ones whose observer has
// been collected but not yet pruned.
func (c *Center) Len() int {
	return len(c.entries)
}

// Post records n as the last notification and delivers it to every live
// observer. Observers unregistered or collected while delivery is in
// progress are skipped.
func (c *Center) Post(n Notification) {
	c.last = n
	c.hasLast = true

	c.log().Debug("keyboard notification",
		slog.String("kind", n.Kind.String()),
		slog.String("frame", n.Frame.String()),
		slog.Duration("duration", n.Duration),
		slog.Int("observers", len(c.entries)))

	snapshot := append([]*entry(nil), c.entries...)
	dead := 0
	for _, e := range snapshot {
		if e.removed {
			continue
		}
		o := e.load()
		if o == nil {
			dead++
			continue
		}
		o.DidReceiveKeyboardNotification(n)
	}

	if dead > 0 {
		c.prune()
	}
}

// Last returns the most recently posted notification, so that observers
// created while the keyboard is already visible can adopt its frame.
func (c *Center) Last() (Notification, bool) {
	return c.last, c.hasLast
}

func (c *Center) prune() {
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.removed || e.load() == nil {
			e.removed = true
			continue
		}
		kept = append(kept, e)
	}
	clear(c.entries[len(kept):])
	c.entries = kept
}
