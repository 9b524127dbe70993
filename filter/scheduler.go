package filter

import "time"

// Scheduler runs deferred callbacks on the host's UI goroutine.
type Scheduler interface {
	Now() time.Time

	// AfterFunc calls fn once d has elapsed. The callback must run on the
	// same goroutine that drives the Filter.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped it before it ran.
	Stop() bool
}
