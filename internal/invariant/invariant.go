// Package invariant reports programming defects: state-machine breaches that
// mean visual state and internal state have drifted apart.
//
// A breach is always logged at error level. When strict mode is on it also
// panics, so development builds and tests stop at the first defect.
package invariant

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

var strict atomic.Bool

func init() {
	strict.Store(debugBuild)
}

// SetStrict turns panicking on or off and returns the previous setting.
func SetStrict(on bool) bool {
	return strict.Swap(on)
}

// Strict reports whether breaches panic.
func Strict() bool {
	return strict.Load()
}

// Failf reports a breach.
func Failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Default().Error("invariant violated", slog.String("detail", msg))
	if strict.Load() {
		panic("scrollkit: " + msg)
	}
}

// Check reports a breach when cond is false.
func Check(cond bool, format string, args ...any) {
	if !cond {
		Failf(format, args...)
	}
}
