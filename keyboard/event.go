// Package keyboard describes soft keyboard frame changes and redistributes
// the host's keyboard notifications to interested observers.
package keyboard

import (
	"time"

	"github.com/agiangrant/scrollkit/geom"
)

// DefaultNavigationThreshold separates a keyboard transition (about 250ms on
// iOS) from a navigation push or pop (about 350ms) that also happens to post
// a hide/show pair.
const DefaultNavigationThreshold = 300 * time.Millisecond

// FrameEvent is a single change of the keyboard's frame.
type FrameEvent struct {
	// Frame is the keyboard's target frame in screen coordinates.
	Frame geom.Rect

	// Duration is the length of the show or hide animation.
	Duration time.Duration
}

// IsLikelyNavigationTransition reports whether the event was most likely
// caused by a navigation transition rather than the keyboard itself. A
// threshold of zero uses DefaultNavigationThreshold.
//
// The underlying durations are host and OS version dependent.
func (e FrameEvent) IsLikelyNavigationTransition(threshold time.Duration) bool {
	if threshold <= 0 {
		threshold = DefaultNavigationThreshold
	}
	return e.Duration > threshold
}

// Kind is the type of a host keyboard notification.
type Kind uint8

const (
	WillShow Kind = iota
	WillHide
)

func (k Kind) String() string {
	switch k {
	case WillShow:
		return "will-show"
	case WillHide:
		return "will-hide"
	default:
		return "unknown"
	}
}

// Notification is a keyboard will-show or will-hide notification as posted
// by the host.
type Notification struct {
	Kind     Kind
	Frame    geom.Rect
	Duration time.Duration
}

// Event returns the frame event carried by n.
func (n Notification) Event() FrameEvent {
	return FrameEvent{Frame: n.Frame, Duration: n.Duration}
}
