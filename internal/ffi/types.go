package ffi

import "time"

// Keyboard notification kinds as reported by the host library.
const (
	KeyboardWillShow uint8 = 1
	KeyboardWillHide uint8 = 2
)

// KeyboardEventC matches the C layout of a host keyboard notification.
// Frame is the keyboard's end frame in screen coordinates and Duration is
// the animation duration in seconds.
type KeyboardEventC struct {
	Kind     uint8
	_        [7]byte // padding
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Duration float64
}

// KeyboardEvent is a decoded host keyboard notification.
type KeyboardEvent struct {
	Kind     uint8
	Frame    RectC
	Duration time.Duration
}

// RectC matches the C layout of a rectangle.
type RectC struct {
	X, Y, Width, Height float64
}

// SafeAreaInsetsC matches the C struct layout for safe area insets.
type SafeAreaInsetsC struct {
	Top    float32
	Left   float32
	Bottom float32
	Right  float32
}

// SafeAreaInsets are the insets from each edge of the window that are
// obscured by system UI.
type SafeAreaInsets struct {
	Top    float32
	Left   float32
	Bottom float32
	Right  float32
}

func eventFromC(e *KeyboardEventC) KeyboardEvent {
	return KeyboardEvent{
		Kind:     e.Kind,
		Frame:    RectC{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height},
		Duration: time.Duration(e.Duration * float64(time.Second)),
	}
}
