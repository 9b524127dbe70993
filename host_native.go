package scrollkit

import (
	"fmt"

	"github.com/agiangrant/scrollkit/geom"
	"github.com/agiangrant/scrollkit/internal/ffi"
	"github.com/agiangrant/scrollkit/keyboard"
)

// NativeHost is a HostController backed by the native host library. The
// library is located through the SCROLLKIT_HOST_LIB environment variable or
// next to the executable.
type NativeHost struct{}

// OpenNativeHost loads the host library.
func OpenNativeHost() (*NativeHost, error) {
	if err := ffi.Load(); err != nil {
		return nil, fmt.Errorf("open native host: %w", err)
	}
	return &NativeHost{}, nil
}

func (*NativeHost) BottomMargin() float64 { return ffi.AdditionalBottomInset() }

func (*NativeHost) SetBottomMargin(v float64) { ffi.SetAdditionalBottomInset(v) }

func (*NativeHost) Frame() geom.Rect {
	r := ffi.RootFrame()
	return geom.R(r.X, r.Y, r.Width, r.Height)
}

// SafeAreaInsets returns the system safe-area insets.
func (*NativeHost) SafeAreaInsets() geom.Insets {
	in := ffi.GetSafeAreaInsets()
	return geom.Insets{
		Top:    float64(in.Top),
		Left:   float64(in.Left),
		Bottom: float64(in.Bottom),
		Right:  float64(in.Right),
	}
}

// ForwardKeyboard posts the host's keyboard notifications to c. The host
// may call back from any thread, so each notification is handed to post,
// which must run it on the goroutine that owns c (runloop.Loop.Post,
// typically). A keyboard that is already up is posted as a show, so that
// managers created afterwards adopt it.
func (*NativeHost) ForwardKeyboard(c *keyboard.Center, post func(func()) bool) error {
	return forwardKeyboard(c, post, ffi.SetKeyboardHandler, ffi.KeyboardFrame)
}

func forwardKeyboard(
	c *keyboard.Center,
	post func(func()) bool,
	setHandler func(func(ffi.KeyboardEvent)) error,
	current func() (ffi.RectC, bool),
) error {
	err := setHandler(func(e ffi.KeyboardEvent) {
		n, ok := notificationFromNative(e)
		if !ok {
			return
		}
		post(func() { c.Post(n) })
	})
	if err != nil {
		return err
	}

	// The host sends no will-show for a keyboard presented before the
	// handler was installed.
	if r, ok := current(); ok {
		n := keyboard.Notification{
			Kind:  keyboard.WillShow,
			Frame: geom.R(r.X, r.Y, r.Width, r.Height),
		}
		post(func() { c.Post(n) })
	}
	return nil
}

func notificationFromNative(e ffi.KeyboardEvent) (keyboard.Notification, bool) {
	var kind keyboard.Kind
	switch e.Kind {
	case ffi.KeyboardWillShow:
		kind = keyboard.WillShow
	case ffi.KeyboardWillHide:
		kind = keyboard.WillHide
	default:
		return keyboard.Notification{}, false
	}
	return keyboard.Notification{
		Kind:     kind,
		Frame:    geom.R(e.Frame.X, e.Frame.Y, e.Frame.Width, e.Frame.Height),
		Duration: e.Duration,
	}, true
}
