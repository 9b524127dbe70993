//go:build darwin || linux || windows

// Package ffi binds the native host library via purego. The library reports
// soft-keyboard frame changes and owns the host window's safe-area insets.
package ffi

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ErrNotLoaded is returned when the host library is unavailable.
var ErrNotLoaded = errors.New("ffi: host library not loaded")

// LibraryEnv names the environment variable that overrides library lookup.
const LibraryEnv = "SCROLLKIT_HOST_LIB"

var (
	libHandle   uintptr
	libOnce     sync.Once
	libErr      error
	initialized bool
)

// Library function pointers, populated by Load.
var (
	fnHostVersion          func() uintptr
	fnSetKeyboardCallback  func(cb uintptr)
	fnGetSafeAreaInsetsPtr func(out uintptr) int32
	fnGetRootFramePtr      func(out uintptr) int32
	fnGetAdditionalBottom  func() float64
	fnSetAdditionalBottom  func(v float64)

	fnKeyboardIsVisible   func() int32
	fnGetKeyboardFramePtr func(out uintptr) int32
)

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "ffi"))
}

// LibraryPath returns the path Load will open.
func LibraryPath() string {
	if path := os.Getenv(LibraryEnv); path != "" {
		return path
	}

	var libName string
	switch runtime.GOOS {
	case "darwin", "ios":
		libName = "libscrollkit_host.dylib"
	case "windows":
		libName = "scrollkit_host.dll"
	default:
		libName = "libscrollkit_host.so"
	}

	searchPaths := []string{libName}
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		searchPaths = append(searchPaths,
			filepath.Join(execDir, libName),
			filepath.Join(execDir, "..", "lib", libName),
		)
		if runtime.GOOS == "ios" || runtime.GOOS == "darwin" {
			searchPaths = append(searchPaths,
				filepath.Join(execDir, "Frameworks", libName),
				filepath.Join(execDir, "..", "Frameworks", libName),
			)
		}
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}

	// Let the dynamic loader search.
	return libName
}

// Load opens the host library and registers its functions. It is safe to
// call more than once; only the first call does any work.
func Load() error {
	libOnce.Do(func() {
		libPath := LibraryPath()
		logger().Debug("loading host library",
			slog.String("path", libPath),
			slog.String("goos", runtime.GOOS),
			slog.String("goarch", runtime.GOARCH))

		var err error
		libHandle, err = openLibrary(libPath)
		if err != nil {
			libErr = fmt.Errorf("%w: %s: %v", ErrNotLoaded, libPath, err)
			return
		}

		purego.RegisterLibFunc(&fnHostVersion, libHandle, "scrollkit_host_version")
		purego.RegisterLibFunc(&fnSetKeyboardCallback, libHandle, "scrollkit_host_set_keyboard_callback")
		purego.RegisterLibFunc(&fnGetSafeAreaInsetsPtr, libHandle, "scrollkit_host_safe_area_insets_ptr")
		purego.RegisterLibFunc(&fnGetRootFramePtr, libHandle, "scrollkit_host_root_frame_ptr")
		purego.RegisterLibFunc(&fnGetAdditionalBottom, libHandle, "scrollkit_host_additional_bottom_inset")
		purego.RegisterLibFunc(&fnSetAdditionalBottom, libHandle, "scrollkit_host_set_additional_bottom_inset")

		// Only hosts with a software keyboard export these.
		registerOptionalFunc(&fnKeyboardIsVisible, "scrollkit_host_keyboard_is_visible")
		registerOptionalFunc(&fnGetKeyboardFramePtr, "scrollkit_host_keyboard_frame_ptr")

		initialized = true
		logger().Info("host library loaded", slog.String("path", libPath))
	})
	return libErr
}

// Loaded reports whether Load succeeded.
func Loaded() bool { return initialized }

// registerOptionalFunc registers fn if the library exports name.
func registerOptionalFunc[T any](fn *T, name string) {
	if _, err := getSymbol(libHandle, name); err != nil {
		return
	}
	purego.RegisterLibFunc(fn, libHandle, name)
}

// Version returns the host library's version string.
func Version() string {
	if !initialized {
		return ""
	}
	return goString(fnHostVersion())
}

func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Add(unsafe.Pointer(ptr), n)) != 0 {
		n++
		if n > 1<<16 {
			break
		}
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}

// ============================================================================
// Keyboard notifications
// ============================================================================

var (
	keyboardMu          sync.Mutex
	keyboardHandler     func(KeyboardEvent)
	keyboardCallbackPtr uintptr
)

// SetKeyboardHandler installs h as the receiver of the host's keyboard
// notifications, replacing any previous handler. h runs on whichever thread
// the host posts from.
func SetKeyboardHandler(h func(KeyboardEvent)) error {
	if !initialized {
		return ErrNotLoaded
	}
	keyboardMu.Lock()
	keyboardHandler = h
	first := keyboardCallbackPtr == 0
	if first {
		keyboardCallbackPtr = purego.NewCallback(keyboardCallback)
	}
	ptr := keyboardCallbackPtr
	keyboardMu.Unlock()

	if first {
		fnSetKeyboardCallback(ptr)
	}
	return nil
}

func keyboardCallback(eventPtr uintptr) {
	if eventPtr == 0 {
		return
	}
	keyboardMu.Lock()
	h := keyboardHandler
	keyboardMu.Unlock()
	if h == nil {
		return
	}
	h(eventFromC((*KeyboardEventC)(unsafe.Pointer(eventPtr))))
}

// KeyboardIsVisible reports whether the software keyboard is up.
func KeyboardIsVisible() bool {
	if !initialized || fnKeyboardIsVisible == nil {
		return false
	}
	return fnKeyboardIsVisible() != 0
}

// KeyboardFrame returns the software keyboard's current frame in screen
// coordinates. The boolean is false when the keyboard is hidden or the host
// cannot report its frame.
func KeyboardFrame() (RectC, bool) {
	if !KeyboardIsVisible() || fnGetKeyboardFramePtr == nil {
		return RectC{}, false
	}
	var r RectC
	fnGetKeyboardFramePtr(uintptr(unsafe.Pointer(&r)))
	return r, r.Width > 0 && r.Height > 0
}

// ============================================================================
// Safe area and geometry
// ============================================================================

// GetSafeAreaInsets returns the system safe-area insets of the host window.
// Without a host library it returns zero insets.
func GetSafeAreaInsets() SafeAreaInsets {
	if !initialized {
		return SafeAreaInsets{}
	}
	var result SafeAreaInsetsC
	fnGetSafeAreaInsetsPtr(uintptr(unsafe.Pointer(&result)))
	return SafeAreaInsets{
		Top:    result.Top,
		Left:   result.Left,
		Bottom: result.Bottom,
		Right:  result.Right,
	}
}

// RootFrame returns the host root view's frame in screen coordinates.
func RootFrame() RectC {
	if !initialized {
		return RectC{}
	}
	var r RectC
	fnGetRootFramePtr(uintptr(unsafe.Pointer(&r)))
	return r
}

// AdditionalBottomInset returns the extra bottom safe-area inset the host
// applies on top of the system one.
func AdditionalBottomInset() float64 {
	if !initialized {
		return 0
	}
	return fnGetAdditionalBottom()
}

// SetAdditionalBottomInset sets the extra bottom safe-area inset.
func SetAdditionalBottomInset(v float64) {
	if !initialized {
		return
	}
	fnSetAdditionalBottom(v)
}
