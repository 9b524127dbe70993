package scrollkit

import "runtime"

// Platform represents the current operating system/platform
type Platform string

const (
	PlatformMacOS   Platform = "darwin"
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
	PlatformWeb     Platform = "js"
	PlatformUnknown Platform = "unknown"
)

// CurrentPlatform returns the platform the program is running on
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "darwin", "ios":
		// GOOS=ios builds also satisfy the darwin constraint, so the ios
		// build tag decides.
		return detectDarwinPlatform()
	case "android":
		return PlatformAndroid
	case "linux":
		return PlatformLinux
	case "windows":
		return PlatformWindows
	case "js":
		return PlatformWeb
	default:
		return PlatformUnknown
	}
}

// IsMobile returns true if running on iOS or Android
func IsMobile() bool {
	p := CurrentPlatform()
	return p == PlatformIOS || p == PlatformAndroid
}

// HasSoftKeyboard reports whether the platform normally presents an
// on-screen keyboard that covers content.
func HasSoftKeyboard() bool {
	return IsMobile()
}
