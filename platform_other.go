//go:build !darwin

package scrollkit

func detectDarwinPlatform() Platform {
	return PlatformUnknown
}
