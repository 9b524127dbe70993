//go:build ios

package scrollkit

func detectDarwinPlatform() Platform {
	return PlatformIOS
}
