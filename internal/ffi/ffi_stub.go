//go:build !darwin && !linux && !windows

package ffi

import "errors"

var ErrNotLoaded = errors.New("ffi: host library not loaded")

const LibraryEnv = "SCROLLKIT_HOST_LIB"

func LibraryPath() string { return "" }

func Load() error { return ErrNotLoaded }

func Loaded() bool { return false }

func Version() string { return "" }

func SetKeyboardHandler(func(KeyboardEvent)) error { return ErrNotLoaded }

func KeyboardIsVisible() bool { return false }

func KeyboardFrame() (RectC, bool) { return RectC{}, false }

func GetSafeAreaInsets() SafeAreaInsets { return SafeAreaInsets{} }

func RootFrame() RectC { return RectC{} }

func AdditionalBottomInset() float64 { return 0 }

func SetAdditionalBottomInset(float64) {}
