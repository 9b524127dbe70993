//go:build windows

package ffi

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var hostDLL *windows.DLL

// openLibrary loads a dynamic library on Windows
func openLibrary(path string) (uintptr, error) {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return 0, fmt.Errorf("LoadDLL: %w", err)
	}
	hostDLL = dll
	return uintptr(dll.Handle), nil
}

// getSymbol retrieves a symbol from the loaded library on Windows
func getSymbol(_ uintptr, name string) (uintptr, error) {
	if hostDLL == nil {
		return 0, ErrNotLoaded
	}
	proc, err := hostDLL.FindProc(name)
	if err != nil {
		return 0, fmt.Errorf("FindProc(%s): %w", name, err)
	}
	return proc.Addr(), nil
}
