//go:build !scrollkit_debug

package invariant

const debugBuild = false
