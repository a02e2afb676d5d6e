//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package main

// Diagnostics are never colored automatically on other platforms.
func isTerminal(uintptr) bool {
	return false
}
