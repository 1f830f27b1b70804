//go:build unix

package sbrk

import "golang.org/x/sys/unix"

// hostPageSize returns the operating system's page size, used by
// internal/mm to round arena growth up to whole pages.
func hostPageSize() uintptr {
	return uintptr(unix.Getpagesize())
}
