//go:build !unix

package sbrk

// hostPageSize falls back to the common x86/ARM page size on platforms
// where golang.org/x/sys/unix isn't available (e.g. Windows).
func hostPageSize() uintptr {
	return 4096
}
