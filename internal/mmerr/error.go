// Package mmerr provides standardized error messaging for the heap
// allocator's error indicator (out-of-memory, bad-address, double-free).
package mmerr

import (
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of allocator errors.
type ErrorCategory string

const (
	CategoryMemory     ErrorCategory = "MEMORY"
	CategoryBounds     ErrorCategory = "BOUNDS"
	CategoryValidation ErrorCategory = "VALIDATION"
)

// MemoryError provides a consistent error format for the allocator.
type MemoryError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface.
func (e *MemoryError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// New creates a new MemoryError, capturing the calling function.
func New(category ErrorCategory, code, message string, context map[string]interface{}) *MemoryError {
	pc, _, _, ok := runtime.Caller(2)
	caller := "unknown"

	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &MemoryError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// OutOfMemory reports that arena growth was refused while satisfying a
// placement request of the given number of bytes.
func OutOfMemory(requestedBytes uintptr) *MemoryError {
	return New(CategoryMemory, "OUT_OF_MEMORY",
		fmt.Sprintf("unable to satisfy allocation of %d bytes: arena growth refused", requestedBytes),
		map[string]interface{}{"requested_bytes": requestedBytes})
}

// BadAddress reports that a pointer passed to Free or Realloc does not
// identify a currently allocated block.
func BadAddress(addr uintptr) *MemoryError {
	return New(CategoryBounds, "BAD_ADDRESS",
		fmt.Sprintf("pointer %#x does not identify a currently allocated block", addr),
		map[string]interface{}{"addr": addr})
}

// DoubleFree reports that a pointer was released more than once. It is
// a BadAddress under the hood (spec.md: identification rejects a
// header whose allocated bit is already zero), kept as a distinct
// constructor so callers can log a more specific message.
func DoubleFree(addr uintptr) *MemoryError {
	return New(CategoryBounds, "DOUBLE_FREE",
		fmt.Sprintf("pointer %#x was already released", addr),
		map[string]interface{}{"addr": addr})
}

// NullPointer reports a nil pointer where Identify requires a non-nil
// one.
func NullPointer(operation string) *MemoryError {
	return New(CategoryMemory, "NULL_POINTER",
		fmt.Sprintf("nil pointer passed to %s", operation),
		map[string]interface{}{"operation": operation})
}

// InvalidSize reports a size argument that cannot be serviced, such as
// an nmemb*size overflow in Calloc.
func InvalidSize(size uintptr, context string) *MemoryError {
	return New(CategoryValidation, "INVALID_SIZE",
		fmt.Sprintf("invalid size %d in %s", size, context),
		map[string]interface{}{"size": size, "context": context})
}
