// Package mm implements the boundary-tag free-list heap allocator: the
// core responsibility of this module. It consumes an internal/sbrk
// arena and exposes the lifecycle and allocation API described in
// spec.md §§4-8.
package mm

import (
	"github.com/karanheart96/mallockit/internal/mmerr"
	"github.com/karanheart96/mallockit/internal/sbrk"
)

// Heap is a single logical heap: one arena, one free list, one anchor.
// It holds no mutex — per spec.md §5 the allocator is strictly
// single-threaded, and a caller needing concurrent access wraps a
// *Heap in external mutual exclusion.
type Heap struct {
	arena        *sbrk.Arena
	config       *Config
	anchor       Addr
	trailing     Addr
	bootstrapped bool
	lastErr      error
	stats        heapStats
}

type heapStats struct {
	allocCount     uint64
	freeCount      uint64
	totalAllocated uintptr
	totalFreed     uintptr
	bytesInUse     uintptr
	peakBytesInUse uintptr
}

// New creates a Heap. The arena is not committed until Init (or the
// first Malloc) runs.
func New(opts ...Option) *Heap {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Heap{
		arena:  sbrk.New(cfg.ArenaCapacity),
		config: cfg,
	}
}

// Init establishes the arena and installs sentinels if and only if the
// heap hasn't been bootstrapped yet, per spec.md §5.
func (h *Heap) Init() error {
	if h.bootstrapped {
		return nil
	}

	if err := h.arena.Init(); err != nil {
		return err
	}

	return h.bootstrap()
}

// Reset rewinds the arena to its bootstrap size and reinstalls
// sentinels, per spec.md §5.
func (h *Heap) Reset() error {
	h.arena.ResetBrk()
	h.bootstrapped = false
	h.anchor, h.trailing = 0, 0
	h.stats = heapStats{}
	h.lastErr = nil

	return h.bootstrap()
}

// Deinit releases the arena and clears the anchor; subsequent
// operations re-bootstrap on first use, per spec.md §5.
func (h *Heap) Deinit() {
	h.arena.Deinit()
	h.bootstrapped = false
	h.anchor, h.trailing = 0, 0
	h.lastErr = nil
	h.stats = heapStats{}
}

// Err returns the last error set by Malloc, Free, Realloc, or Calloc —
// the "process-level error indicator" of spec.md §6.
func (h *Heap) Err() error {
	return h.lastErr
}

func (h *Heap) ensureInit() error {
	if h.bootstrapped {
		return nil
	}

	return h.Init()
}

// Malloc allocates n bytes and returns the payload address, per
// spec.md §4.8. An allocation request preceding explicit Init
// auto-initializes the arena (spec.md §7, "uninitialized-use ... not
// an error").
func (h *Heap) Malloc(n uintptr) (Addr, error) {
	h.lastErr = nil

	if err := h.ensureInit(); err != nil {
		h.lastErr = err

		return 0, err
	}

	r := requiredUnits(n)

	b, ok := h.findFit(r)
	if !ok {
		if err := h.grow(r); err != nil {
			h.lastErr = err

			return 0, err
		}

		b, ok = h.findFit(r)
		if !ok {
			err := mmerr.OutOfMemory(unitsToBytes(r))
			h.lastErr = err

			return 0, err
		}
	}

	allocated := h.place(b, r)
	h.recordAlloc(h.header(allocated).size())
	h.debugCheck()

	return payloadOf(allocated), nil
}

// Free releases p. A nil (Addr(0)) pointer is a no-op, per spec.md
// §4.8; any other pointer that doesn't identify a currently allocated
// block sets the bad-address indicator and is otherwise ignored.
func (h *Heap) Free(p Addr) error {
	h.lastErr = nil

	if p == 0 {
		return nil
	}

	b, ok := h.identify(p)
	if !ok {
		err := mmerr.BadAddress(uintptr(p))
		h.lastErr = err

		return err
	}

	h.freeBlock(b)
	h.debugCheck()

	return nil
}

// Realloc resizes the block at p to hold n bytes, per spec.md §4.8. A
// nil p behaves like Malloc(n). If the existing block already fits,
// the same payload address is returned unchanged (no shrink-in-place).
func (h *Heap) Realloc(p Addr, n uintptr) (Addr, error) {
	h.lastErr = nil

	if p == 0 {
		return h.Malloc(n)
	}

	b, ok := h.identify(p)
	if !ok {
		err := mmerr.BadAddress(uintptr(p))
		h.lastErr = err

		return 0, err
	}

	r := requiredUnits(n)
	oldUnits := h.header(b).size()

	if oldUnits >= r {
		return payloadOf(b), nil
	}

	newPayload, err := h.Malloc(n)
	if err != nil {
		h.lastErr = err

		return 0, err
	}

	oldPayloadBytes := unitsToBytes(oldUnits - 2)
	copyLen := oldPayloadBytes

	if n < copyLen {
		copyLen = n
	}

	if copyLen > 0 {
		src := h.arena.Bytes(uintptr(payloadOf(b)), copyLen)
		dst := h.arena.Bytes(uintptr(newPayload), copyLen)
		copy(dst, src)
	}

	h.freeBlock(b)
	h.debugCheck()

	return newPayload, nil
}

// Calloc allocates space for nmemb objects of size bytes each and
// zero-fills the payload. It fails with an invalid-size error rather
// than silently wrapping if nmemb*size overflows a uintptr — the same
// arithmetic discipline spec.md §4.8 applies to flooring r at 4.
func (h *Heap) Calloc(nmemb, size uintptr) (Addr, error) {
	h.lastErr = nil

	if nmemb != 0 && size > ^uintptr(0)/nmemb {
		err := mmerr.InvalidSize(nmemb, "calloc nmemb*size overflow")
		h.lastErr = err

		return 0, err
	}

	total := nmemb * size

	p, err := h.Malloc(total)
	if err != nil {
		return 0, err
	}

	if total > 0 {
		view := h.arena.Bytes(uintptr(p), total)
		for i := range view {
			view[i] = 0
		}
	}

	return p, nil
}

// freeBlock releases an already-identified header address, shared by
// Free and Realloc so neither re-runs identification on a pointer it
// has already validated.
func (h *Heap) freeBlock(b Addr) {
	sz := h.header(b).size()
	h.releaseCoalesce(b)
	h.recordFree(sz)
}

// requiredUnits computes r = bytes_to_units(n) + 2, floored at the
// minimum block size, per spec.md §4.8.
func requiredUnits(n uintptr) uintptr {
	r := bytesToUnits(n) + 2
	if r < minBlockUnits {
		r = minBlockUnits
	}

	return r
}

func (h *Heap) recordAlloc(units uintptr) {
	bytes := unitsToBytes(units)
	h.stats.allocCount++
	h.stats.totalAllocated += bytes
	h.stats.bytesInUse += bytes

	if h.stats.bytesInUse > h.stats.peakBytesInUse {
		h.stats.peakBytesInUse = h.stats.bytesInUse
	}
}

func (h *Heap) recordFree(units uintptr) {
	bytes := unitsToBytes(units)
	h.stats.freeCount++
	h.stats.totalFreed += bytes
	h.stats.bytesInUse -= bytes
}

func (h *Heap) debugCheck() {
	if !h.config.EnableDebug {
		return
	}

	if err := h.checkInvariants(); err != nil {
		panic(err)
	}
}
