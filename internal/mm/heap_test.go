package mm

import "testing"

func newTestHeap(t *testing.T, opts ...Option) *Heap {
	t.Helper()

	opts = append(opts, WithArenaCapacity(1<<20))
	h := New(opts...)

	if err := h.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	return h
}

func TestHeapLifecycle(t *testing.T) {
	t.Run("InitIsIdempotent", func(t *testing.T) {
		h := newTestHeap(t)
		anchor := h.anchor

		if err := h.Init(); err != nil {
			t.Fatalf("second Init: %v", err)
		}

		if h.anchor != anchor {
			t.Errorf("anchor changed across redundant Init: %d -> %d", anchor, h.anchor)
		}
	})

	t.Run("MallocAutoInitializes", func(t *testing.T) {
		h := New(WithArenaCapacity(1 << 20))

		p, err := h.Malloc(16)
		if err != nil {
			t.Fatalf("Malloc: %v", err)
		}

		if p == 0 {
			t.Fatalf("Malloc returned null payload before explicit Init")
		}
	})

	t.Run("ResetReinstallsSentinels", func(t *testing.T) {
		h := newTestHeap(t)

		if _, err := h.Malloc(64); err != nil {
			t.Fatalf("Malloc: %v", err)
		}

		if err := h.Reset(); err != nil {
			t.Fatalf("Reset: %v", err)
		}

		if !h.bootstrapped {
			t.Errorf("Reset left the heap un-bootstrapped")
		}

		if got := h.Stats().BytesInUse; got != 0 {
			t.Errorf("BytesInUse after Reset = %d, want 0", got)
		}
	})

	t.Run("DeinitClearsArena", func(t *testing.T) {
		h := newTestHeap(t)

		h.Deinit()

		if h.bootstrapped {
			t.Errorf("Deinit left bootstrapped true")
		}

		if _, err := h.Malloc(8); err != nil {
			t.Fatalf("Malloc after Deinit should auto-reinitialize: %v", err)
		}
	})
}

func TestMallocBasic(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Malloc(64)
	if err != nil {
		t.Fatalf("Malloc: %v", err)
	}

	if p == 0 {
		t.Fatalf("Malloc returned a null payload address")
	}

	view := h.arena.Bytes(uintptr(p), 64)
	for i := range view {
		view[i] = byte(i)
	}

	for i := range view {
		if view[i] != byte(i) {
			t.Fatalf("payload corrupted at offset %d", i)
		}
	}

	if err := h.checkInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestMallocZeroBytesReturnsUsablePointer(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Malloc(0)
	if err != nil {
		t.Fatalf("Malloc(0): %v", err)
	}

	if p == 0 {
		t.Fatalf("Malloc(0) returned a null payload address")
	}

	if err := h.Free(p); err != nil {
		t.Fatalf("Free of zero-size block: %v", err)
	}
}

func TestFreeRejectsBadAddress(t *testing.T) {
	h := newTestHeap(t)

	if err := h.Free(Addr(12345)); err == nil {
		t.Fatalf("Free of a bad address returned nil error")
	}

	if h.Err() == nil {
		t.Errorf("Err() is nil after a rejected Free")
	}
}

func TestFreeRejectsDoubleFree(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Malloc(64)
	if err != nil {
		t.Fatalf("Malloc: %v", err)
	}

	if err := h.Free(p); err != nil {
		t.Fatalf("first Free: %v", err)
	}

	if err := h.Free(p); err == nil {
		t.Fatalf("second Free of the same pointer returned nil error")
	}
}

func TestFreeOfNullIsNoOp(t *testing.T) {
	h := newTestHeap(t)

	if err := h.Free(0); err != nil {
		t.Fatalf("Free(0): %v", err)
	}
}

func TestReallocGrowsAndPreservesContent(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Malloc(16)
	if err != nil {
		t.Fatalf("Malloc: %v", err)
	}

	view := h.arena.Bytes(uintptr(p), 16)
	for i := range view {
		view[i] = byte(0xAA)
	}

	p2, err := h.Realloc(p, 256)
	if err != nil {
		t.Fatalf("Realloc: %v", err)
	}

	grown := h.arena.Bytes(uintptr(p2), 16)
	for i := range grown {
		if grown[i] != 0xAA {
			t.Fatalf("Realloc lost original content at offset %d", i)
		}
	}

	if err := h.checkInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestReallocShrinkKeepsSameBlock(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Malloc(256)
	if err != nil {
		t.Fatalf("Malloc: %v", err)
	}

	p2, err := h.Realloc(p, 8)
	if err != nil {
		t.Fatalf("Realloc: %v", err)
	}

	if p2 != p {
		t.Errorf("Realloc to a smaller size moved the block: %d -> %d", p, p2)
	}
}

func TestReallocNullBehavesLikeMalloc(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Realloc(0, 32)
	if err != nil {
		t.Fatalf("Realloc(0, 32): %v", err)
	}

	if p == 0 {
		t.Fatalf("Realloc(0, 32) returned a null payload address")
	}
}

func TestCallocZeroesPayload(t *testing.T) {
	h := newTestHeap(t)

	p, err := h.Calloc(16, 4)
	if err != nil {
		t.Fatalf("Calloc: %v", err)
	}

	view := h.arena.Bytes(uintptr(p), 64)
	for i, b := range view {
		if b != 0 {
			t.Fatalf("Calloc left non-zero byte at offset %d", i)
		}
	}
}

func TestCallocOverflowIsRejected(t *testing.T) {
	h := newTestHeap(t)

	_, err := h.Calloc(^uintptr(0), 2)
	if err == nil {
		t.Fatalf("Calloc with overflowing nmemb*size returned nil error")
	}
}

func TestHeapGrowsWhenArenaExhausted(t *testing.T) {
	h := New(WithArenaCapacity(1 << 16))
	if err := h.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for i := 0; i < 200; i++ {
		if _, err := h.Malloc(64); err != nil {
			t.Fatalf("Malloc %d: %v", i, err)
		}
	}

	if got := h.Stats().ArenaBytes; got <= 1<<12 {
		t.Errorf("ArenaBytes = %d, expected growth beyond the bootstrap footprint", got)
	}
}

func TestHeapReportsOutOfMemory(t *testing.T) {
	h := New(WithArenaCapacity(4096))
	if err := h.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var lastErr error
	for i := 0; i < 10000; i++ {
		if _, err := h.Malloc(4096); err != nil {
			lastErr = err

			break
		}
	}

	if lastErr == nil {
		t.Fatalf("expected an out-of-memory error against a capped arena")
	}
}
