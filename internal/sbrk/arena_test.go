package sbrk

import "testing"

func TestArenaLifecycle(t *testing.T) {
	a := New(1 << 20)

	t.Run("EmptyBeforeInit", func(t *testing.T) {
		if got := a.Brk(); got != 0 {
			t.Fatalf("Brk() = %d, want 0", got)
		}
	})

	t.Run("SbrkGrows", func(t *testing.T) {
		off, err := a.Sbrk(128)
		if err != nil {
			t.Fatalf("Sbrk: %v", err)
		}

		if off != 0 {
			t.Fatalf("first Sbrk offset = %d, want 0", off)
		}

		if got := a.Brk(); got != 128 {
			t.Fatalf("Brk() = %d, want 128", got)
		}

		off2, err := a.Sbrk(64)
		if err != nil {
			t.Fatalf("Sbrk: %v", err)
		}

		if off2 != 128 {
			t.Fatalf("second Sbrk offset = %d, want 128", off2)
		}
	})

	t.Run("HeapBounds", func(t *testing.T) {
		if got := a.HeapLo(); got != 0 {
			t.Fatalf("HeapLo() = %d, want 0", got)
		}

		if got, want := a.HeapHi(), a.Brk()-1; got != want {
			t.Fatalf("HeapHi() = %d, want %d", got, want)
		}
	})

	t.Run("OutOfMemory", func(t *testing.T) {
		small := New(16)

		if _, err := small.Sbrk(17); err == nil {
			t.Fatal("expected out-of-memory error")
		}

		if got := small.Brk(); got != 0 {
			t.Fatalf("Brk() after failed Sbrk = %d, want 0", got)
		}
	})

	t.Run("ResetBrk", func(t *testing.T) {
		a.ResetBrk()

		if got := a.Brk(); got != 0 {
			t.Fatalf("Brk() after ResetBrk = %d, want 0", got)
		}

		off, err := a.Sbrk(32)
		if err != nil {
			t.Fatalf("Sbrk after reset: %v", err)
		}

		if off != 0 {
			t.Fatalf("Sbrk offset after reset = %d, want 0", off)
		}
	})

	t.Run("BytesRoundTrip", func(t *testing.T) {
		a := New(1 << 10)

		off, err := a.Sbrk(64)
		if err != nil {
			t.Fatalf("Sbrk: %v", err)
		}

		view := a.Bytes(off, 64)
		for i := range view {
			view[i] = byte(i)
		}

		view2 := a.Bytes(off, 64)
		for i := range view2 {
			if view2[i] != byte(i) {
				t.Fatalf("byte %d = %d, want %d", i, view2[i], byte(i))
			}
		}
	})

	t.Run("Deinit", func(t *testing.T) {
		a := New(1 << 10)
		if _, err := a.Sbrk(16); err != nil {
			t.Fatalf("Sbrk: %v", err)
		}

		a.Deinit()

		if got := a.Brk(); got != 0 {
			t.Fatalf("Brk() after Deinit = %d, want 0", got)
		}

		if _, err := a.Sbrk(16); err != nil {
			t.Fatalf("Sbrk after Deinit: %v", err)
		}
	})
}

func TestPageSize(t *testing.T) {
	a := New(0)
	if a.PageSize() == 0 {
		t.Fatal("PageSize() = 0")
	}
}
