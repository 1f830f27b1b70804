package mm

// findFit searches the free list for a block of at least r HF units,
// per the strategy configured on h, spec.md §4.5. It returns false if
// no free block satisfies the request; the caller is responsible for
// growing the arena and retrying.
func (h *Heap) findFit(r uintptr) (Addr, bool) {
	switch h.config.Strategy {
	case BestFit:
		return h.findBestFit(r)
	default:
		return h.findFirstFit(r)
	}
}

// findFirstFit returns the earliest free block (walking from the
// anchor) whose size is >= r. The sentinel is always skipped: it is
// marked allocated, so it never satisfies a fit test.
func (h *Heap) findFirstFit(r uintptr) (Addr, bool) {
	var (
		found Addr
		ok    bool
	)

	h.walkFree(func(b Addr) bool {
		hb := h.header(b)
		if hb.allocated() {
			return true // sentinel, keep walking
		}

		if hb.size() >= r {
			found, ok = b, true

			return false
		}

		return true
	})

	return found, ok
}

// findBestFit returns the smallest free block whose size is >= r,
// ties broken by first encountered. The candidate starts unset (not
// the anchor/sentinel, per spec.md §9's correction of the original's
// bug) so the first fitting block is always accepted as a baseline.
func (h *Heap) findBestFit(r uintptr) (Addr, bool) {
	var (
		best      Addr
		bestSize  uintptr
		haveCandi bool
	)

	h.walkFree(func(b Addr) bool {
		hb := h.header(b)
		if hb.allocated() {
			return true // sentinel
		}

		sz := hb.size()
		if sz < r {
			return true
		}

		if !haveCandi || sz < bestSize {
			best, bestSize, haveCandi = b, sz, true
		}

		return true
	})

	return best, haveCandi
}

// place consumes block b to satisfy a request of r HF units, per the
// split policy of spec.md §4.5: split from the upper (high-address)
// end if the remainder would itself be a legal minimum-size block,
// otherwise consume the whole block. Returns the header address of the
// now-allocated piece.
func (h *Heap) place(b Addr, r uintptr) Addr {
	bsize := h.header(b).size()

	if bsize >= r+h.config.MinRemainder {
		remainderSize := bsize - r
		h.setBlockTag(b, remainderSize, false) // remainder keeps b's free-list slot

		allocated := unitAdd(b, remainderSize)
		h.setBlockTag(allocated, r, true)

		return allocated
	}

	h.unlinkFree(b)
	h.setBlockTag(b, bsize, true)

	return b
}
