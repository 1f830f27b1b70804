package mm

// identify accepts an arbitrary caller address and returns the header
// address of the enclosing allocated block, or false if p does not
// identify a currently allocated block, per spec.md §4.7.
//
// Addr(0) is reserved for "null" at the public API boundary (it is
// always the leading sentinel's header, never a payload address), so
// it is rejected here exactly like any other out-of-range address.
func (h *Heap) identify(p Addr) (Addr, bool) {
	lo := Addr(h.arena.HeapLo())
	if h.arena.Brk() == 0 || p <= lo {
		return 0, false
	}

	hi := Addr(h.arena.HeapHi())
	if p >= hi {
		return 0, false
	}

	if uintptr(p)%uintptr(hfUnitSize) == 0 {
		return h.identifyFast(p)
	}

	return h.identifySlow(p)
}

// identifyFast treats p-1 as a candidate header and accepts it only if
// it is allocated, at least the minimum block size, and its header and
// footer agree — the stated intent of spec.md §9's ambiguous alignment
// check ("payload is aligned to the natural alignment").
func (h *Heap) identifyFast(p Addr) (Addr, bool) {
	c := headerOfPayload(p)
	hc := h.header(c)

	if !hc.allocated() || hc.size() < minBlockUnits {
		return 0, false
	}

	f := h.footerOf(c)
	hf := h.header(f)

	if hf.size() != hc.size() || hf.allocated() != hc.allocated() {
		return 0, false
	}

	return c, true
}

// identifySlow walks blocks from the leading sentinel until the next
// step would pass p, tolerating interior pointers into an allocated
// block (spec.md §4.7).
func (h *Heap) identifySlow(p Addr) (Addr, bool) {
	cur := h.anchorSentinel()

	for {
		next := h.nextNeighbor(cur)
		if next > p {
			break
		}

		cur = next
	}

	if h.header(cur).allocated() {
		return cur, true
	}

	return 0, false
}

// anchorSentinel returns the address of the leading sentinel, the
// fixed starting point for slow-path walks.
func (h *Heap) anchorSentinel() Addr {
	return 0
}
