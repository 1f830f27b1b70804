package mm

// The free list is a circular doubly linked list threaded through the
// link/nlink fields of free blocks' headers (spec.md §3, §4.4). The
// leading sentinel is always a member — in isolation right after
// bootstrap, alongside real free blocks once any exist — so the list
// is never empty and h.anchor is never an undefined value.

// insertFree splices b into the free list immediately after the
// anchor and moves the anchor to b, per spec.md §4.4's LIFO
// discipline.
func (h *Heap) insertFree(b Addr) {
	a := h.anchor
	ha := h.header(a)
	next := Addr(ha.nlink)

	hb := h.header(b)
	hb.link = uintptr(a)
	hb.nlink = uintptr(next)

	ha.nlink = uintptr(b)
	h.header(next).link = uintptr(b)

	h.anchor = b
}

// unlinkFree splices b out of the free list, reconnecting its
// predecessor and successor. If b was the anchor, the anchor moves to
// b's predecessor, which is guaranteed to remain a free-list member
// (spec.md §3 invariant 6).
func (h *Heap) unlinkFree(b Addr) {
	hb := h.header(b)
	prev := Addr(hb.link)
	next := Addr(hb.nlink)

	h.header(prev).nlink = uintptr(next)
	h.header(next).link = uintptr(prev)

	if h.anchor == b {
		h.anchor = prev
	}
}

// walkFree calls fn for every free-list member starting at and
// including the anchor, stopping early if fn returns false. It visits
// the sentinel too (callers filter it out via hfUnit.allocated()).
func (h *Heap) walkFree(fn func(b Addr) bool) {
	start := h.anchor
	cur := start

	for {
		if !fn(cur) {
			return
		}

		cur = Addr(h.header(cur).nlink)
		if cur == start {
			return
		}
	}
}
