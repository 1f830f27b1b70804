package mm

// releaseCoalesce marks b free and merges it with any free physical
// neighbor, per spec.md §4.6. The order (lower merge first, upper
// merge second) ensures at most one new free-list entry is created
// and that the anchor ends up referencing the final coalesced block.
func (h *Heap) releaseCoalesce(b Addr) {
	sz := h.header(b).size()
	h.setBlockTag(b, sz, false)

	if !h.header(unitSub(b, 1)).allocated() {
		p := h.prevNeighbor(b)
		merged := h.header(p).size() + h.header(b).size()
		h.setBlockTag(p, merged, false)
		b = p // p is already a free-list member
	} else {
		h.insertFree(b)
	}

	next := h.nextNeighbor(b)
	if !h.header(next).allocated() {
		h.unlinkFree(next)
		merged := h.header(b).size() + h.header(next).size()
		h.setBlockTag(b, merged, false)
	}

	h.anchor = b
}
