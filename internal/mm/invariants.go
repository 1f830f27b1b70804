package mm

import "github.com/karanheart96/mallockit/internal/mmerr"

// checkInvariants walks the whole arena and the whole free list,
// verifying the properties spec.md §3 states as always true. It is run
// after every public call when Config.EnableDebug is set, and directly
// from tests regardless of that setting.
func (h *Heap) checkInvariants() error {
	if !h.bootstrapped {
		return nil
	}

	if err := h.checkBlockChain(); err != nil {
		return err
	}

	return h.checkFreeList()
}

// checkBlockChain walks every physical block from the leading sentinel
// to the trailing sentinel, confirming header/footer agreement and
// that no two adjacent blocks are both free (spec.md §3 invariants 1
// and 4).
func (h *Heap) checkBlockChain() error {
	cur := Addr(0)
	prevFree := false

	for {
		hc := h.header(cur)
		size := hc.size()

		if size < 1 {
			return mmerr.New(mmerr.CategoryValidation, "ZERO_SIZE_BLOCK",
				"block has zero or negative size", map[string]interface{}{"addr": uintptr(cur)})
		}

		f := h.footerOf(cur)
		hf := h.header(f)

		if hf.size() != size || hf.allocated() != hc.allocated() {
			return mmerr.New(mmerr.CategoryValidation, "HEADER_FOOTER_MISMATCH",
				"header and footer disagree", map[string]interface{}{"addr": uintptr(cur)})
		}

		if !hc.allocated() && prevFree {
			return mmerr.New(mmerr.CategoryValidation, "UNCOALESCED_NEIGHBORS",
				"two adjacent free blocks were not coalesced", map[string]interface{}{"addr": uintptr(cur)})
		}

		prevFree = !hc.allocated()

		if cur == h.trailing {
			break
		}

		cur = h.nextNeighbor(cur)
	}

	return nil
}

// checkFreeList walks the free list and confirms it visits each member
// exactly once and always returns to the anchor (spec.md §3 invariant
// 6, circularity).
func (h *Heap) checkFreeList() error {
	start := h.anchor
	cur := start
	visited := map[Addr]bool{}

	for {
		if visited[cur] {
			return mmerr.New(mmerr.CategoryValidation, "FREE_LIST_CYCLE",
				"free list revisited a node before returning to the anchor",
				map[string]interface{}{"addr": uintptr(cur)})
		}

		visited[cur] = true

		hc := h.header(cur)
		next := Addr(hc.nlink)

		if h.header(next).link != uintptr(cur) {
			return mmerr.New(mmerr.CategoryValidation, "FREE_LIST_BROKEN_LINK",
				"successor's link does not point back", map[string]interface{}{"addr": uintptr(cur)})
		}

		cur = next
		if cur == start {
			return nil
		}
	}
}
