package mm

import "github.com/karanheart96/mallockit/internal/mmerr"

// grow extends the arena so the free list can satisfy a request of at
// least minUnits HF units, per spec.md §4.3. The new free block reuses
// the old trailing sentinel's address as its header, spans exactly the
// rounded-up unit count, and is passed to the release/coalesce path so
// it merges with any preceding free neighbor and joins the free list.
func (h *Heap) grow(minUnits uintptr) error {
	growUnits := h.roundToPage(minUnits)

	if _, err := h.arena.Sbrk(unitsToBytes(growUnits)); err != nil {
		return mmerr.OutOfMemory(unitsToBytes(growUnits))
	}

	oldTrailing := h.trailing
	h.setBlockTag(oldTrailing, growUnits, false)

	newTrailing := unitAdd(oldTrailing, growUnits)
	h.setBlockTag(newTrailing, 1, true)
	h.trailing = newTrailing

	h.releaseCoalesce(oldTrailing)

	return nil
}

// roundToPage rounds minUnits up to at least one page's worth of HF
// units, per spec.md §4.3 step 1.
func (h *Heap) roundToPage(minUnits uintptr) uintptr {
	pageUnits := bytesToUnits(h.arena.PageSize())
	if pageUnits == 0 {
		pageUnits = 1
	}

	units := minUnits
	if units < pageUnits {
		units = pageUnits
	}

	if rem := units % pageUnits; rem != 0 {
		units += pageUnits - rem
	}

	return units
}
