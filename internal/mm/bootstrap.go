package mm

import "github.com/karanheart96/mallockit/internal/mmerr"

// bootstrap performs the first-use setup of spec.md §4.2: it commits
// (4+1) HF units from the arena provider, installs the leading
// sentinel (size 4, allocated, self-linked) as the permanent free-list
// anchor, and installs a trailing one-unit sentinel immediately after.
func (h *Heap) bootstrap() error {
	const leadingUnits = 4
	const trailingUnits = 1

	_, err := h.arena.Sbrk(unitsToBytes(leadingUnits + trailingUnits))
	if err != nil {
		return mmerr.OutOfMemory(unitsToBytes(leadingUnits + trailingUnits))
	}

	leading := Addr(0)
	h.setBlockTag(leading, leadingUnits, true)
	hl := h.header(leading)
	hl.link, hl.nlink = uintptr(leading), uintptr(leading) // self-linked, isolated

	trailing := unitAdd(leading, leadingUnits)
	h.setBlockTag(trailing, trailingUnits, true)

	h.anchor = leading
	h.trailing = trailing
	h.bootstrapped = true

	return nil
}
