package mm

import "unsafe"

// hfUnit is the header/footer record described in spec.md §3: a fixed
// size record occupying exactly one alignment unit. link/nlink are the
// free-list pointers, meaningful only in a free block's header; tag
// packs size (in whole HF units, including header and footer) and the
// allocated bit into a single word, per spec.md §3 ("occupying all but
// one bit of one machine word").
type hfUnit struct {
	link  uintptr // prevFree address, header only
	nlink uintptr // nextFree address, header only
	tag   uint64  // size<<1 | allocated
}

// hfUnitSize is the allocator's internal alignment quantum.
const hfUnitSize = unsafe.Sizeof(hfUnit{})

// minBlockUnits is the minimum legal block size: header + two payload
// slots + footer.
const minBlockUnits = 4

// Addr is a byte offset into the arena. Every block boundary (header,
// footer, neighbor) is expressed as an Addr; as a block address,
// Addr(0) denotes the leading sentinel, not "no value" — internal code
// that needs an optional block address uses a separate bool. Payload
// addresses are never 0, so the public API uses Addr(0) as null.
type Addr uintptr

func (h *Heap) header(a Addr) *hfUnit {
	return (*hfUnit)(h.arena.Ptr(uintptr(a)))
}

func (u *hfUnit) size() uintptr {
	return uintptr(u.tag >> 1)
}

func (u *hfUnit) allocated() bool {
	return u.tag&1 != 0
}

func (u *hfUnit) setTag(sizeUnits uintptr, alloc bool) {
	tag := uint64(sizeUnits) << 1
	if alloc {
		tag |= 1
	}

	u.tag = tag
}

// bytesToUnits returns the ceiling of n / hfUnitSize, spec.md §4.1.
func bytesToUnits(n uintptr) uintptr {
	return (n + uintptr(hfUnitSize) - 1) / uintptr(hfUnitSize)
}

// unitsToBytes returns u * hfUnitSize, spec.md §4.1.
func unitsToBytes(u uintptr) uintptr {
	return u * uintptr(hfUnitSize)
}

// unitAdd returns the address n whole HF units above a.
func unitAdd(a Addr, n uintptr) Addr {
	return Addr(uintptr(a) + unitsToBytes(n))
}

// unitSub returns the address n whole HF units below a.
func unitSub(a Addr, n uintptr) Addr {
	return Addr(uintptr(a) - unitsToBytes(n))
}

// payloadOf returns the payload start address of block b, spec.md §4.1.
func payloadOf(b Addr) Addr {
	return unitAdd(b, 1)
}

// headerOfPayload recovers a block's header address from a payload
// address, spec.md §4.1.
func headerOfPayload(p Addr) Addr {
	return unitSub(p, 1)
}

// footerOf returns the footer address of block b, spec.md §4.1.
func (h *Heap) footerOf(b Addr) Addr {
	return unitAdd(b, h.header(b).size()-1)
}

// prevNeighbor returns the header address of b's immediate physical
// predecessor, by reading the predecessor's footer, spec.md §4.1. The
// predecessor's footer is always valid because the leading sentinel
// guarantees there is always a block (possibly the sentinel itself)
// immediately below b.
func (h *Heap) prevNeighbor(b Addr) Addr {
	prevFooter := unitSub(b, 1)

	return unitSub(b, h.header(prevFooter).size())
}

// nextNeighbor returns the header address of b's immediate physical
// successor, spec.md §4.1.
func (h *Heap) nextNeighbor(b Addr) Addr {
	return unitAdd(b, h.header(b).size())
}

// setBlockTag writes size and allocated into both the header and the
// footer of block b, keeping the two views in agreement (spec.md §3
// invariant 1) by construction.
func (h *Heap) setBlockTag(b Addr, sizeUnits uintptr, alloc bool) {
	h.header(b).setTag(sizeUnits, alloc)
	h.header(h.footerOf(b)).setTag(sizeUnits, alloc)
}
