package mm

// AllocatorStats is a snapshot of a Heap's utilization counters, the
// supplemented diagnostics surface described in SPEC_FULL.md (no
// analog in spec.md, which is silent on observability).
type AllocatorStats struct {
	AllocationCount uint64
	FreeCount       uint64
	TotalAllocated  uintptr // cumulative bytes ever handed out, including header/footer overhead
	TotalFreed      uintptr
	BytesInUse      uintptr // currently allocated, header/footer overhead included
	PeakBytesInUse  uintptr
	ArenaBytes      uintptr // bytes committed via sbrk so far
	ArenaCapacity   uintptr
}

// Utilization returns BytesInUse / ArenaBytes, or 0 if nothing has been
// committed yet. This is the same ratio a CS:APP-style trace driver
// reports per line.
func (s AllocatorStats) Utilization() float64 {
	if s.ArenaBytes == 0 {
		return 0
	}

	return float64(s.BytesInUse) / float64(s.ArenaBytes)
}

// Stats returns a snapshot of the heap's current utilization counters.
func (h *Heap) Stats() AllocatorStats {
	return AllocatorStats{
		AllocationCount: h.stats.allocCount,
		FreeCount:       h.stats.freeCount,
		TotalAllocated:  h.stats.totalAllocated,
		TotalFreed:      h.stats.totalFreed,
		BytesInUse:      h.stats.bytesInUse,
		PeakBytesInUse:  h.stats.peakBytesInUse,
		ArenaBytes:      h.arena.Brk(),
		ArenaCapacity:   h.arena.Capacity(),
	}
}
