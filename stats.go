package pave

// FrameStats reports what one Render call produced. The Dropped fields
// count geometry discarded because an arena filled up; a nonzero value
// means the frame is missing detail and the matching capacity in
// [Capacities] should be raised.
type FrameStats struct {
	// Paths is the number of fill and clip paths in the scene.
	Paths int

	// Microlines is the number of flattened segments retained.
	Microlines        int
	MicrolinesDropped int

	// Fills is the number of per-tile edge records retained.
	Fills        int
	FillsDropped int

	// MaskTiles is the number of coverage mask tiles rendered.
	MaskTiles        int
	MaskTilesDropped int

	// ClipJobs is the number of mask intersections performed.
	ClipJobs        int
	ClipJobsDropped int
}

// Truncated reports whether any arena overflowed during the frame.
func (s FrameStats) Truncated() bool {
	return s.MicrolinesDropped > 0 || s.FillsDropped > 0 ||
		s.MaskTilesDropped > 0 || s.ClipJobsDropped > 0
}

// clampDemand splits a raw allocation counter into the used count and
// the overflow past the arena capacity.
func clampDemand(raw int32, capacity int) (used, dropped int) {
	n := int(raw)
	if n <= capacity {
		return n, 0
	}
	return capacity, n - capacity
}
