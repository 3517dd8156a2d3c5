package gpudata

import "sync/atomic"

// Tile and subpixel geometry constants. Tiles are square; a handful of
// kernels (the DDA, the coverage LUT) assume TileWidth == TileHeight.
const (
	// TileWidth and TileHeight are the device-pixel dimensions of one tile.
	TileWidth  = 16
	TileHeight = 16

	// TileTexels is the number of coverage texels in one mask tile.
	TileTexels = TileWidth * TileHeight

	// SubpixelScale is the fixed-point scale of fill and microline
	// coordinates: 8 fractional bits, matching u8 subpixel packing on GPU.
	SubpixelScale = 256

	// MaxLocalCoord is the largest representable tile-local fixed-point
	// coordinate, just shy of the tile's far edge.
	MaxLocalCoord = TileWidth*SubpixelScale - 1

	// CoverageOne is the integer mask texel value for full coverage.
	// Coverage accumulates as integers in units of 1/CoverageOne, so
	// summation order does not affect the result.
	CoverageOne = 32768
)

// Iteration budgets. Every loop that walks a shared linked structure or
// subdivides geometry carries one of these caps so that corrupted input
// degrades into truncation instead of a hang.
const (
	// MaxListIterations bounds every index-linked list walk.
	MaxListIterations = 1024

	// MaxDDASteps bounds the tile traversal of one microline.
	MaxDDASteps = 1024

	// FlattenStackDepth is the size of the explicit subdivision stack,
	// bounding curve recursion depth.
	FlattenStackDepth = 32

	// MaxFlattenIterations bounds the total subdivision loop per segment.
	MaxFlattenIterations = 1024
)

// None is the shared "no index" sentinel for every index-linked field.
const None int32 = -1

// Segment flag bits, stored in the high bits of Segment.Flags the same
// way the GPU packs them next to the point index.
const (
	// SegmentQuadratic marks a quadratic Bezier (1 control point).
	SegmentQuadratic uint32 = 0x80000000
	// SegmentCubic marks a cubic Bezier (2 control points).
	SegmentCubic uint32 = 0x40000000
	// SegmentKindMask extracts the curve kind bits.
	SegmentKindMask uint32 = SegmentQuadratic | SegmentCubic
)

// Segment is one curve segment descriptor. Point coordinates live in the
// shared point buffer; FirstPoint indexes the segment's start point, with
// control and end points following contiguously (2 points for a line,
// 3 for a quadratic, 4 for a cubic).
type Segment struct {
	// FirstPoint is the index of the segment's start point.
	FirstPoint uint32
	// Flags carries the curve kind bits (SegmentQuadratic, SegmentCubic).
	Flags uint32
	// Path is the owning path's index within its path list.
	Path int32
}

// Microline is a flattened straight sub-segment in 16.8 signed fixed
// point, tagged with the owning path. Microlines are ephemeral: they live
// in an arena for exactly one pipeline run.
type Microline struct {
	FromX, FromY int32
	ToX, ToY     int32
	// Path is the owning path's global index (clip paths first, then
	// draw paths).
	Path int32
}

// Fill is one tile-local clipped line sub-segment contributing coverage
// to a single tile. Coordinates are unsigned 8.8 fixed point relative to
// the tile origin, clamped to [0, MaxLocalCoord]. Next chains the fills
// of one tile into a singly linked list; the head lives on the tile.
type Fill struct {
	FromX, FromY uint16
	ToX, ToY     uint16
	// Next is the index of the next fill in this tile's list, or None.
	Next int32
}

// FillRule selects how accumulated winding converts to coverage.
type FillRule uint8

const (
	// FillRuleWinding is the non-zero winding rule.
	FillRuleWinding FillRule = iota
	// FillRuleEvenOdd is the even-odd rule.
	FillRuleEvenOdd
)

// Tile control word bits. The low bits select the fill rule, mirroring
// the TILE_CTRL encoding of the GPU tile word.
const (
	TileCtrlMaskWinding uint8 = 0x0
	TileCtrlMaskEvenOdd uint8 = 0x1
	TileCtrlMaskBits    uint8 = 0x1
)

// Ctrl packs a fill rule into a tile control byte.
func (r FillRule) Ctrl() uint8 {
	if r == FillRuleEvenOdd {
		return TileCtrlMaskEvenOdd
	}
	return TileCtrlMaskWinding
}

// RuleOf extracts the fill rule from a tile control byte.
func RuleOf(ctrl uint8) FillRule {
	if ctrl&TileCtrlMaskBits == TileCtrlMaskEvenOdd {
		return FillRuleEvenOdd
	}
	return FillRuleWinding
}

// Tile is one 16x16 device-pixel cell of a path's tile rectangle.
//
// The atomic fields are the shared slots concurrent kernels contend on:
// FirstFill and NextTile are lock-free list heads/links, AlphaTile is the
// once-only mask grant, BackdropDelta accumulates winding crossings. The
// plain fields are either immutable after table build (coordinates, path,
// paint, ctrl) or single-writer (Backdrop, owned by the propagator task
// of the tile's column).
type Tile struct {
	// NextTile links this tile into its screen tile's draw list.
	NextTile atomic.Int32
	// FirstFill heads this tile's fill list.
	FirstFill atomic.Int32
	// AlphaTile is the assigned mask tile id, or None.
	AlphaTile atomic.Int32
	// BackdropDelta is the net signed winding crossing count recorded on
	// this tile by the binner; consumed by the propagator.
	BackdropDelta atomic.Int32

	// Backdrop is the winding number at the tile's top-left corner,
	// written by the propagator.
	Backdrop int32

	// X, Y are the tile's coordinates in the device tile grid.
	X, Y int16
	// Path is the owning path's global index.
	Path int32
	// Paint is the owning path's paint table entry.
	Paint uint16
	// Ctrl packs the fill rule bits.
	Ctrl uint8
}

// Reset reinitializes a tile slot for a new run.
func (t *Tile) Reset(x, y int16, path int32, paint uint16, ctrl uint8) {
	t.NextTile.Store(None)
	t.FirstFill.Store(None)
	t.AlphaTile.Store(None)
	t.BackdropDelta.Store(0)
	t.Backdrop = 0
	t.X, t.Y = x, y
	t.Path = path
	t.Paint = paint
	t.Ctrl = ctrl
}

// BackdropColumn is the running winding seed for one (path, tile column)
// pair. The binner accumulates crossings above the path's tile rect into
// Seed; the propagator consumes one entry per task.
type BackdropColumn struct {
	// Seed accumulates the winding entering the column's topmost tile.
	Seed atomic.Int32
	// X is the column offset within the path's tile rect.
	X int32
	// Path is the owning path's global index.
	Path int32
}

// PathMetadata is the per-path record consumed by every kernel after
// dicing: where the path's tiles and backdrop columns live, and how its
// tiles draw.
type PathMetadata struct {
	// TileRect is the path's bounds in device tile coordinates.
	TileRect RectI
	// TileOffset is the index of the path's first tile in the tile array.
	TileOffset int32
	// BackdropOffset is the index of the path's first backdrop column.
	BackdropOffset int32
	// FirstSegment and SegmentCount locate the path's curve segments.
	FirstSegment, SegmentCount int32
	// Clip is the global index of the clip path, or None.
	Clip int32
	// ZWrite enables occlusion-buffer writes for solid tiles.
	ZWrite bool
	// Paint is the paint table entry for the path's tiles.
	Paint uint16
	// Ctrl packs the fill rule bits stamped onto the path's tiles.
	Ctrl uint8
	// Blend is the composite operator applied by the compositor.
	Blend BlendMode
}

// ClipJob asks the mask-combine kernel to intersect a draw tile's mask
// with a clip tile's mask. Backdrops are captured at emission time
// because the propagator zeroes the draw tile's own backdrop.
type ClipJob struct {
	DrawAlphaTile int32
	DrawBackdrop  int32
	DrawCtrl      uint8
	ClipAlphaTile int32
	ClipBackdrop  int32
	ClipCtrl      uint8
}

// Counters are the global allocation cursors shared by all kernels in a
// run. They count every attempted allocation; values beyond the declared
// capacity mean the excess work was silently dropped, which the
// orchestrator can detect by comparing against the capacities.
type Counters struct {
	Microlines atomic.Int32
	Fills      atomic.Int32
	AlphaTiles atomic.Int32
	ClipJobs   atomic.Int32
}

// Reset zeroes all counters for a new run.
func (c *Counters) Reset() {
	c.Microlines.Store(0)
	c.Fills.Store(0)
	c.AlphaTiles.Store(0)
	c.ClipJobs.Store(0)
}

// AtomicMaxInt32 raises *v to at least x via a compare-and-swap loop.
// Commutative and idempotent, so concurrent callers need no ordering.
func AtomicMaxInt32(v *atomic.Int32, x int32) {
	for {
		old := v.Load()
		if old >= x || v.CompareAndSwap(old, x) {
			return
		}
	}
}
