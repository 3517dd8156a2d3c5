// Package bin assigns microlines to the tiles they touch.
//
// For each microline the binner walks the tile grid with a DDA, emits a
// clipped tile-local fill per tile crossed, and records the winding
// bookkeeping the propagation stage needs: a signed backdrop delta for
// every vertical tile boundary crossing, and an auxiliary top-edge fill
// for every horizontal one. After binning, a tile's coverage is fully
// described by its backdrop plus its fill list.
package bin

import (
	"math"

	"github.com/gogpu/pave/gpudata"
)

// tileFixedBits shifts a 16.8 fixed-point coordinate down to a tile
// coordinate: 4 bits of tile width, 8 bits of subpixel.
const tileFixedBits = 12

// Binner carries the shared state of one bin dispatch. Tiles, Fills,
// Columns and AlphaTiles are written through atomics only.
type Binner struct {
	// Meta is the unified path table (clip paths, then draw paths).
	Meta []gpudata.PathMetadata
	// Microlines is the diced geometry.
	Microlines []gpudata.Microline
	// Tiles is the global tile array.
	Tiles []gpudata.Tile
	// Fills is the fill arena.
	Fills []gpudata.Fill
	// Columns is the backdrop column array.
	Columns []gpudata.BackdropColumn
	// AlphaTiles maps a mask tile id to its owning tile index. Entries
	// are claimed at allocation; the array must be reset to None before
	// the dispatch.
	AlphaTiles []int32
	// Counters supplies the fill and mask tile cursors.
	Counters *gpudata.Counters
}

// Bin is the kernel body: it bins microlines [start, end).
func (b *Binner) Bin(start, end int) {
	for i := start; i < end; i++ {
		b.bin(&b.Microlines[i])
	}
}

func tileCoord(v int32) int32 {
	return v >> tileFixedBits
}

// bin walks one microline through the tile grid.
func (b *Binner) bin(ml *gpudata.Microline) {
	meta := &b.Meta[ml.Path]

	fx, fy := ml.FromX, ml.FromY
	tx, ty := ml.ToX, ml.ToY

	cx, cy := tileCoord(fx), tileCoord(fy)
	ex, ey := tileCoord(tx), tileCoord(ty)

	sx := int32(1)
	if tx < fx {
		sx = -1
	}
	sy := int32(1)
	if ty < fy {
		sy = -1
	}

	dx := float64(tx - fx)
	dy := float64(ty - fy)

	// Current sub-segment start, advanced to each boundary crossing.
	px, py := fx, fy

	for step := 0; step < gpudata.MaxDDASteps; step++ {
		// Parametric positions of the next vertical and horizontal
		// boundary crossings; 2 means no crossing remains on that axis.
		tX, tY := 2.0, 2.0
		var bx, by int32
		if cx != ex {
			bx = boundary(cx, sx)
			tX = (float64(bx) - float64(fx)) / dx
		}
		if cy != ey {
			by = boundary(cy, sy)
			tY = (float64(by) - float64(fy)) / dy
		}

		if tX > 1 && tY > 1 {
			b.emitFill(meta, cx, cy, px, py, tx, ty)
			return
		}

		if tX <= tY {
			// Crossing the vertical boundary x = bx within row cy.
			crossY := fy + int32(math.Round(tX*dy))
			b.emitFill(meta, cx, cy, px, py, bx, crossY)
			// A rightward crossing lowers the winding of every tile
			// corner below it, a leftward one raises it.
			b.addBackdrop(meta, maxI32(cx, cx+sx), cy, -sx)
			px, py = bx, crossY
			cx += sx
		} else {
			// Crossing the horizontal boundary y = by within column cx.
			crossX := fx + int32(math.Round(tY*dx))
			b.emitFill(meta, cx, cy, px, py, crossX, by)
			// The tile below the boundary gets an auxiliary fill along
			// its top edge, carrying the winding step from the crossing
			// point to the tile's right edge.
			b.emitAux(meta, cx, maxI32(cy, cy+sy), crossX, sy)
			px, py = crossX, by
			cy += sy
		}
	}
}

// boundary returns the fixed-point coordinate of the tile boundary
// crossed when stepping from tile coordinate c in direction s.
func boundary(c, s int32) int32 {
	if s > 0 {
		return (c + 1) << tileFixedBits
	}
	return c << tileFixedBits
}

// emitFill clips the sub-segment (x0,y0)-(x1,y1) to tile (cx, cy) and
// appends it to the tile's fill list. Sub-segments with no horizontal
// extent contribute no coverage and are culled; their winding is
// carried by backdrop deltas instead.
func (b *Binner) emitFill(meta *gpudata.PathMetadata, cx, cy, x0, y0, x1, y1 int32) {
	rect := meta.TileRect
	if !rect.Contains(cx, cy) {
		return
	}
	ox := cx << tileFixedBits
	oy := cy << tileFixedBits
	lx0 := clampLocal(x0 - ox)
	ly0 := clampLocal(y0 - oy)
	lx1 := clampLocal(x1 - ox)
	ly1 := clampLocal(y1 - oy)
	if lx0 == lx1 {
		return
	}
	b.pushFill(meta.TileOffset+rect.IndexOf(cx, cy), lx0, ly0, lx1, ly1)
}

// emitAux appends the top-edge fill for a horizontal boundary crossing
// at fixed-point x crossX, into tile (cx, row). Downward crossings run
// from the tile's top-right corner to the crossing point; upward ones
// run the opposite way, flipping the winding sign.
func (b *Binner) emitAux(meta *gpudata.PathMetadata, cx, row, crossX, sy int32) {
	rect := meta.TileRect
	if !rect.Contains(cx, row) {
		return
	}
	lx := clampLocal(crossX - (cx << tileFixedBits))
	corner := uint16(gpudata.MaxLocalCoord)
	tileIdx := meta.TileOffset + rect.IndexOf(cx, row)
	if sy > 0 {
		b.pushFill(tileIdx, corner, 0, lx, 0)
	} else {
		b.pushFill(tileIdx, lx, 0, corner, 0)
	}
}

// addBackdrop records a winding crossing of the vertical boundary at
// tile column k within row r. Crossings above the path's tile rect seed
// the column; crossings below or outside it cannot affect any corner in
// the rect and are dropped.
func (b *Binner) addBackdrop(meta *gpudata.PathMetadata, k, r, delta int32) {
	rect := meta.TileRect
	if k < rect.MinX || k >= rect.MaxX || r >= rect.MaxY {
		return
	}
	if r < rect.MinY {
		b.Columns[meta.BackdropOffset+(k-rect.MinX)].Seed.Add(delta)
		return
	}
	b.Tiles[meta.TileOffset+rect.IndexOf(k, r)].BackdropDelta.Add(delta)
}

// pushFill allocates a fill, links it onto the tile's list, and makes
// sure the tile holds a mask tile id. The momentary inconsistency of
// Swap-then-link is fine: nothing walks fill lists until the stage
// barrier.
func (b *Binner) pushFill(tileIdx int32, x0, y0, x1, y1 uint16) {
	tile := &b.Tiles[tileIdx]
	b.ensureAlpha(tileIdx, tile)

	fid := b.Counters.Fills.Add(1) - 1
	if int(fid) >= len(b.Fills) {
		return
	}
	b.Fills[fid] = gpudata.Fill{FromX: x0, FromY: y0, ToX: x1, ToY: y1}
	b.Fills[fid].Next = tile.FirstFill.Swap(fid)
}

// ensureAlpha assigns the tile a mask tile id exactly once. An id
// reserved by a lost race leaks for the rest of the run; ids past the
// atlas capacity are stored anyway and guarded at every consumer, so
// the loser's or overflowing tile degrades instead of corrupting.
func (b *Binner) ensureAlpha(tileIdx int32, tile *gpudata.Tile) {
	if tile.AlphaTile.Load() != gpudata.None {
		return
	}
	id := b.Counters.AlphaTiles.Add(1) - 1
	if tile.AlphaTile.CompareAndSwap(gpudata.None, id) {
		if int(id) < len(b.AlphaTiles) {
			b.AlphaTiles[id] = tileIdx
		}
	}
}

func clampLocal(v int32) uint16 {
	if v < 0 {
		return 0
	}
	if v > gpudata.MaxLocalCoord {
		return gpudata.MaxLocalCoord
	}
	return uint16(v)
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
