// Package tiles builds and resolves the per-path tile tables.
//
// Three kernels live here. The builder stamps fresh tile and backdrop
// column records for every path. The propagator turns the binner's
// backdrop deltas into per-tile winding backdrops, applies clipping,
// writes the occlusion buffer, and links surviving tiles into each
// screen tile's draw list. The sorter orders those lists back into
// submission order, since the lock-free prepends scramble them.
package tiles

import (
	"sync/atomic"

	"github.com/gogpu/pave/gpudata"
)

// Builder initializes the tile and column arrays for one run. The
// prefix slices are inclusive prefix sums over the path table, mapping
// a flat dispatch index back to its path by binary search.
type Builder struct {
	Meta       []gpudata.PathMetadata
	TilePrefix []int32
	ColPrefix  []int32
	Tiles      []gpudata.Tile
	Columns    []gpudata.BackdropColumn
	AlphaTiles []int32
}

// BuildTiles is the kernel body resetting tiles [start, end).
func (b *Builder) BuildTiles(start, end int) {
	for i := start; i < end; i++ {
		path := gpudata.SearchPrefix(b.TilePrefix, int32(i))
		meta := &b.Meta[path]
		local := int32(i) - (b.TilePrefix[path] - meta.TileRect.Area())
		w := meta.TileRect.Width()
		x := meta.TileRect.MinX + local%w
		y := meta.TileRect.MinY + local/w
		b.Tiles[i].Reset(int16(x), int16(y), path, meta.Paint, meta.Ctrl)
	}
}

// BuildColumns is the kernel body resetting backdrop columns
// [start, end).
func (b *Builder) BuildColumns(start, end int) {
	for i := start; i < end; i++ {
		path := gpudata.SearchPrefix(b.ColPrefix, int32(i))
		meta := &b.Meta[path]
		local := int32(i) - (b.ColPrefix[path] - meta.TileRect.Width())
		col := &b.Columns[i]
		col.Seed.Store(0)
		col.X = local
		col.Path = path
	}
}

// ResetAlpha is the kernel body clearing the mask tile map.
func (b *Builder) ResetAlpha(start, end int) {
	for i := start; i < end; i++ {
		b.AlphaTiles[i] = gpudata.None
	}
}

// coverageOf collapses an integer winding backdrop to 0 (empty) or
// 1 (solid) under the tile's fill rule.
func coverageOf(backdrop int32, ctrl uint8) int32 {
	if gpudata.RuleOf(ctrl) == gpudata.FillRuleEvenOdd {
		return backdrop & 1
	}
	if backdrop != 0 {
		return 1
	}
	return 0
}

// Propagator walks backdrop columns. Columns selects the slice to
// process: clip path columns run in their own dispatch before any draw
// column, so the draw pass reads settled clip tiles.
type Propagator struct {
	Meta       []gpudata.PathMetadata
	Tiles      []gpudata.Tile
	Columns    []gpudata.BackdropColumn
	AlphaTiles []int32
	Jobs       []gpudata.ClipJob
	Counters   *gpudata.Counters

	// Draw enables the draw-path work: clipping, occlusion, draw
	// lists. The clip pass only spreads backdrops.
	Draw bool

	// ClipCount is the number of clip paths heading the path table.
	ClipCount int32

	// ScreenTiles is the framebuffer tile grid; Heads and Z hold one
	// entry per screen tile.
	ScreenTiles gpudata.RectI
	Heads       []atomic.Int32
	Z           []atomic.Int32
}

// Propagate is the kernel body over columns [start, end).
func (p *Propagator) Propagate(start, end int) {
	for i := start; i < end; i++ {
		p.column(&p.Columns[i])
	}
}

func (p *Propagator) column(col *gpudata.BackdropColumn) {
	meta := &p.Meta[col.Path]
	rect := meta.TileRect
	x := rect.MinX + col.X

	acc := col.Seed.Load()
	for y := rect.MinY; y < rect.MaxY; y++ {
		idx := meta.TileOffset + rect.IndexOf(x, y)
		tile := &p.Tiles[idx]
		tile.Backdrop = acc
		acc += tile.BackdropDelta.Load()

		if p.Draw {
			p.resolve(meta, idx, tile)
		}
	}
}

// alphaOf returns the tile's mask tile id, folding ids past the atlas
// capacity (allocation overflow) into None.
func (p *Propagator) alphaOf(tile *gpudata.Tile) int32 {
	id := tile.AlphaTile.Load()
	if id >= int32(len(p.AlphaTiles)) {
		return gpudata.None
	}
	return id
}

// resolve applies clipping to a draw tile, then links it into its
// screen tile's draw list and the occlusion buffer.
func (p *Propagator) resolve(meta *gpudata.PathMetadata, idx int32, tile *gpudata.Tile) {
	alpha := p.alphaOf(tile)

	if meta.Clip != gpudata.None {
		var culled bool
		alpha, culled = p.clip(meta, tile, alpha)
		if culled {
			return
		}
	}

	solid := alpha == gpudata.None && coverageOf(tile.Backdrop, tile.Ctrl) != 0
	if alpha == gpudata.None && !solid {
		return
	}

	tx, ty := int32(tile.X), int32(tile.Y)
	if !p.ScreenTiles.Contains(tx, ty) {
		return
	}
	st := p.ScreenTiles.IndexOf(tx, ty)

	if solid && meta.ZWrite {
		gpudata.AtomicMaxInt32(&p.Z[st], col2draw(tile.Path, p.ClipCount))
	}

	old := p.Heads[st].Swap(idx)
	tile.NextTile.Store(old)
}

// clip intersects the draw tile with its clip path's tile at the same
// coordinates. It returns the tile's effective mask id and whether the
// tile was culled outright.
func (p *Propagator) clip(meta *gpudata.PathMetadata, tile *gpudata.Tile, alpha int32) (int32, bool) {
	clipMeta := &p.Meta[meta.Clip]
	tx, ty := int32(tile.X), int32(tile.Y)
	if !clipMeta.TileRect.Contains(tx, ty) {
		return gpudata.None, true
	}

	clipTile := &p.Tiles[clipMeta.TileOffset+clipMeta.TileRect.IndexOf(tx, ty)]
	clipAlpha := p.alphaOf(clipTile)

	if clipAlpha == gpudata.None {
		if coverageOf(clipTile.Backdrop, clipTile.Ctrl) != 0 {
			// Clip tile is solid: the draw tile passes unchanged.
			return alpha, false
		}
		// Clip tile is empty: nothing of the draw tile survives.
		return gpudata.None, true
	}

	if alpha == gpudata.None {
		if coverageOf(tile.Backdrop, tile.Ctrl) == 0 {
			return gpudata.None, true
		}
		// Solid draw tile against a partial clip: the clip's mask is
		// the draw tile's coverage.
		tile.AlphaTile.Store(clipAlpha)
		tile.Backdrop = clipTile.Backdrop
		tile.Ctrl = clipTile.Ctrl
		return clipAlpha, false
	}

	// Both partial: queue a mask intersection. The combine kernel
	// folds both backdrops into the draw mask, so the tile's own
	// backdrop must not be applied a second time.
	jid := p.Counters.ClipJobs.Add(1) - 1
	if int(jid) < len(p.Jobs) {
		p.Jobs[jid] = gpudata.ClipJob{
			DrawAlphaTile: alpha,
			DrawBackdrop:  tile.Backdrop,
			DrawCtrl:      tile.Ctrl,
			ClipAlphaTile: clipAlpha,
			ClipBackdrop:  clipTile.Backdrop,
			ClipCtrl:      clipTile.Ctrl,
		}
	}
	tile.Backdrop = 0
	return alpha, false
}

// col2draw converts a global path index to a draw submission index.
func col2draw(path, clipCount int32) int32 {
	return path - clipCount
}

// Sorter restores submission order within each screen tile's draw
// list. Lists are short in practice; an insertion sort over the links
// keeps the whole pass allocation free.
type Sorter struct {
	Tiles []gpudata.Tile
	Heads []atomic.Int32
}

// Sort is the kernel body over screen tiles [start, end).
func (s *Sorter) Sort(start, end int) {
	for i := start; i < end; i++ {
		head := s.Heads[i].Load()
		if head == gpudata.None {
			continue
		}
		s.Heads[i].Store(s.sortList(head))
	}
}

// sortList insertion sorts a tile list by ascending path index. The
// iteration budget turns a corrupted (cyclic) list into a truncated
// one.
func (s *Sorter) sortList(head int32) int32 {
	sorted := gpudata.None
	iter := 0
	for head != gpudata.None && iter < gpudata.MaxListIterations {
		next := s.Tiles[head].NextTile.Load()
		key := s.Tiles[head].Path

		if sorted == gpudata.None || s.Tiles[sorted].Path >= key {
			s.Tiles[head].NextTile.Store(sorted)
			sorted = head
		} else {
			at := sorted
			for {
				iter++
				after := s.Tiles[at].NextTile.Load()
				if after == gpudata.None || s.Tiles[after].Path >= key {
					s.Tiles[head].NextTile.Store(after)
					s.Tiles[at].NextTile.Store(head)
					break
				}
				at = after
				if iter >= gpudata.MaxListIterations {
					break
				}
			}
		}
		head = next
		iter++
	}
	return sorted
}
