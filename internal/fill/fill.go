// Package fill rasterizes tile fill lists into coverage masks.
//
// Each mask tile holds one int32 texel per pixel, measuring winding in
// units of 1/CoverageOne. Every fill's per-pixel contribution is
// quantized to an integer before accumulation, so the sum is identical
// no matter how the lock-free fill lists were ordered. Backdrops are
// not folded in here; they are applied when the mask is consumed.
package fill

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/pave/gpudata"
)

// Filler carries the shared state of the fill and combine dispatches.
type Filler struct {
	Tiles []gpudata.Tile
	Fills []gpudata.Fill
	// AlphaTiles maps a mask tile id to its owning tile, None for ids
	// leaked by allocation races.
	AlphaTiles []int32
	// Masks is the mask atlas: TileTexels texels per mask tile.
	Masks []int32
	Jobs  []gpudata.ClipJob
}

// Fill is the kernel body rendering mask tiles [start, end).
func (f *Filler) Fill(start, end int) {
	for a := start; a < end; a++ {
		mask := f.Masks[a*gpudata.TileTexels : (a+1)*gpudata.TileTexels]
		for i := range mask {
			mask[i] = 0
		}
		tileIdx := f.AlphaTiles[a]
		if tileIdx == gpudata.None {
			continue
		}
		f.render(mask, &f.Tiles[tileIdx])
	}
}

// render accumulates the coverage of every fill in the tile's list.
// The walk is bounded by the arena size: a list can never hold more
// nodes than the arena without a cycle.
func (f *Filler) render(mask []int32, tile *gpudata.Tile) {
	id := tile.FirstFill.Load()
	for n := 0; id != gpudata.None && n < len(f.Fills); n++ {
		f.accumulate(mask, &f.Fills[id])
		id = f.Fills[id].Next
	}
}

// accumulate adds one fill's analytic coverage to the mask.
//
// For each pixel column, the segment is clipped to the column's unit
// window. The clipped span's horizontal extent gives the signed winding
// magnitude; its mean height and vertical extent index the area table,
// which resolves how much of each pixel below the span is covered.
func (f *Filler) accumulate(mask []int32, fl *gpudata.Fill) {
	x0 := float32(fl.FromX) / gpudata.SubpixelScale
	y0 := float32(fl.FromY) / gpudata.SubpixelScale
	x1 := float32(fl.ToX) / gpudata.SubpixelScale
	y1 := float32(fl.ToY) / gpudata.SubpixelScale

	dxSeg := x1 - x0
	dySeg := y1 - y0
	if dxSeg == 0 {
		return
	}

	lo, hi := x0, x1
	if lo > hi {
		lo, hi = hi, lo
	}
	c0 := int(lo) - 1
	c1 := int(hi) + 1
	if c0 < 0 {
		c0 = 0
	}
	if c1 > gpudata.TileWidth-1 {
		c1 = gpudata.TileWidth - 1
	}

	for px := c0; px <= c1; px++ {
		cx := float32(px) + 0.5
		w0 := clampWindow(x0 - cx)
		w1 := clampWindow(x1 - cx)
		dX := w0 - w1
		if dX == 0 {
			continue
		}

		// Heights where the segment enters and leaves the window.
		t0 := (cx + w0 - x0) / dxSeg
		t1 := (cx + w1 - x0) / dxSeg
		ya := y0 + t0*dySeg
		yb := y0 + t1*dySeg
		ymid := (ya + yb) / 2
		dy := math32.Abs(yb - ya)

		for py := 0; py < gpudata.TileHeight; py++ {
			yrel := ymid - (float32(py) + 0.5)
			area := sampleArea(yrel, dy)
			if area == 0 {
				continue
			}
			c := int32(math32.Round(area * dX * gpudata.CoverageOne))
			if c != 0 {
				mask[py*gpudata.TileWidth+px] += c
			}
		}
	}
}

func clampWindow(v float32) float32 {
	if v < -0.5 {
		return -0.5
	}
	if v > 0.5 {
		return 0.5
	}
	return v
}

// Coverage resolves a fractional winding number to coverage in [0, 1]
// under the fill rule packed in ctrl.
func Coverage(w float32, ctrl uint8) float32 {
	if gpudata.RuleOf(ctrl) == gpudata.FillRuleEvenOdd {
		m := math32.Mod(w, 2)
		if m < 0 {
			m += 2
		}
		return 1 - math32.Abs(m-1)
	}
	a := math32.Abs(w)
	if a > 1 {
		return 1
	}
	return a
}

// Combine is the kernel body intersecting draw masks with clip masks
// for jobs [start, end). The result replaces the draw mask with final
// coverage, both backdrops folded in.
func (f *Filler) Combine(start, end int) {
	for i := start; i < end; i++ {
		job := &f.Jobs[i]
		dst := f.Masks[job.DrawAlphaTile*gpudata.TileTexels : (job.DrawAlphaTile+1)*gpudata.TileTexels]
		src := f.Masks[job.ClipAlphaTile*gpudata.TileTexels : (job.ClipAlphaTile+1)*gpudata.TileTexels]
		db := float32(job.DrawBackdrop)
		cb := float32(job.ClipBackdrop)
		for t := 0; t < gpudata.TileTexels; t++ {
			d := Coverage(float32(dst[t])/gpudata.CoverageOne+db, job.DrawCtrl)
			s := Coverage(float32(src[t])/gpudata.CoverageOne+cb, job.ClipCtrl)
			dst[t] = int32(math32.Round(d * s * gpudata.CoverageOne))
		}
	}
}
