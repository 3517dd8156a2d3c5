package fill

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/gogpu/pave/gpudata"
)

func TestAreaExact(t *testing.T) {
	tests := []struct {
		y, dy float32
		want  float32
	}{
		{-8, 0, 1},    // segment far above: full coverage
		{8, 0, 0},     // segment far below: none
		{0, 0, 0.5},   // through the center: half
		{-0.5, 0, 1},  // along the pixel top
		{0.5, 0, 0},   // along the pixel bottom
		{0, 1, 0.5},   // unit slope through the center
		{-4, 2, 1},    // entirely above even with extent
		{0.25, 0, 0.25},
	}
	for _, tt := range tests {
		if got := areaExact(tt.y, tt.dy); math32.Abs(got-tt.want) > 1e-5 {
			t.Errorf("areaExact(%v, %v) = %v, want %v", tt.y, tt.dy, got, tt.want)
		}
	}
}

func TestSampleAreaMatchesExact(t *testing.T) {
	// Bilinear sampling must track the closed form closely across the
	// domain.
	for iy := 0; iy <= 64; iy++ {
		y := float32(iy)/64*16 - 8
		for id := 0; id <= 64; id++ {
			dy := float32(id) / 64 * 16
			got := sampleArea(y, dy)
			want := areaExact(y, dy)
			if math32.Abs(got-want) > 0.02 {
				t.Fatalf("sampleArea(%v, %v) = %v, want %v", y, dy, got, want)
			}
		}
	}
}

func TestCoverageRules(t *testing.T) {
	winding := gpudata.FillRuleWinding.Ctrl()
	evenodd := gpudata.FillRuleEvenOdd.Ctrl()

	tests := []struct {
		w    float32
		ctrl uint8
		want float32
	}{
		{0, winding, 0},
		{1, winding, 1},
		{-1, winding, 1},
		{2.5, winding, 1},
		{0.5, winding, 0.5},
		{0, evenodd, 0},
		{1, evenodd, 1},
		{2, evenodd, 0},
		{3, evenodd, 1},
		{0.5, evenodd, 0.5},
		{1.5, evenodd, 0.5},
		{-0.5, evenodd, 0.5},
	}
	for _, tt := range tests {
		if got := Coverage(tt.w, tt.ctrl); math32.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Coverage(%v, %#x) = %v, want %v", tt.w, tt.ctrl, got, tt.want)
		}
	}
}

// newFiller builds a one-tile filler whose tile owns mask 0.
func newFiller(fills []gpudata.Fill) *Filler {
	f := &Filler{
		Tiles:      make([]gpudata.Tile, 1),
		Fills:      fills,
		AlphaTiles: []int32{0},
		Masks:      make([]int32, gpudata.TileTexels),
	}
	f.Tiles[0].Reset(0, 0, 0, 0, 0)
	if len(fills) > 0 {
		f.Tiles[0].AlphaTile.Store(0)
		f.Tiles[0].FirstFill.Store(0)
	}
	return f
}

func TestFillHorizontalEdge(t *testing.T) {
	// A right-to-left fill across the middle of the tile: rows below
	// y=8 wind -1, rows above stay 0, with no fractional rows since
	// the edge lies on a pixel boundary.
	fills := []gpudata.Fill{
		{FromX: 0, FromY: 8 * 256, ToX: gpudata.MaxLocalCoord, ToY: 8 * 256, Next: gpudata.None},
	}
	f := newFiller(fills)
	f.Fill(0, 1)

	for py := 0; py < gpudata.TileHeight; py++ {
		// The clamped right endpoint shaves a sliver off column 15.
		for px := 0; px < gpudata.TileWidth-1; px++ {
			got := f.Masks[py*gpudata.TileWidth+px]
			want := int32(0)
			if py >= 8 {
				want = -gpudata.CoverageOne
			}
			if got != want {
				t.Fatalf("texel (%d,%d) = %d, want %d", px, py, got, want)
			}
		}
	}
}

func TestFillDiagonalHalfPixels(t *testing.T) {
	// The tile diagonal: each pixel it passes through is half covered.
	fills := []gpudata.Fill{
		{FromX: 0, FromY: 0, ToX: gpudata.MaxLocalCoord, ToY: gpudata.MaxLocalCoord, Next: gpudata.None},
	}
	f := newFiller(fills)
	f.Fill(0, 1)

	for i := 1; i < gpudata.TileWidth-1; i++ {
		got := float32(f.Masks[i*gpudata.TileWidth+i]) / gpudata.CoverageOne
		if math32.Abs(got-(-0.5)) > 0.02 {
			t.Errorf("diagonal texel %d = %v, want -0.5", i, got)
		}
		// Well below the diagonal: full winding. Well above: none.
		below := float32(f.Masks[i*gpudata.TileWidth+i-1]) / gpudata.CoverageOne
		if i >= 2 {
			if math32.Abs(below-(-1)) > 0.02 {
				t.Errorf("texel left of diagonal at row %d = %v, want -1", i, below)
			}
		}
		above := float32(f.Masks[i*gpudata.TileWidth+i+1]) / gpudata.CoverageOne
		if i <= gpudata.TileWidth-3 && math32.Abs(above) > 0.02 {
			t.Errorf("texel right of diagonal at row %d = %v, want 0", i, above)
		}
	}
}

func TestFillOrderIndependent(t *testing.T) {
	// The same two fills linked in both orders produce bit-identical
	// masks: contributions are integers.
	a := gpudata.Fill{FromX: 2 * 256, FromY: 3 * 256, ToX: 13 * 256, ToY: 11 * 256}
	bb := gpudata.Fill{FromX: 13 * 256, FromY: 5 * 256, ToX: 1 * 256, ToY: 14 * 256}

	f1 := newFiller([]gpudata.Fill{a, bb})
	f1.Fills[0].Next = 1
	f1.Fills[1].Next = gpudata.None
	f1.Fill(0, 1)

	f2 := newFiller([]gpudata.Fill{bb, a})
	f2.Fills[0].Next = 1
	f2.Fills[1].Next = gpudata.None
	f2.Fill(0, 1)

	for i := range f1.Masks {
		if f1.Masks[i] != f2.Masks[i] {
			t.Fatalf("texel %d differs by order: %d vs %d", i, f1.Masks[i], f2.Masks[i])
		}
	}
}

func TestFillLeakedMaskCleared(t *testing.T) {
	f := &Filler{
		AlphaTiles: []int32{gpudata.None},
		Masks:      make([]int32, gpudata.TileTexels),
		Fills:      nil,
	}
	for i := range f.Masks {
		f.Masks[i] = 99
	}
	f.Fill(0, 1)
	for i, v := range f.Masks {
		if v != 0 {
			t.Fatalf("leaked mask texel %d = %d, want 0", i, v)
		}
	}
}

func TestCombineIntersects(t *testing.T) {
	// Draw mask: full winding everywhere (backdrop 1, empty mask).
	// Clip mask: half coverage everywhere. Result: half coverage.
	masks := make([]int32, 2*gpudata.TileTexels)
	for i := 0; i < gpudata.TileTexels; i++ {
		masks[gpudata.TileTexels+i] = gpudata.CoverageOne / 2
	}
	f := &Filler{
		Masks: masks,
		Jobs: []gpudata.ClipJob{{
			DrawAlphaTile: 0,
			DrawBackdrop:  1,
			ClipAlphaTile: 1,
			ClipBackdrop:  0,
		}},
	}
	f.Combine(0, 1)

	for i := 0; i < gpudata.TileTexels; i++ {
		if got := masks[i]; got != gpudata.CoverageOne/2 {
			t.Fatalf("combined texel %d = %d, want %d", i, got, gpudata.CoverageOne/2)
		}
	}
	// The clip mask itself is untouched.
	if masks[gpudata.TileTexels] != gpudata.CoverageOne/2 {
		t.Error("clip mask modified")
	}
}

func TestCombineEvenOdd(t *testing.T) {
	// Winding 2 under even-odd is empty: combining erases the mask.
	masks := make([]int32, 2*gpudata.TileTexels)
	for i := 0; i < gpudata.TileTexels; i++ {
		masks[i] = 2 * gpudata.CoverageOne
		masks[gpudata.TileTexels+i] = gpudata.CoverageOne
	}
	f := &Filler{
		Masks: masks,
		Jobs: []gpudata.ClipJob{{
			DrawAlphaTile: 0,
			DrawCtrl:      gpudata.FillRuleEvenOdd.Ctrl(),
			ClipAlphaTile: 1,
			ClipCtrl:      gpudata.FillRuleWinding.Ctrl(),
		}},
	}
	f.Combine(0, 1)

	for i := 0; i < gpudata.TileTexels; i++ {
		if masks[i] != 0 {
			t.Fatalf("even-odd texel %d = %d, want 0", i, masks[i])
		}
	}
}
