package gpudata

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRectI(t *testing.T) {
	r := RectI{MinX: 2, MinY: 3, MaxX: 6, MaxY: 5}

	if got := r.Width(); got != 4 {
		t.Errorf("Width = %d, want 4", got)
	}
	if got := r.Height(); got != 2 {
		t.Errorf("Height = %d, want 2", got)
	}
	if got := r.Area(); got != 8 {
		t.Errorf("Area = %d, want 8", got)
	}

	tests := []struct {
		x, y int32
		in   bool
	}{
		{2, 3, true},
		{5, 4, true},
		{6, 4, false}, // max edge is exclusive
		{5, 5, false},
		{1, 3, false},
		{2, 2, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.in {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.in)
		}
	}

	// Row-major local indexing.
	if got := r.IndexOf(2, 3); got != 0 {
		t.Errorf("IndexOf(2, 3) = %d, want 0", got)
	}
	if got := r.IndexOf(5, 4); got != 7 {
		t.Errorf("IndexOf(5, 4) = %d, want 7", got)
	}
}

func TestRectIEmpty(t *testing.T) {
	r := RectI{MinX: 4, MinY: 4, MaxX: 4, MaxY: 7}
	if r.Area() != 0 {
		t.Errorf("Area = %d, want 0", r.Area())
	}
	if r.Contains(4, 5) {
		t.Error("empty rect should contain nothing")
	}
}

func TestSearchPrefix(t *testing.T) {
	// Three groups of sizes 2, 0, 3. Inclusive prefix sums.
	prefix := []int32{2, 2, 5}

	tests := []struct {
		i    int32
		want int32
	}{
		{0, 0},
		{1, 0},
		{2, 2}, // group 1 is empty, index 2 falls into group 2
		{4, 2},
	}
	for _, tt := range tests {
		if got := SearchPrefix(prefix, tt.i); got != tt.want {
			t.Errorf("SearchPrefix(%d) = %d, want %d", tt.i, got, tt.want)
		}
	}
}

func TestSearchPrefixSingle(t *testing.T) {
	prefix := []int32{7}
	for i := int32(0); i < 7; i++ {
		if got := SearchPrefix(prefix, i); got != 0 {
			t.Errorf("SearchPrefix(%d) = %d, want 0", i, got)
		}
	}
}

func TestFillRuleCtrl(t *testing.T) {
	if got := RuleOf(FillRuleWinding.Ctrl()); got != FillRuleWinding {
		t.Errorf("winding round-trip = %v", got)
	}
	if got := RuleOf(FillRuleEvenOdd.Ctrl()); got != FillRuleEvenOdd {
		t.Errorf("even-odd round-trip = %v", got)
	}
}

func TestTileReset(t *testing.T) {
	var tile Tile
	tile.NextTile.Store(7)
	tile.FirstFill.Store(9)
	tile.AlphaTile.Store(3)
	tile.BackdropDelta.Store(-2)
	tile.Backdrop = 5

	tile.Reset(1, 2, 4, 6, TileCtrlMaskEvenOdd)

	if tile.NextTile.Load() != None || tile.FirstFill.Load() != None || tile.AlphaTile.Load() != None {
		t.Error("links not reset to None")
	}
	if tile.BackdropDelta.Load() != 0 || tile.Backdrop != 0 {
		t.Error("backdrop state not cleared")
	}
	if tile.X != 1 || tile.Y != 2 || tile.Path != 4 || tile.Paint != 6 {
		t.Error("coordinates not stamped")
	}
	if RuleOf(tile.Ctrl) != FillRuleEvenOdd {
		t.Error("ctrl not stamped")
	}
}

func TestAtomicMaxInt32(t *testing.T) {
	var v atomic.Int32
	v.Store(-1)

	AtomicMaxInt32(&v, 5)
	if v.Load() != 5 {
		t.Errorf("max = %d, want 5", v.Load())
	}
	AtomicMaxInt32(&v, 3)
	if v.Load() != 5 {
		t.Errorf("max regressed to %d", v.Load())
	}
}

func TestAtomicMaxInt32Concurrent(t *testing.T) {
	var v atomic.Int32
	v.Store(-1)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(x int32) {
			defer wg.Done()
			AtomicMaxInt32(&v, x)
		}(int32(i))
	}
	wg.Wait()

	if v.Load() != 63 {
		t.Errorf("max = %d, want 63", v.Load())
	}
}

func TestBlendModeOccludes(t *testing.T) {
	if !BlendSourceOver.Occludes() || !BlendSource.Occludes() {
		t.Error("SourceOver and Source should occlude")
	}
	for _, m := range []BlendMode{BlendMultiply, BlendXor, BlendDestinationOver, BlendPlus} {
		if m.Occludes() {
			t.Errorf("%d should not occlude", m)
		}
	}
}

func TestPaintIsOpaque(t *testing.T) {
	solid := Paint{Kind: PaintSolid, Color: [4]float32{1, 0, 0, 1}}
	if !solid.IsOpaque() {
		t.Error("opaque solid reported translucent")
	}
	solid.Color[3] = 0.5
	if solid.IsOpaque() {
		t.Error("translucent solid reported opaque")
	}

	grad := Paint{
		Kind: PaintLinearGradient,
		Stops: []GradientStop{
			{Offset: 0, Color: [4]float32{1, 0, 0, 1}},
			{Offset: 1, Color: [4]float32{0, 0, 1, 1}},
		},
	}
	if !grad.IsOpaque() {
		t.Error("opaque gradient reported translucent")
	}
	grad.Stops[1].Color[3] = 0
	if grad.IsOpaque() {
		t.Error("gradient with transparent stop reported opaque")
	}

	empty := Paint{Kind: PaintLinearGradient}
	if empty.IsOpaque() {
		t.Error("stopless gradient reported opaque")
	}
}

func TestVec2(t *testing.T) {
	a := V2(1, 2)
	b := V2(3, 5)

	if got := a.Add(b); got != (Vec2{4, 7}) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != (Vec2{2, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(2); got != (Vec2{2, 4}) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Lerp(b, 0.5); got != (Vec2{2, 3.5}) {
		t.Errorf("Lerp = %v", got)
	}
	if got := V2(3, 4).LengthSq(); got != 25 {
		t.Errorf("LengthSq = %v", got)
	}
}
