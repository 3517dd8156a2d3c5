package dice

import (
	"sync/atomic"
	"testing"

	"github.com/chewxy/math32"

	"github.com/gogpu/pave/gpudata"
)

func runDicer(t *testing.T, d *Dicer) []gpudata.Microline {
	t.Helper()
	if d.Transforms == nil {
		maxPath := int32(0)
		for _, seg := range d.Segments {
			if seg.Path > maxPath {
				maxPath = seg.Path
			}
		}
		d.Transforms = make([]gpudata.Transform, maxPath+1)
		for i := range d.Transforms {
			d.Transforms[i] = gpudata.Identity()
		}
	}
	if d.Out == nil {
		d.Out = make([]gpudata.Microline, 4096)
	}
	if d.Count == nil {
		d.Count = new(atomic.Int32)
	}
	d.Dice(0, len(d.Segments))
	n := int(d.Count.Load())
	if n > len(d.Out) {
		n = len(d.Out)
	}
	return d.Out[:n]
}

func TestDiceLine(t *testing.T) {
	d := &Dicer{
		Points:   []gpudata.Vec2{gpudata.V2(1, 2), gpudata.V2(5, 6)},
		Segments: []gpudata.Segment{{FirstPoint: 0, Path: 3}},
	}
	out := runDicer(t, d)

	if len(out) != 1 {
		t.Fatalf("got %d microlines, want 1", len(out))
	}
	want := gpudata.Microline{FromX: 256, FromY: 512, ToX: 1280, ToY: 1536, Path: 3}
	if out[0] != want {
		t.Errorf("microline = %+v, want %+v", out[0], want)
	}
}

func TestDiceDegenerateLine(t *testing.T) {
	d := &Dicer{
		Points:   []gpudata.Vec2{gpudata.V2(1, 1), gpudata.V2(1, 1)},
		Segments: []gpudata.Segment{{FirstPoint: 0}},
	}
	out := runDicer(t, d)
	if len(out) != 0 {
		t.Errorf("zero-length line produced %d microlines", len(out))
	}
}

func TestDiceFlatCubic(t *testing.T) {
	// Control points on the chord: no subdivision needed.
	d := &Dicer{
		Points: []gpudata.Vec2{
			gpudata.V2(0, 0), gpudata.V2(1, 1), gpudata.V2(2, 2), gpudata.V2(3, 3),
		},
		Segments: []gpudata.Segment{{FirstPoint: 0, Flags: gpudata.SegmentCubic}},
	}
	out := runDicer(t, d)

	if len(out) != 1 {
		t.Fatalf("got %d microlines, want 1", len(out))
	}
	if out[0].FromX != 0 || out[0].ToX != 3*256 || out[0].ToY != 3*256 {
		t.Errorf("chord endpoints wrong: %+v", out[0])
	}
}

func TestDiceQuadraticSubdivides(t *testing.T) {
	// A strongly curved quadratic must split into several chords whose
	// endpoints chain head to tail from start to end.
	d := &Dicer{
		Points: []gpudata.Vec2{
			gpudata.V2(0, 0), gpudata.V2(50, 100), gpudata.V2(100, 0),
		},
		Segments: []gpudata.Segment{{FirstPoint: 0, Flags: gpudata.SegmentQuadratic}},
	}
	out := runDicer(t, d)

	if len(out) < 4 {
		t.Fatalf("got %d microlines, want several", len(out))
	}
	if out[0].FromX != 0 || out[0].FromY != 0 {
		t.Errorf("first microline starts at (%d, %d)", out[0].FromX, out[0].FromY)
	}
	last := out[len(out)-1]
	if last.ToX != 100*256 || last.ToY != 0 {
		t.Errorf("last microline ends at (%d, %d)", last.ToX, last.ToY)
	}
	for i := 1; i < len(out); i++ {
		if out[i].FromX != out[i-1].ToX || out[i].FromY != out[i-1].ToY {
			t.Fatalf("chain broken between microlines %d and %d", i-1, i)
		}
	}
}

func TestDiceApproximationError(t *testing.T) {
	// Every chord midpoint must lie within tolerance of the curve.
	// B(t) for the quadratic (0,0) (50,100) (100,0) has y = 200t(1-t).
	d := &Dicer{
		Points: []gpudata.Vec2{
			gpudata.V2(0, 0), gpudata.V2(50, 100), gpudata.V2(100, 0),
		},
		Segments:  []gpudata.Segment{{FirstPoint: 0, Flags: gpudata.SegmentQuadratic}},
		Tolerance: 0.25,
	}
	out := runDicer(t, d)

	for _, ml := range out {
		// x = 100t along this curve, so t recovers from the midpoint x.
		mx := (float32(ml.FromX) + float32(ml.ToX)) / (2 * gpudata.SubpixelScale)
		my := (float32(ml.FromY) + float32(ml.ToY)) / (2 * gpudata.SubpixelScale)
		tt := mx / 100
		wantY := 200 * tt * (1 - tt)
		// Chord midpoint vs curve point at matching x; allow the
		// tolerance plus quantization slack.
		if err := math32.Abs(my - wantY); err > 0.3 {
			t.Fatalf("chord deviates %v px at t=%v", err, tt)
		}
	}
}

func TestDiceTransform(t *testing.T) {
	d := &Dicer{
		Points:    []gpudata.Vec2{gpudata.V2(1, 0), gpudata.V2(2, 0)},
		Segments: []gpudata.Segment{{FirstPoint: 0}},
		Transforms: []gpudata.Transform{
			gpudata.Translation(10, 20).Mul(gpudata.Scaling(2, 2)),
		},
	}
	out := runDicer(t, d)

	if len(out) != 1 {
		t.Fatalf("got %d microlines, want 1", len(out))
	}
	if out[0].FromX != 12*256 || out[0].FromY != 20*256 || out[0].ToX != 14*256 {
		t.Errorf("transform not applied: %+v", out[0])
	}
}

func TestDiceCapacityDrop(t *testing.T) {
	// Arena of 2 with a curve that needs more: the counter records the
	// raw demand while writes stay in bounds.
	var count atomic.Int32
	d := &Dicer{
		Points: []gpudata.Vec2{
			gpudata.V2(0, 0), gpudata.V2(50, 100), gpudata.V2(100, 0),
		},
		Segments:   []gpudata.Segment{{FirstPoint: 0, Flags: gpudata.SegmentQuadratic}},
		Transforms: []gpudata.Transform{gpudata.Identity()},
		Out:        make([]gpudata.Microline, 2),
		Count:      &count,
	}
	d.Dice(0, 1)

	if count.Load() <= 2 {
		t.Fatalf("count = %d, want demand beyond capacity", count.Load())
	}
	for _, ml := range d.Out {
		if ml.FromX == ml.ToX && ml.FromY == ml.ToY {
			t.Error("retained microline is degenerate")
		}
	}
}
