// Package dice flattens curve segments into microlines.
//
// Dicing is the first pipeline stage: every path segment, after the
// path's transform, becomes a run of short straight sub-segments in
// 16.8 signed fixed point. Later stages see only microlines, never
// curves.
package dice

import (
	"sync/atomic"

	"github.com/chewxy/math32"

	"github.com/gogpu/pave/gpudata"
)

// DefaultTolerance is the maximum curve approximation error in device
// pixels when no tolerance is configured.
const DefaultTolerance = 0.25

// Dicer flattens one batch's segments. All fields are read-only during
// the dispatch except Out (disjoint atomic-indexed writes) and Count.
type Dicer struct {
	// Points and Segments describe the batch geometry. Segment path
	// indices are local to this batch.
	Points   []gpudata.Vec2
	Segments []gpudata.Segment
	// Transforms maps each local path to device space.
	Transforms []gpudata.Transform
	// PathBase offsets local path indices into the unified path table.
	PathBase int32
	// Tolerance is the flattening error bound in device pixels.
	Tolerance float32

	// Out is the microline arena. Count is the shared allocation
	// cursor; microlines past len(Out) are dropped.
	Out   []gpudata.Microline
	Count *atomic.Int32
}

// Dice is the kernel body: it flattens segments [start, end).
func (d *Dicer) Dice(start, end int) {
	tol := d.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	// The flatness test compares control point deviation, which bounds
	// the true error with a wide margin.
	flatSq := 16 * tol * tol

	for i := start; i < end; i++ {
		seg := &d.Segments[i]
		xf := d.Transforms[seg.Path]
		path := d.PathBase + seg.Path
		p0 := xf.Apply(d.Points[seg.FirstPoint])

		switch seg.Flags & gpudata.SegmentKindMask {
		case gpudata.SegmentQuadratic:
			c := xf.Apply(d.Points[seg.FirstPoint+1])
			p3 := xf.Apply(d.Points[seg.FirstPoint+2])
			// Exact degree elevation to a cubic.
			p1 := p0.Add(c.Sub(p0).Mul(2.0 / 3.0))
			p2 := p3.Add(c.Sub(p3).Mul(2.0 / 3.0))
			d.flatten(cubic{p0, p1, p2, p3}, flatSq, path)
		case gpudata.SegmentCubic:
			p1 := xf.Apply(d.Points[seg.FirstPoint+1])
			p2 := xf.Apply(d.Points[seg.FirstPoint+2])
			p3 := xf.Apply(d.Points[seg.FirstPoint+3])
			d.flatten(cubic{p0, p1, p2, p3}, flatSq, path)
		default:
			p1 := xf.Apply(d.Points[seg.FirstPoint+1])
			d.emit(p0, p1, path)
		}
	}
}

type cubic [4]gpudata.Vec2

// flat reports whether the chord approximates the cubic within the
// squared deviation bound. The deviation vectors are the classic
// control net test: 3*P1 - 2*P0 - P3 and 3*P2 - 2*P3 - P0.
func (c cubic) flat(flatSq float32) bool {
	d1 := c[1].Mul(3).Sub(c[0].Mul(2)).Sub(c[3])
	d2 := c[2].Mul(3).Sub(c[3].Mul(2)).Sub(c[0])
	m := d1.LengthSq()
	if s := d2.LengthSq(); s > m {
		m = s
	}
	return m <= flatSq
}

// split halves the cubic at t = 0.5 by de Casteljau.
func (c cubic) split() (cubic, cubic) {
	ab := c[0].Lerp(c[1], 0.5)
	bc := c[1].Lerp(c[2], 0.5)
	cd := c[2].Lerp(c[3], 0.5)
	abc := ab.Lerp(bc, 0.5)
	bcd := bc.Lerp(cd, 0.5)
	mid := abc.Lerp(bcd, 0.5)
	return cubic{c[0], ab, abc, mid}, cubic{mid, bcd, cd, c[3]}
}

// flatten subdivides with an explicit stack. A curve that is still not
// flat at the depth or iteration limit is emitted as a chord, so
// degenerate input terminates with coarse geometry instead of hanging.
func (d *Dicer) flatten(c cubic, flatSq float32, path int32) {
	var stack [gpudata.FlattenStackDepth]cubic
	stack[0] = c
	sp := 1

	for iter := 0; sp > 0 && iter < gpudata.MaxFlattenIterations; iter++ {
		sp--
		cur := stack[sp]
		if cur.flat(flatSq) || sp+2 > len(stack) {
			d.emit(cur[0], cur[3], path)
			continue
		}
		near, far := cur.split()
		stack[sp] = far
		stack[sp+1] = near
		sp += 2
	}
	// Drain anything cut off by the iteration cap as chords.
	for sp > 0 {
		sp--
		d.emit(stack[sp][0], stack[sp][3], path)
	}
}

// emit appends one microline in 16.8 fixed point. Zero-length results
// of quantization are skipped.
func (d *Dicer) emit(from, to gpudata.Vec2, path int32) {
	ml := gpudata.Microline{
		FromX: fixed16_8(from.X),
		FromY: fixed16_8(from.Y),
		ToX:   fixed16_8(to.X),
		ToY:   fixed16_8(to.Y),
		Path:  path,
	}
	if ml.FromX == ml.ToX && ml.FromY == ml.ToY {
		return
	}
	id := d.Count.Add(1) - 1
	if int(id) >= len(d.Out) {
		return
	}
	d.Out[id] = ml
}

func fixed16_8(v float32) int32 {
	return int32(math32.Round(v * gpudata.SubpixelScale))
}
