package pave

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/pave/gpudata"
)

// Path accumulates contours of lines and Bezier curves in the segment
// layout the render kernels consume. The zero value is an empty path
// ready for use.
//
// Fill semantics treat every contour as closed: a contour left open is
// closed with a line back to its starting point when the path is added
// to a scene.
type Path struct {
	points   []gpudata.Vec2
	segments []gpudata.Segment

	start   gpudata.Vec2
	current gpudata.Vec2
	hasCur  bool
	// open is true while the current contour has segments and does not
	// end at its starting point.
	open bool
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts a new contour at (x, y), implicitly closing the
// previous one.
func (p *Path) MoveTo(x, y float32) {
	p.closeContour()
	p.start = gpudata.V2(x, y)
	p.current = p.start
	p.hasCur = true
}

// LineTo draws a line to (x, y).
func (p *Path) LineTo(x, y float32) {
	to := gpudata.V2(x, y)
	p.lineSeg(p.moveOrCurrent(to), to)
}

// QuadTo draws a quadratic Bezier curve with control point (cx, cy)
// ending at (x, y).
func (p *Path) QuadTo(cx, cy, x, y float32) {
	to := gpudata.V2(x, y)
	from := p.moveOrCurrent(to)
	fp := uint32(len(p.points))
	p.points = append(p.points, from, gpudata.V2(cx, cy), to)
	p.segments = append(p.segments, gpudata.Segment{
		FirstPoint: fp,
		Flags:      gpudata.SegmentQuadratic,
	})
	p.advance(to)
}

// CubicTo draws a cubic Bezier curve with control points (c1x, c1y) and
// (c2x, c2y) ending at (x, y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	to := gpudata.V2(x, y)
	from := p.moveOrCurrent(to)
	fp := uint32(len(p.points))
	p.points = append(p.points, from, gpudata.V2(c1x, c1y), gpudata.V2(c2x, c2y), to)
	p.segments = append(p.segments, gpudata.Segment{
		FirstPoint: fp,
		Flags:      gpudata.SegmentCubic,
	})
	p.advance(to)
}

// Close closes the current contour with a line back to its start.
func (p *Path) Close() {
	p.closeContour()
	p.current = p.start
}

// Clear removes all contours, retaining allocated capacity.
func (p *Path) Clear() {
	p.points = p.points[:0]
	p.segments = p.segments[:0]
	p.hasCur = false
	p.open = false
}

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool {
	return len(p.segments) == 0
}

// Rect adds an axis-aligned rectangle contour.
func (p *Path) Rect(x, y, w, h float32) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// RoundRect adds a rounded rectangle contour.
func (p *Path) RoundRect(x, y, w, h, r float32) {
	r = math32.Min(r, math32.Min(w, h)/2)
	if r <= 0 {
		p.Rect(x, y, w, h)
		return
	}
	k := kappa * r

	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CubicTo(x+w-r+k, y, x+w, y+r-k, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CubicTo(x+w, y+h-r+k, x+w-r+k, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CubicTo(x+r-k, y+h, x, y+h-r+k, x, y+h-r)
	p.LineTo(x, y+r)
	p.CubicTo(x, y+r-k, x+r-k, y, x+r, y)
	p.Close()
}

// Circle adds a circle contour.
func (p *Path) Circle(cx, cy, r float32) {
	p.Ellipse(cx, cy, r, r)
}

// kappa is the control point distance for the four-arc cubic
// approximation of a circle.
const kappa = 0.5522847498

// Ellipse adds an axis-aligned ellipse contour.
func (p *Path) Ellipse(cx, cy, rx, ry float32) {
	kx := kappa * rx
	ky := kappa * ry

	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
}

// Bounds returns the bounding box of the path's points, including
// control points. Empty paths return zero min and max.
func (p *Path) Bounds() (minPt, maxPt gpudata.Vec2) {
	if len(p.points) == 0 {
		return
	}
	minPt = p.points[0]
	maxPt = p.points[0]
	for _, pt := range p.points[1:] {
		minPt.X = math32.Min(minPt.X, pt.X)
		minPt.Y = math32.Min(minPt.Y, pt.Y)
		maxPt.X = math32.Max(maxPt.X, pt.X)
		maxPt.Y = math32.Max(maxPt.Y, pt.Y)
	}
	return
}

// moveOrCurrent returns the segment's starting point, treating a draw
// without a preceding MoveTo as starting at the target.
func (p *Path) moveOrCurrent(to gpudata.Vec2) gpudata.Vec2 {
	if !p.hasCur {
		p.start = to
		p.current = to
		p.hasCur = true
	}
	return p.current
}

func (p *Path) advance(to gpudata.Vec2) {
	p.current = to
	p.open = to != p.start
}

// lineSeg appends a line segment from from to to, skipping degenerates.
func (p *Path) lineSeg(from, to gpudata.Vec2) {
	if from == to {
		return
	}
	fp := uint32(len(p.points))
	p.points = append(p.points, from, to)
	p.segments = append(p.segments, gpudata.Segment{FirstPoint: fp})
	p.advance(to)
}

// closeContour appends the implicit closing line if the current contour
// is open.
func (p *Path) closeContour() {
	if p.open {
		p.lineSeg(p.current, p.start)
	}
	p.open = false
}
