package pave

import (
	"testing"

	"github.com/gogpu/pave/gpudata"
)

func TestPathRect(t *testing.T) {
	var p Path
	p.Rect(10, 20, 30, 40)

	if len(p.segments) != 4 {
		t.Fatalf("got %d segments, want 4", len(p.segments))
	}
	for _, seg := range p.segments {
		if seg.Flags&gpudata.SegmentKindMask != 0 {
			t.Errorf("rect segment flagged as curve: %x", seg.Flags)
		}
	}
	minPt, maxPt := p.Bounds()
	if minPt != gpudata.V2(10, 20) || maxPt != gpudata.V2(40, 60) {
		t.Errorf("Bounds() = %v, %v", minPt, maxPt)
	}
	if p.open {
		t.Error("rect contour should be closed")
	}
}

func TestPathCurveKinds(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.QuadTo(5, 10, 10, 0)
	p.CubicTo(12, 5, 18, 5, 20, 0)

	if len(p.segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(p.segments))
	}
	if p.segments[0].Flags&gpudata.SegmentKindMask != gpudata.SegmentQuadratic {
		t.Error("first segment should be quadratic")
	}
	if p.segments[1].Flags&gpudata.SegmentKindMask != gpudata.SegmentCubic {
		t.Error("second segment should be cubic")
	}
	// Control points are part of the point run.
	q := p.segments[0]
	if p.points[q.FirstPoint+1] != gpudata.V2(5, 10) {
		t.Errorf("quad control point = %v", p.points[q.FirstPoint+1])
	}
}

func TestPathCircleClosed(t *testing.T) {
	var p Path
	p.Circle(50, 50, 10)

	// Four arcs meet head to tail; the closing line is degenerate and
	// elided.
	if len(p.segments) != 4 {
		t.Fatalf("got %d segments, want 4", len(p.segments))
	}
	if p.open {
		t.Error("circle should be closed")
	}
}

func TestPathImplicitMove(t *testing.T) {
	// A draw without MoveTo starts its contour at the target.
	var p Path
	p.LineTo(5, 5)
	if len(p.segments) != 0 {
		t.Fatalf("degenerate first line should be skipped, got %d segments", len(p.segments))
	}
	p.LineTo(10, 5)
	if len(p.segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(p.segments))
	}
	if p.points[0] != gpudata.V2(5, 5) {
		t.Errorf("contour starts at %v, want (5,5)", p.points[0])
	}
}

func TestPathMoveToClosesPrevious(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)
	p.MoveTo(50, 50)
	p.LineTo(60, 50)

	// Segments: two explicit + implicit close of the first contour +
	// one in the second contour.
	if len(p.segments) != 4 {
		t.Fatalf("got %d segments, want 4", len(p.segments))
	}
	closeSeg := p.segments[2]
	from := p.points[closeSeg.FirstPoint]
	to := p.points[closeSeg.FirstPoint+1]
	if from != gpudata.V2(10, 10) || to != gpudata.V2(0, 0) {
		t.Errorf("closing segment %v -> %v, want (10,10) -> (0,0)", from, to)
	}
}

func TestPathClear(t *testing.T) {
	var p Path
	p.Rect(0, 0, 10, 10)
	p.Clear()
	if !p.IsEmpty() || p.open || p.hasCur {
		t.Error("Clear left state behind")
	}
	p.MoveTo(1, 1)
	p.LineTo(2, 1)
	if len(p.segments) != 1 {
		t.Error("path unusable after Clear")
	}
}

func TestPathRoundRectFallback(t *testing.T) {
	var p Path
	p.RoundRect(0, 0, 20, 20, 0)
	if len(p.segments) != 4 {
		t.Errorf("zero radius should degrade to a plain rect, got %d segments", len(p.segments))
	}

	var q Path
	q.RoundRect(0, 0, 20, 20, 4)
	curves := 0
	for _, seg := range q.segments {
		if seg.Flags&gpudata.SegmentKindMask == gpudata.SegmentCubic {
			curves++
		}
	}
	if curves != 4 {
		t.Errorf("rounded rect has %d corner curves, want 4", curves)
	}
}
