package pave

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/pave/gpudata"
)

// Transform is an affine 2D transformation applied to a path's
// geometry. The zero value is treated as the identity.
type Transform = gpudata.Transform

// FillRule selects how winding converts to coverage.
type FillRule = gpudata.FillRule

const (
	// FillRuleWinding is the non-zero winding rule (default).
	FillRuleWinding = gpudata.FillRuleWinding
	// FillRuleEvenOdd is the even-odd rule.
	FillRuleEvenOdd = gpudata.FillRuleEvenOdd
)

// BlendMode selects the compositing operator for a fill. The full set
// of operators is defined in [gpudata.BlendMode].
type BlendMode = gpudata.BlendMode

// ClipID identifies a clip path previously pushed onto a scene.
// The zero value means unclipped.
type ClipID int32

// FillOptions carries the optional parameters of a fill. The zero
// value means: non-zero winding, source-over, no clip, identity
// transform.
type FillOptions struct {
	Rule FillRule
	// Blend is the compositing operator. The zero value composites
	// source-over.
	Blend BlendMode
	// Clip restricts the fill to a clip path from PushClip.
	Clip ClipID
	// Transform maps the path to device space. The zero value is the
	// identity.
	Transform Transform
}

// ClipOptions carries the optional parameters of a clip path.
type ClipOptions struct {
	Rule FillRule
	// Transform maps the path to device space. The zero value is the
	// identity.
	Transform Transform
}

// pathRecord is one retained fill or clip path.
type pathRecord struct {
	transform gpudata.Transform
	rule      gpudata.FillRule
	blend     gpudata.BlendMode
	clip      int32 // clip slot, or gpudata.None
	paint     uint16
	zWrite    bool
	// firstSeg and segCount locate the record's run in the scene's
	// segment pool.
	firstSeg, segCount int32
	// Device-space bounds of the transformed control polygon.
	minPt, maxPt gpudata.Vec2
	empty        bool
}

// Scene retains the paths, paints, and clips of one frame. Paths are
// copied in, so a Path may be reused or mutated after adding. Fill
// order is paint order: later fills composite over earlier ones.
//
// A Scene is built single-threaded and is read-only while rendering.
type Scene struct {
	drawPoints []gpudata.Vec2
	drawSegs   []gpudata.Segment
	clipPoints []gpudata.Vec2
	clipSegs   []gpudata.Segment

	draws  []pathRecord
	clips  []pathRecord
	paints []gpudata.Paint
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Reset empties the scene, retaining allocated capacity.
func (s *Scene) Reset() {
	s.drawPoints = s.drawPoints[:0]
	s.drawSegs = s.drawSegs[:0]
	s.clipPoints = s.clipPoints[:0]
	s.clipSegs = s.clipSegs[:0]
	s.draws = s.draws[:0]
	s.clips = s.clips[:0]
	s.paints = s.paints[:0]
}

// PathCount returns the number of fills added so far.
func (s *Scene) PathCount() int { return len(s.draws) }

// PushClip adds a clip path and returns its handle for use in
// [FillOptions.Clip]. Clip paths themselves cannot be clipped.
func (s *Scene) PushClip(path *Path, opts ClipOptions) ClipID {
	rec := pathRecord{
		transform: normTransform(opts.Transform),
		rule:      opts.Rule,
		clip:      gpudata.None,
	}
	rec.firstSeg = int32(len(s.clipSegs))
	s.clipPoints, s.clipSegs = appendPath(s.clipPoints, s.clipSegs, path, int32(len(s.clips)))
	rec.segCount = int32(len(s.clipSegs)) - rec.firstSeg
	finishRecord(&rec, path)
	s.clips = append(s.clips, rec)
	return ClipID(len(s.clips))
}

// Fill adds a filled path shaded by paint. Contours left open are
// closed implicitly.
func (s *Scene) Fill(path *Path, paint Paint, opts FillOptions) {
	blend := opts.Blend
	if blend == gpudata.BlendClear {
		// Clear is not a meaningful per-path operator here; the zero
		// value selects the default.
		blend = gpudata.BlendSourceOver
	}
	clip := gpudata.None
	if opts.Clip > 0 && int(opts.Clip) <= len(s.clips) {
		clip = int32(opts.Clip) - 1
	}

	rec := pathRecord{
		transform: normTransform(opts.Transform),
		rule:      opts.Rule,
		blend:     blend,
		clip:      clip,
		paint:     s.addPaint(paint),
		zWrite:    paint.IsOpaque() && blend.Occludes() && clip == gpudata.None,
	}
	rec.firstSeg = int32(len(s.drawSegs))
	s.drawPoints, s.drawSegs = appendPath(s.drawPoints, s.drawSegs, path, int32(len(s.draws)))
	rec.segCount = int32(len(s.drawSegs)) - rec.firstSeg
	finishRecord(&rec, path)
	s.draws = append(s.draws, rec)
}

// addPaint appends a paint and returns its table index.
func (s *Scene) addPaint(p Paint) uint16 {
	if len(s.paints) >= 1<<16 {
		Logger().Warn("paint table full, reusing first paint")
		return 0
	}
	s.paints = append(s.paints, p.data)
	return uint16(len(s.paints) - 1)
}

// appendPath copies a path's geometry into a scene pool, rebasing point
// indices and stamping the local path index. The closing segment of an
// open final contour is materialized here.
func appendPath(points []gpudata.Vec2, segs []gpudata.Segment, path *Path, local int32) ([]gpudata.Vec2, []gpudata.Segment) {
	base := uint32(len(points))
	points = append(points, path.points...)
	for _, seg := range path.segments {
		seg.FirstPoint += base
		seg.Path = local
		segs = append(segs, seg)
	}
	if path.open {
		from := path.current
		to := path.start
		fp := uint32(len(points))
		points = append(points, from, to)
		segs = append(segs, gpudata.Segment{FirstPoint: fp, Path: local})
	}
	return points, segs
}

// finishRecord computes the device-space bounds of the path under the
// record's transform.
func finishRecord(rec *pathRecord, path *Path) {
	if len(path.segments) == 0 {
		rec.empty = true
		return
	}
	first := rec.transform.Apply(path.points[0])
	rec.minPt, rec.maxPt = first, first
	for _, pt := range path.points[1:] {
		p := rec.transform.Apply(pt)
		rec.minPt.X = math32.Min(rec.minPt.X, p.X)
		rec.minPt.Y = math32.Min(rec.minPt.Y, p.Y)
		rec.maxPt.X = math32.Max(rec.maxPt.X, p.X)
		rec.maxPt.Y = math32.Max(rec.maxPt.Y, p.Y)
	}
}

func normTransform(t Transform) gpudata.Transform {
	if t == (Transform{}) {
		return gpudata.Identity()
	}
	return t
}
