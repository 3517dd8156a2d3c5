package pave

import (
	"sort"

	"github.com/gogpu/pave/gpudata"
)

// ExtendMode defines how gradients extend beyond their defined bounds.
type ExtendMode = gpudata.ExtendMode

const (
	// ExtendPad extends edge colors beyond bounds (default behavior).
	ExtendPad = gpudata.ExtendPad
	// ExtendRepeat repeats the gradient pattern.
	ExtendRepeat = gpudata.ExtendRepeat
	// ExtendReflect mirrors the gradient pattern.
	ExtendReflect = gpudata.ExtendReflect
)

// ColorStop represents a color at a specific position in a gradient.
type ColorStop struct {
	Offset float32 // Position in gradient, 0.0 to 1.0
	Color  RGBA    // Color at this position
}

// Paint describes how a filled path is shaded.
type Paint struct {
	data gpudata.Paint
}

// NewSolidPaint creates a paint filling with a single color.
func NewSolidPaint(c RGBA) Paint {
	return Paint{data: gpudata.Paint{
		Kind:  gpudata.PaintSolid,
		Color: c.premul4(),
	}}
}

// NewLinearGradient creates a paint shading along the axis from
// (x0, y0) to (x1, y1).
func NewLinearGradient(x0, y0, x1, y1 float32, stops []ColorStop, extend ExtendMode) Paint {
	return Paint{data: gpudata.Paint{
		Kind:   gpudata.PaintLinearGradient,
		Extend: extend,
		P0:     gpudata.V2(x0, y0),
		P1:     gpudata.V2(x1, y1),
		Stops:  convertStops(stops),
	}}
}

// NewRadialGradient creates a paint shading between the circle centered
// at (x0, y0) with radius r0 and the circle centered at (x1, y1) with
// radius r1.
func NewRadialGradient(x0, y0, r0, x1, y1, r1 float32, stops []ColorStop, extend ExtendMode) Paint {
	return Paint{data: gpudata.Paint{
		Kind:   gpudata.PaintRadialGradient,
		Extend: extend,
		P0:     gpudata.V2(x0, y0),
		P1:     gpudata.V2(x1, y1),
		R0:     r0,
		R1:     r1,
		Stops:  convertStops(stops),
	}}
}

// WithTextGamma returns a copy of the paint with the text gamma
// sharpening filter applied to coverage.
func (p Paint) WithTextGamma() Paint {
	p.data.Filter = gpudata.FilterTextGamma
	return p
}

// WithBlur returns a copy of the paint with a Gaussian blur of the
// given standard deviation (in pixels) applied to coverage.
func (p Paint) WithBlur(sigma float32) Paint {
	if sigma <= 0 {
		p.data.Filter = gpudata.FilterNone
		p.data.BlurRadius = 0
		return p
	}
	p.data.Filter = gpudata.FilterBlur
	p.data.BlurRadius = sigma
	return p
}

// IsOpaque reports whether the paint is fully opaque everywhere.
func (p Paint) IsOpaque() bool {
	return p.data.IsOpaque()
}

// convertStops premultiplies and sorts the stops by offset into the
// form the shading kernel walks linearly.
func convertStops(stops []ColorStop) []gpudata.GradientStop {
	out := make([]gpudata.GradientStop, len(stops))
	for i, s := range stops {
		out[i] = gpudata.GradientStop{Offset: s.Offset, Color: s.Color.premul4()}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Offset < out[j].Offset
	})
	return out
}
