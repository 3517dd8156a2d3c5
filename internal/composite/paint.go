package composite

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/pave/gpudata"
	"github.com/gogpu/pave/internal/blend"
)

// evalPaint resolves a paint to a premultiplied color at device pixel
// center (x, y).
func evalPaint(p *gpudata.Paint, x, y float32) blend.RGBA {
	switch p.Kind {
	case gpudata.PaintLinearGradient:
		return gradientColor(p, linearOffset(p, x, y))
	case gpudata.PaintRadialGradient:
		t, ok := radialOffset(p, x, y)
		if !ok {
			return blend.RGBA{}
		}
		return gradientColor(p, t)
	default:
		return blend.RGBA(p.Color)
	}
}

// linearOffset projects the point onto the gradient line.
func linearOffset(p *gpudata.Paint, x, y float32) float32 {
	dx := p.P1.X - p.P0.X
	dy := p.P1.Y - p.P0.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0
	}
	return ((x-p.P0.X)*dx + (y-p.P0.Y)*dy) / lenSq
}

// radialOffset solves the two-circle radial gradient for the point: the
// largest t whose interpolated circle passes through it. Concentric
// circles reduce to the classic center/radius form. Returns false where
// no circle with a nonnegative radius reaches the point.
func radialOffset(p *gpudata.Paint, x, y float32) (float32, bool) {
	cdx := p.P1.X - p.P0.X
	cdy := p.P1.Y - p.P0.Y
	rd := p.R1 - p.R0
	px := x - p.P0.X
	py := y - p.P0.Y

	a := cdx*cdx + cdy*cdy - rd*rd
	b := px*cdx + py*cdy + p.R0*rd
	c := px*px + py*py - p.R0*p.R0

	if math32.Abs(a) < 1e-6 {
		if b == 0 {
			return 0, false
		}
		t := c / (2 * b)
		if p.R0+t*rd < 0 {
			return 0, false
		}
		return t, true
	}

	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math32.Sqrt(disc)
	for _, t := range [2]float32{(b + sq) / a, (b - sq) / a} {
		if p.R0+t*rd >= 0 {
			return t, true
		}
	}
	return 0, false
}

// gradientColor maps a gradient offset through the extend mode and the
// stop list. Stops are pre-sorted by offset.
func gradientColor(p *gpudata.Paint, t float32) blend.RGBA {
	stops := p.Stops
	if len(stops) == 0 {
		return blend.RGBA{}
	}
	if len(stops) == 1 {
		return blend.RGBA(stops[0].Color)
	}

	t = applyExtend(t, p.Extend)

	if t <= stops[0].Offset {
		return blend.RGBA(stops[0].Color)
	}
	last := len(stops) - 1
	if t >= stops[last].Offset {
		return blend.RGBA(stops[last].Color)
	}

	hi := 1
	for hi < last && stops[hi].Offset < t {
		hi++
	}
	s0, s1 := &stops[hi-1], &stops[hi]
	if s1.Offset == s0.Offset {
		return blend.RGBA(s0.Color)
	}
	local := (t - s0.Offset) / (s1.Offset - s0.Offset)

	var out blend.RGBA
	for i := 0; i < 4; i++ {
		out[i] = s0.Color[i] + (s1.Color[i]-s0.Color[i])*local
	}
	return out
}

func applyExtend(t float32, mode gpudata.ExtendMode) float32 {
	switch mode {
	case gpudata.ExtendRepeat:
		t = t - math32.Floor(t)
	case gpudata.ExtendReflect:
		t = math32.Abs(t)
		m := math32.Mod(t, 2)
		if m > 1 {
			m = 2 - m
		}
		t = m
	default: // pad
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	return t
}
