// Non-separable blend modes (Hue, Saturation, Color, Luminosity) per
// W3C Compositing and Blending Level 1, section 8. These operate on the
// whole RGB triplet rather than individual channels.
package blend

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/pave/gpudata"
)

// Lum returns the luminance of a color using BT.601 coefficients.
func Lum(r, g, b float32) float32 {
	return 0.30*r + 0.59*g + 0.11*b
}

// Sat returns the saturation (max - min) of a color.
func Sat(r, g, b float32) float32 {
	return max3(r, g, b) - min3(r, g, b)
}

// ClipColor clips color components to [0,1] while preserving luminance,
// scaling out-of-range components towards the luminance.
func ClipColor(r, g, b float32) (float32, float32, float32) {
	l := Lum(r, g, b)
	n := min3(r, g, b)
	x := max3(r, g, b)

	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

// SetLum shifts a color to the target luminance, then clips.
func SetLum(r, g, b, l float32) (float32, float32, float32) {
	d := l - Lum(r, g, b)
	return ClipColor(r+d, g+d, b+d)
}

// SetSat scales a color to the target saturation. The minimum channel
// goes to zero, the maximum to s, the middle proportionally.
func SetSat(r, g, b, s float32) (float32, float32, float32) {
	mn := min3(r, g, b)
	mx := max3(r, g, b)
	if mx <= mn {
		return 0, 0, 0
	}
	scale := func(c float32) float32 {
		return (c - mn) * s / (mx - mn)
	}
	return scale(r), scale(g), scale(b)
}

// nonSeparable blends the unpremultiplied RGB triplets, mixes with the
// raw source by destination alpha, and composites source-over, the same
// shape as the separable path.
func nonSeparable(mode gpudata.BlendMode, src, dst RGBA) RGBA {
	sa, da := src[3], dst[3]
	cs := [3]float32{unpremul(src[0], sa), unpremul(src[1], sa), unpremul(src[2], sa)}
	cd := [3]float32{unpremul(dst[0], da), unpremul(dst[1], da), unpremul(dst[2], da)}

	var br, bg, bb float32
	switch mode {
	case gpudata.BlendHue:
		br, bg, bb = SetSat(cs[0], cs[1], cs[2], Sat(cd[0], cd[1], cd[2]))
		br, bg, bb = SetLum(br, bg, bb, Lum(cd[0], cd[1], cd[2]))
	case gpudata.BlendSaturation:
		br, bg, bb = SetSat(cd[0], cd[1], cd[2], Sat(cs[0], cs[1], cs[2]))
		br, bg, bb = SetLum(br, bg, bb, Lum(cd[0], cd[1], cd[2]))
	case gpudata.BlendColor:
		br, bg, bb = SetLum(cs[0], cs[1], cs[2], Lum(cd[0], cd[1], cd[2]))
	case gpudata.BlendLuminosity:
		br, bg, bb = SetLum(cd[0], cd[1], cd[2], Lum(cs[0], cs[1], cs[2]))
	}

	blended := [3]float32{br, bg, bb}
	var out RGBA
	for i := 0; i < 3; i++ {
		mixed := (1-da)*cs[i] + da*blended[i]
		out[i] = mixed*sa + dst[i]*(1-sa)
	}
	out[3] = sa + da*(1-sa)
	return out
}

func min3(a, b, c float32) float32 {
	return math32.Min(a, math32.Min(b, c))
}

func max3(a, b, c float32) float32 {
	return math32.Max(a, math32.Max(b, c))
}
