// Package blend implements Porter-Duff compositing operators and blend
// modes over premultiplied float32 colors.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/pave/gpudata"
)

// RGBA is a premultiplied color, channels in [0, 1], alpha last.
type RGBA [4]float32

// Apply composites src over dst with the given mode and returns the
// premultiplied result. Unknown modes fall back to source-over.
func Apply(mode gpudata.BlendMode, src, dst RGBA) RGBA {
	sa, da := src[3], dst[3]
	switch mode {
	// Porter-Duff operators: result = src*fa + dst*fb.
	case gpudata.BlendClear:
		return RGBA{}
	case gpudata.BlendSource:
		return src
	case gpudata.BlendDestination:
		return dst
	case gpudata.BlendSourceOver:
		return porterDuff(src, dst, 1, 1-sa)
	case gpudata.BlendDestinationOver:
		return porterDuff(src, dst, 1-da, 1)
	case gpudata.BlendSourceIn:
		return porterDuff(src, dst, da, 0)
	case gpudata.BlendDestinationIn:
		return porterDuff(src, dst, 0, sa)
	case gpudata.BlendSourceOut:
		return porterDuff(src, dst, 1-da, 0)
	case gpudata.BlendDestinationOut:
		return porterDuff(src, dst, 0, 1-sa)
	case gpudata.BlendSourceAtop:
		return porterDuff(src, dst, da, 1-sa)
	case gpudata.BlendDestinationAtop:
		return porterDuff(src, dst, 1-da, sa)
	case gpudata.BlendXor:
		return porterDuff(src, dst, 1-da, 1-sa)
	case gpudata.BlendPlus:
		return RGBA{
			clamp01(src[0] + dst[0]),
			clamp01(src[1] + dst[1]),
			clamp01(src[2] + dst[2]),
			clamp01(sa + da),
		}
	case gpudata.BlendModulate:
		return RGBA{src[0] * dst[0], src[1] * dst[1], src[2] * dst[2], sa * da}

	// Separable blend modes.
	case gpudata.BlendMultiply:
		return separable(src, dst, func(s, d float32) float32 { return s * d })
	case gpudata.BlendScreen:
		return separable(src, dst, screen)
	case gpudata.BlendOverlay:
		return separable(src, dst, func(s, d float32) float32 { return hardLight(d, s) })
	case gpudata.BlendDarken:
		return separable(src, dst, math32.Min)
	case gpudata.BlendLighten:
		return separable(src, dst, math32.Max)
	case gpudata.BlendColorDodge:
		return separable(src, dst, colorDodge)
	case gpudata.BlendColorBurn:
		return separable(src, dst, colorBurn)
	case gpudata.BlendHardLight:
		return separable(src, dst, hardLight)
	case gpudata.BlendSoftLight:
		return separable(src, dst, softLight)
	case gpudata.BlendDifference:
		return separable(src, dst, func(s, d float32) float32 { return math32.Abs(s - d) })
	case gpudata.BlendExclusion:
		return separable(src, dst, func(s, d float32) float32 { return s + d - 2*s*d })

	// Non-separable HSL blend modes.
	case gpudata.BlendHue, gpudata.BlendSaturation, gpudata.BlendColor, gpudata.BlendLuminosity:
		return nonSeparable(mode, src, dst)

	default:
		return porterDuff(src, dst, 1, 1-sa)
	}
}

// TransparentIdentity reports whether a fully transparent source
// leaves the destination unchanged under the mode. Compositors use it
// to skip zero-coverage pixels.
func TransparentIdentity(mode gpudata.BlendMode) bool {
	switch mode {
	case gpudata.BlendClear, gpudata.BlendSource, gpudata.BlendSourceIn,
		gpudata.BlendSourceOut, gpudata.BlendSourceAtop,
		gpudata.BlendDestinationIn, gpudata.BlendDestinationAtop,
		gpudata.BlendModulate:
		return false
	}
	return true
}

func porterDuff(src, dst RGBA, fa, fb float32) RGBA {
	return RGBA{
		src[0]*fa + dst[0]*fb,
		src[1]*fa + dst[1]*fb,
		src[2]*fa + dst[2]*fb,
		src[3]*fa + dst[3]*fb,
	}
}

// separable blends unpremultiplied channels per the W3C model, mixing
// the blended color with the raw source by destination alpha, then
// composites source-over.
func separable(src, dst RGBA, f func(s, d float32) float32) RGBA {
	sa, da := src[3], dst[3]
	var out RGBA
	for i := 0; i < 3; i++ {
		cs := unpremul(src[i], sa)
		cd := unpremul(dst[i], da)
		mixed := (1-da)*cs + da*f(cs, cd)
		out[i] = mixed*sa + dst[i]*(1-sa)
	}
	out[3] = sa + da*(1-sa)
	return out
}

func unpremul(c, a float32) float32 {
	if a == 0 {
		return 0
	}
	return c / a
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Separable channel functions per W3C Compositing and Blending Level 1.

func screen(s, d float32) float32 {
	return s + d - s*d
}

func hardLight(s, d float32) float32 {
	if s <= 0.5 {
		return 2 * s * d
	}
	return screen(2*s-1, d)
}

func colorDodge(s, d float32) float32 {
	if d == 0 {
		return 0
	}
	if s == 1 {
		return 1
	}
	return math32.Min(1, d/(1-s))
}

func colorBurn(s, d float32) float32 {
	if d == 1 {
		return 1
	}
	if s == 0 {
		return 0
	}
	return 1 - math32.Min(1, (1-d)/s)
}

func softLight(s, d float32) float32 {
	if s <= 0.5 {
		return d - (1-2*s)*d*(1-d)
	}
	var dd float32
	if d <= 0.25 {
		dd = ((16*d-12)*d + 4) * d
	} else {
		dd = math32.Sqrt(d)
	}
	return d + (2*s-1)*(dd-d)
}
