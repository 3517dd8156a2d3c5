package gpudata

// BlendMode represents a compositing operation applied when a path's
// tiles are written to the framebuffer.
//
// The numbering follows the W3C Compositing and Blending Level 1 order:
// Porter-Duff operators first, then the separable advanced modes, then
// the non-separable HSL modes.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
type BlendMode uint8

const (
	// Porter-Duff modes (standard compositing operators)
	BlendClear           BlendMode = iota // Result: 0 (clear destination)
	BlendSource                           // Result: S (replace with source)
	BlendDestination                      // Result: D (keep destination)
	BlendSourceOver                       // Result: S + D*(1-Sa) [default]
	BlendDestinationOver                  // Result: S*(1-Da) + D
	BlendSourceIn                         // Result: S*Da
	BlendDestinationIn                    // Result: D*Sa
	BlendSourceOut                        // Result: S*(1-Da)
	BlendDestinationOut                   // Result: D*(1-Sa)
	BlendSourceAtop                       // Result: S*Da + D*(1-Sa)
	BlendDestinationAtop                  // Result: S*(1-Da) + D*Sa
	BlendXor                              // Result: S*(1-Da) + D*(1-Sa)
	BlendPlus                             // Result: S + D (clamped)
	BlendModulate                         // Result: S*D (multiply)

	// Advanced separable blend modes
	BlendMultiply   // Result: S * D
	BlendScreen     // Result: S + D - S*D
	BlendOverlay    // HardLight with operands swapped
	BlendDarken     // Result: min(S, D)
	BlendLighten    // Result: max(S, D)
	BlendColorDodge // Brightens D to reflect S
	BlendColorBurn  // Darkens D to reflect S
	BlendHardLight  // Multiply or Screen based on S
	BlendSoftLight  // Soft variant of HardLight
	BlendDifference // Result: |S - D|
	BlendExclusion  // Result: S + D - 2*S*D

	// Non-separable HSL blend modes
	BlendHue        // Hue of S, saturation and luminance of D
	BlendSaturation // Saturation of S, hue and luminance of D
	BlendColor      // Hue and saturation of S, luminance of D
	BlendLuminosity // Luminance of S, hue and saturation of D
)

// Occludes reports whether an opaque tile drawn with this mode fully
// replaces what lies beneath it. Only such tiles may write the occlusion
// buffer: modes that mix in the destination must see everything under
// them.
func (m BlendMode) Occludes() bool {
	return m == BlendSourceOver || m == BlendSource
}

// PaintKind discriminates the color source of a Paint.
type PaintKind uint8

const (
	// PaintSolid is a single premultiplied color.
	PaintSolid PaintKind = iota
	// PaintLinearGradient interpolates stops along a line.
	PaintLinearGradient
	// PaintRadialGradient interpolates stops between two circles.
	PaintRadialGradient
)

// ExtendMode controls how a gradient continues past its stop range.
type ExtendMode uint8

const (
	// ExtendPad clamps to the edge colors.
	ExtendPad ExtendMode = iota
	// ExtendRepeat tiles the gradient.
	ExtendRepeat
	// ExtendReflect mirrors the gradient on each repetition.
	ExtendReflect
)

// FilterKind selects a post-coverage filter applied while compositing.
type FilterKind uint8

const (
	// FilterNone applies coverage directly.
	FilterNone FilterKind = iota
	// FilterTextGamma applies the 7-tap horizontal gamma correction
	// kernel used for font rendering.
	FilterTextGamma
	// FilterBlur applies a single-axis Gaussian approximation to
	// coverage.
	FilterBlur
)

// GradientStop is one color stop. Offset is in [0, 1]; Color is
// premultiplied RGBA with channels in [0, 1].
type GradientStop struct {
	Offset float32
	Color  [4]float32
}

// Paint is one entry of the run's paint table, referenced by index from
// path metadata and tiles. The meaning of the geometric fields depends
// on Kind:
//
//   - PaintSolid: only Color is used.
//   - PaintLinearGradient: P0 and P1 are the gradient line endpoints.
//   - PaintRadialGradient: P0, R0 are the start circle, P1, R1 the end
//     circle (the two-circle form; concentric circles give the classic
//     center/radius gradient).
//
// Gradient stops must be sorted by offset; the compositor does not sort.
type Paint struct {
	Kind   PaintKind
	Extend ExtendMode
	Filter FilterKind
	// Color is the solid color, premultiplied, channels in [0, 1].
	Color [4]float32
	// P0, P1, R0, R1 are gradient geometry in device pixels.
	P0, P1 Vec2
	R0, R1 float32
	// Stops are the gradient color stops, sorted by offset.
	Stops []GradientStop
	// BlurRadius is the standard deviation for FilterBlur, in pixels.
	BlurRadius float32
}

// IsOpaque reports whether the paint is everywhere fully opaque. Used to
// qualify solid tiles for occlusion writes.
func (p *Paint) IsOpaque() bool {
	switch p.Kind {
	case PaintSolid:
		return p.Color[3] >= 1
	default:
		for _, s := range p.Stops {
			if s.Color[3] < 1 {
				return false
			}
		}
		return len(p.Stops) > 0
	}
}
