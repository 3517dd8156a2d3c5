package composite

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/pave/gpudata"
)

// Coverage filters run on one tile row at a time, before the paint is
// applied. Taps that fall off the tile clamp to the edge texels.

// textGammaWeights is the 7-tap horizontal correction kernel used for
// subpixel-quality text coverage.
var textGammaWeights = [7]float32{0.0311, 0.0785, 0.1565, 0.4678, 0.1565, 0.0785, 0.0311}

// filterTextGamma convolves the row with the text kernel.
func filterTextGamma(row *[gpudata.TileWidth]float32) {
	var src [gpudata.TileWidth]float32
	src = *row
	for x := 0; x < gpudata.TileWidth; x++ {
		var acc float32
		for k := -3; k <= 3; k++ {
			i := x + k
			if i < 0 {
				i = 0
			} else if i > gpudata.TileWidth-1 {
				i = gpudata.TileWidth - 1
			}
			acc += src[i] * textGammaWeights[k+3]
		}
		row[x] = acc
	}
}

// filterBlur applies a single-axis Gaussian of the given standard
// deviation, truncated at three sigma.
func filterBlur(row *[gpudata.TileWidth]float32, sigma float32) {
	if sigma <= 0 {
		return
	}
	radius := int(math32.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	if radius > gpudata.TileWidth {
		radius = gpudata.TileWidth
	}

	var weights [2*gpudata.TileWidth + 1]float32
	var sum float32
	inv := 1 / (2 * sigma * sigma)
	for k := -radius; k <= radius; k++ {
		w := math32.Exp(-float32(k*k) * inv)
		weights[k+radius] = w
		sum += w
	}

	var src [gpudata.TileWidth]float32
	src = *row
	for x := 0; x < gpudata.TileWidth; x++ {
		var acc float32
		for k := -radius; k <= radius; k++ {
			i := x + k
			if i < 0 {
				i = 0
			} else if i > gpudata.TileWidth-1 {
				i = gpudata.TileWidth - 1
			}
			acc += src[i] * weights[k+radius]
		}
		row[x] = acc / sum
	}
}
