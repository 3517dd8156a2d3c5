package fill

import "github.com/chewxy/math32"

// The area lookup table answers: a line segment crosses a pixel's
// horizontal window at mean height y (relative to the pixel center)
// with vertical extent dy; how much of the pixel column below the
// segment is covered?
//
// Both axes step in 1/16 pixel. y covers [-half, half) pixels so a
// segment anywhere in the tile maps in range; dy covers [0, size).
// The step puts every half-integer height on a grid node, which keeps
// pixel-aligned edges exact; elsewhere bilinear sampling interpolates
// the closed-form integral.
const (
	lutSize = 256
	lutStep = 1.0 / 16
	lutHalf = float32(lutSize) * lutStep / 2 // 8 pixels
)

var areaLUT = buildAreaLUT()

// integPixelArea is the running integral from -lutHalf of the pixel
// column coverage clamp(0.5 - h, 0, 1), with h measured from the pixel
// center. It averages coverage over a segment's vertical extent.
func integPixelArea(h float32) float32 {
	switch {
	case h <= -0.5:
		return h + lutHalf
	case h >= 0.5:
		return lutHalf
	default:
		// Adds the triangle area between -0.5 and h.
		return (lutHalf - 0.5) + 0.5*(h+0.5) - 0.5*(h*h-0.25)
	}
}

// areaExact returns the mean coverage for mean height y and vertical
// extent dy.
func areaExact(y, dy float32) float32 {
	if dy < 1e-6 {
		h := 0.5 - y
		if h < 0 {
			return 0
		}
		if h > 1 {
			return 1
		}
		return h
	}
	lo := y - dy/2
	hi := y + dy/2
	return (integPixelArea(hi) - integPixelArea(lo)) / dy
}

func buildAreaLUT() *[lutSize * lutSize]float32 {
	lut := new([lutSize * lutSize]float32)
	for iy := 0; iy < lutSize; iy++ {
		y := float32(iy)*lutStep - lutHalf
		for id := 0; id < lutSize; id++ {
			dy := float32(id) * lutStep
			lut[iy*lutSize+id] = areaExact(y, dy)
		}
	}
	return lut
}

// sampleArea bilinearly samples the LUT at mean height y and vertical
// extent dy.
func sampleArea(y, dy float32) float32 {
	fy := (y + lutHalf) / lutStep
	fd := dy / lutStep

	fy = math32.Max(0, math32.Min(lutSize-1, fy))
	fd = math32.Max(0, math32.Min(lutSize-1, fd))

	y0 := int(fy)
	d0 := int(fd)
	y1, d1 := y0+1, d0+1
	if y1 > lutSize-1 {
		y1 = lutSize - 1
	}
	if d1 > lutSize-1 {
		d1 = lutSize - 1
	}
	ty := fy - float32(y0)
	td := fd - float32(d0)

	a00 := areaLUT[y0*lutSize+d0]
	a01 := areaLUT[y0*lutSize+d1]
	a10 := areaLUT[y1*lutSize+d0]
	a11 := areaLUT[y1*lutSize+d1]

	top := a00 + (a01-a00)*td
	bot := a10 + (a11-a10)*td
	return top + (bot-top)*ty
}
