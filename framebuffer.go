package pave

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// Framebuffer is the render target: a rectangular pixel buffer holding
// premultiplied RGBA, 4 bytes per pixel, rows top to bottom.
type Framebuffer struct {
	width  int
	height int
	data   []uint8
}

// NewFramebuffer creates a framebuffer with the given dimensions. All
// pixels start transparent.
func NewFramebuffer(width, height int) *Framebuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Framebuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the framebuffer.
func (f *Framebuffer) Width() int {
	return f.width
}

// Height returns the height of the framebuffer.
func (f *Framebuffer) Height() int {
	return f.height
}

// Data returns the raw pixel data (premultiplied RGBA).
func (f *Framebuffer) Data() []uint8 {
	return f.data
}

// Format returns the pixel format (RGBA8).
func (f *Framebuffer) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Extent returns the framebuffer size as a texture extent.
func (f *Framebuffer) Extent() gputypes.Extent3D {
	return gputypes.Extent3D{
		Width:              uint32(f.width),
		Height:             uint32(f.height),
		DepthOrArrayLayers: 1,
	}
}

// SetPixel sets the color of a single pixel.
func (f *Framebuffer) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	p := c.premul4()
	i := (y*f.width + x) * 4
	f.data[i+0] = uint8(clamp255(p[0] * 255))
	f.data[i+1] = uint8(clamp255(p[1] * 255))
	f.data[i+2] = uint8(clamp255(p[2] * 255))
	f.data[i+3] = uint8(clamp255(p[3] * 255))
}

// GetPixel returns the straight color of a single pixel.
func (f *Framebuffer) GetPixel(x, y int) RGBA {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return Transparent
	}
	i := (y*f.width + x) * 4
	a := float32(f.data[i+3]) / 255
	if a == 0 {
		return Transparent
	}
	return RGBA{
		R: float32(f.data[i+0]) / 255 / a,
		G: float32(f.data[i+1]) / 255 / a,
		B: float32(f.data[i+2]) / 255 / a,
		A: a,
	}
}

// Clear fills the entire framebuffer with a color.
func (f *Framebuffer) Clear(c RGBA) {
	p := c.premul4()
	r := uint8(clamp255(p[0] * 255))
	g := uint8(clamp255(p[1] * 255))
	b := uint8(clamp255(p[2] * 255))
	a := uint8(clamp255(p[3] * 255))

	for i := 0; i < len(f.data); i += 4 {
		f.data[i+0] = r
		f.data[i+1] = g
		f.data[i+2] = b
		f.data[i+3] = a
	}
}

// At implements the image.Image interface.
func (f *Framebuffer) At(x, y int) color.Color {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return color.RGBA{}
	}
	i := (y*f.width + x) * 4
	return color.RGBA{
		R: f.data[i+0],
		G: f.data[i+1],
		B: f.data[i+2],
		A: f.data[i+3],
	}
}

// Bounds implements the image.Image interface.
func (f *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// ColorModel implements the image.Image interface.
func (f *Framebuffer) ColorModel() color.Model {
	return color.RGBAModel
}
