// Package export converts rendered framebuffers into standard Go images
// and common file formats.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/pave"
)

// Image copies a framebuffer into an image.RGBA. The framebuffer's
// premultiplied byte layout matches image.RGBA, so this is a straight
// copy.
func Image(fb *pave.Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	copy(img.Pix, fb.Data())
	return img
}

// NRGBAImage converts a framebuffer to an image.NRGBA, un-premultiplying
// each pixel.
func NRGBAImage(fb *pave.Framebuffer) *image.NRGBA {
	w, h := fb.Width(), fb.Height()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := fb.Data()
	for i := 0; i+3 < len(src); i += 4 {
		a := src[i+3]
		if a == 0 || a == 255 {
			copy(img.Pix[i:i+4], src[i:i+4])
			continue
		}
		img.Pix[i+0] = unmul(src[i+0], a)
		img.Pix[i+1] = unmul(src[i+1], a)
		img.Pix[i+2] = unmul(src[i+2], a)
		img.Pix[i+3] = a
	}
	return img
}

// unmul divides a premultiplied channel by alpha with rounding.
func unmul(c, a uint8) uint8 {
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// Scaled resamples a framebuffer to the given size with Catmull-Rom
// interpolation.
func Scaled(fb *pave.Framebuffer, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), Image(fb), fb.Bounds(), xdraw.Src, nil)
	return dst
}

// PNG encodes a framebuffer as PNG.
func PNG(w io.Writer, fb *pave.Framebuffer) error {
	if err := png.Encode(w, NRGBAImage(fb)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// BMP encodes a framebuffer as BMP.
func BMP(w io.Writer, fb *pave.Framebuffer) error {
	if err := bmp.Encode(w, Image(fb)); err != nil {
		return fmt.Errorf("encode bmp: %w", err)
	}
	return nil
}

// SavePNG writes a framebuffer to a PNG file.
func SavePNG(path string, fb *pave.Framebuffer) error {
	return save(path, fb, PNG)
}

// SaveBMP writes a framebuffer to a BMP file.
func SaveBMP(path string, fb *pave.Framebuffer) error {
	return save(path, fb, BMP)
}

func save(path string, fb *pave.Framebuffer, encode func(io.Writer, *pave.Framebuffer) error) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := encode(f, fb); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
