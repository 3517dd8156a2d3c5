package export

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gogpu/pave"
)

func testFramebuffer() *pave.Framebuffer {
	fb := pave.NewFramebuffer(8, 8)
	fb.Clear(pave.RGBA{R: 0, G: 0, B: 1, A: 1})
	fb.SetPixel(2, 3, pave.RGBA{R: 1, G: 0, B: 0, A: 0.5})
	return fb
}

func TestImageIsPremultipliedCopy(t *testing.T) {
	fb := testFramebuffer()
	img := Image(fb)

	if !bytes.Equal(img.Pix, fb.Data()) {
		t.Fatal("Image should copy the framebuffer bytes verbatim")
	}
	// Mutation independence.
	img.Pix[0] = 0
	if fb.Data()[0] == 0 {
		t.Fatal("Image shares storage with the framebuffer")
	}
}

func TestNRGBAImageUnpremultiplies(t *testing.T) {
	fb := testFramebuffer()
	img := NRGBAImage(fb)

	i := img.PixOffset(2, 3)
	r, a := img.Pix[i], img.Pix[i+3]
	if a < 127 || a > 128 {
		t.Fatalf("alpha = %d, want ~128", a)
	}
	// Un-premultiplying restores full red.
	if r != 255 {
		t.Errorf("red = %d, want 255", r)
	}

	// Opaque pixels pass through.
	j := img.PixOffset(0, 0)
	if img.Pix[j+2] != 255 || img.Pix[j+3] != 255 {
		t.Errorf("opaque blue = %v", img.Pix[j:j+4])
	}
}

func TestPNGRoundTrip(t *testing.T) {
	fb := testFramebuffer()
	var buf bytes.Buffer
	if err := PNG(&buf, fb); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("decoded bounds = %v", img.Bounds())
	}
	r, _, _, a := img.At(2, 3).RGBA()
	if a == 0 || r == 0 {
		t.Errorf("pixel (2,3) lost: r=%d a=%d", r, a)
	}
}

func TestBMPRoundTrip(t *testing.T) {
	fb := testFramebuffer()
	var buf bytes.Buffer
	if err := BMP(&buf, fb); err != nil {
		t.Fatal(err)
	}
	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("decoded bounds = %v", img.Bounds())
	}
}

func TestScaled(t *testing.T) {
	fb := testFramebuffer()
	img := Scaled(fb, 16, 16)
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("scaled bounds = %v", img.Bounds())
	}
	// Uniform blue background survives resampling.
	i := img.PixOffset(12, 12)
	if img.Pix[i+2] < 250 || img.Pix[i+3] < 250 {
		t.Errorf("scaled pixel = %v, want blue", img.Pix[i:i+4])
	}
}

func TestSavePNG(t *testing.T) {
	fb := testFramebuffer()
	path := filepath.Join(t.TempDir(), "out.png")
	if err := SavePNG(path, fb); err != nil {
		t.Fatal(err)
	}
	if err := SaveBMP(filepath.Join(t.TempDir(), "out.bmp"), fb); err != nil {
		t.Fatal(err)
	}
}
