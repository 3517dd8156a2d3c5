// Package composite resolves sorted tile lists into framebuffer pixels.
//
// The compositor is the last pipeline stage. Each screen tile walks its
// draw list front to back in submission order, skipping everything
// occluded by the topmost solid opaque tile, and blends every surviving
// tile's paint through its coverage into a local pixel block before the
// block is stored.
package composite

import (
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pave/gpudata"
	"github.com/gogpu/pave/internal/blend"
	"github.com/gogpu/pave/internal/fill"
)

// Compositor carries the shared state of the composite dispatch.
type Compositor struct {
	Meta   []gpudata.PathMetadata
	Tiles  []gpudata.Tile
	Masks  []int32
	Paints []gpudata.Paint
	Heads  []atomic.Int32
	Z      []atomic.Int32

	// ClipCount converts global path indices to draw submission order.
	ClipCount int32

	// ScreenTiles is the framebuffer tile grid, anchored at the origin.
	ScreenTiles gpudata.RectI

	// Pixels is the premultiplied RGBA8 framebuffer.
	Pixels        []uint8
	Width, Height int

	// Load selects whether tiles start from the clear color or from
	// the framebuffer's previous contents.
	Load  gputypes.LoadOp
	Clear gputypes.Color
}

// Composite is the kernel body over screen tiles [start, end).
func (c *Compositor) Composite(start, end int) {
	var buf [gpudata.TileTexels]blend.RGBA
	for st := start; st < end; st++ {
		c.tile(int32(st), &buf)
	}
}

func (c *Compositor) tile(st int32, buf *[gpudata.TileTexels]blend.RGBA) {
	w := c.ScreenTiles.Width()
	px0 := int(st%w) * gpudata.TileWidth
	py0 := int(st/w) * gpudata.TileHeight

	c.loadBlock(buf, px0, py0)

	zMin := c.Z[st].Load()
	id := c.Heads[st].Load()
	for n := 0; id != gpudata.None && n < gpudata.MaxListIterations; n++ {
		tile := &c.Tiles[id]
		if tile.Path-c.ClipCount >= zMin {
			c.draw(buf, tile, px0, py0)
		}
		id = tile.NextTile.Load()
	}

	c.storeBlock(buf, px0, py0)
}

// loadBlock initializes the block from the load op.
func (c *Compositor) loadBlock(buf *[gpudata.TileTexels]blend.RGBA, px0, py0 int) {
	if c.Load == gputypes.LoadOpLoad {
		for py := 0; py < gpudata.TileHeight; py++ {
			gy := py0 + py
			for px := 0; px < gpudata.TileWidth; px++ {
				gx := px0 + px
				if gx >= c.Width || gy >= c.Height {
					buf[py*gpudata.TileWidth+px] = blend.RGBA{}
					continue
				}
				o := (gy*c.Width + gx) * 4
				buf[py*gpudata.TileWidth+px] = blend.RGBA{
					float32(c.Pixels[o]) / 255,
					float32(c.Pixels[o+1]) / 255,
					float32(c.Pixels[o+2]) / 255,
					float32(c.Pixels[o+3]) / 255,
				}
			}
		}
		return
	}
	a := float32(c.Clear.A)
	clear := blend.RGBA{float32(c.Clear.R) * a, float32(c.Clear.G) * a, float32(c.Clear.B) * a, a}
	for i := range buf {
		buf[i] = clear
	}
}

// draw blends one tile into the block.
func (c *Compositor) draw(buf *[gpudata.TileTexels]blend.RGBA, tile *gpudata.Tile, px0, py0 int) {
	meta := &c.Meta[tile.Path]
	paint := &c.Paints[tile.Paint]

	alpha := tile.AlphaTile.Load()
	if int(alpha) >= len(c.Masks)/gpudata.TileTexels {
		alpha = gpudata.None
	}
	var mask []int32
	if alpha != gpudata.None {
		mask = c.Masks[alpha*gpudata.TileTexels : (alpha+1)*gpudata.TileTexels]
	}
	backdrop := float32(tile.Backdrop)
	skipEmpty := blend.TransparentIdentity(meta.Blend)

	var cov [gpudata.TileWidth]float32
	for py := 0; py < gpudata.TileHeight; py++ {
		for px := 0; px < gpudata.TileWidth; px++ {
			w := backdrop
			if mask != nil {
				w += float32(mask[py*gpudata.TileWidth+px]) / gpudata.CoverageOne
			}
			cov[px] = fill.Coverage(w, tile.Ctrl)
		}
		switch paint.Filter {
		case gpudata.FilterTextGamma:
			filterTextGamma(&cov)
		case gpudata.FilterBlur:
			filterBlur(&cov, paint.BlurRadius)
		}

		for px := 0; px < gpudata.TileWidth; px++ {
			cv := cov[px]
			if cv == 0 && skipEmpty {
				continue
			}
			x := float32(px0+px) + 0.5
			y := float32(py0+py) + 0.5
			src := evalPaint(paint, x, y)
			for i := range src {
				src[i] *= cv
			}
			i := py*gpudata.TileWidth + px
			buf[i] = blend.Apply(meta.Blend, src, buf[i])
		}
	}
}

// storeBlock writes the block back, clipping partial edge tiles.
func (c *Compositor) storeBlock(buf *[gpudata.TileTexels]blend.RGBA, px0, py0 int) {
	for py := 0; py < gpudata.TileHeight; py++ {
		gy := py0 + py
		if gy >= c.Height {
			return
		}
		for px := 0; px < gpudata.TileWidth; px++ {
			gx := px0 + px
			if gx >= c.Width {
				break
			}
			p := buf[py*gpudata.TileWidth+px]
			o := (gy*c.Width + gx) * 4
			c.Pixels[o] = quantize(p[0])
			c.Pixels[o+1] = quantize(p[1])
			c.Pixels[o+2] = quantize(p[2])
			c.Pixels[o+3] = quantize(p[3])
		}
	}
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math32.Round(v * 255))
}
