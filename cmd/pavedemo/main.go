// Command pavedemo renders a demonstration scene with the pave
// rasterizer and writes it to an image file.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/gogpu/pave"
	"github.com/gogpu/pave/export"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "demo.png", "output file (.png or .bmp)")
		workers = flag.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		pave.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	r := pave.New(
		pave.WithWorkers(*workers),
		pave.WithClearColor(pave.FromColor(colornames.Midnightblue)),
	)
	defer r.Close()

	sc := pave.NewScene()
	drawBackground(sc, *width, *height)
	drawOverlappingCircles(sc)
	drawStar(sc)
	drawClippedGrid(sc)

	fb := pave.NewFramebuffer(*width, *height)
	stats, err := r.Render(context.Background(), sc, fb)
	if err != nil {
		log.Fatalf("render: %v", err)
	}
	if stats.Truncated() {
		log.Printf("warning: frame truncated: %+v", stats)
	}

	save := export.SavePNG
	if strings.HasSuffix(*output, ".bmp") {
		save = export.SaveBMP
	}
	if err := save(*output, fb); err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("demo saved to %s (%dx%d, %d microlines, %d mask tiles)",
		*output, *width, *height, stats.Microlines, stats.MaskTiles)
}

func drawBackground(sc *pave.Scene, w, h int) {
	var p pave.Path
	p.Rect(0, 0, float32(w), float32(h))
	sc.Fill(&p, pave.NewLinearGradient(0, 0, 0, float32(h), []pave.ColorStop{
		{Offset: 0, Color: pave.FromColor(colornames.Midnightblue)},
		{Offset: 1, Color: pave.FromColor(colornames.Steelblue)},
	}, pave.ExtendPad), pave.FillOptions{})
}

func drawOverlappingCircles(sc *pave.Scene) {
	colors := []pave.RGBA{
		{R: 1, G: 0.3, B: 0.3, A: 0.8},
		{R: 0.3, G: 1, B: 0.3, A: 0.8},
		{R: 0.3, G: 0.3, B: 1, A: 0.8},
	}
	centers := [][2]float32{{150, 150}, {210, 150}, {180, 200}}
	for i, c := range colors {
		var p pave.Path
		p.Circle(centers[i][0], centers[i][1], 60)
		sc.Fill(&p, pave.NewSolidPaint(c), pave.FillOptions{Blend: pave.BlendScreen})
	}
}

func drawStar(sc *pave.Scene) {
	const cx, cy, outer, inner = 600, 160, 100, 40
	var p pave.Path
	for i := 0; i < 10; i++ {
		r := float32(outer)
		if i%2 == 1 {
			r = inner
		}
		a := float64(i) * math.Pi / 5
		x := cx + r*float32(math.Sin(a))
		y := cy - r*float32(math.Cos(a))
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()

	paint := pave.NewRadialGradient(cx, cy, 0, cx, cy, outer, []pave.ColorStop{
		{Offset: 0, Color: pave.FromColor(colornames.Gold)},
		{Offset: 1, Color: pave.FromColor(colornames.Orangered)},
	}, pave.ExtendPad)
	sc.Fill(&p, paint, pave.FillOptions{Rule: pave.FillRuleEvenOdd})
}

func drawClippedGrid(sc *pave.Scene) {
	var clip pave.Path
	clip.RoundRect(120, 320, 560, 220, 40)
	id := sc.PushClip(&clip, pave.ClipOptions{})

	for i := 0; i < 12; i++ {
		var p pave.Path
		x := float32(100 + i*52)
		p.Rect(x, 300, 26, 260)
		hue := float32(i) * 30
		sc.Fill(&p, pave.NewSolidPaint(pave.HSL(hue, 0.7, 0.55)), pave.FillOptions{
			Clip:      id,
			Transform: pave.Rotation(0.04 * float32(i-6)),
		})
	}
}
