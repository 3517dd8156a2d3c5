package pave

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pave/internal/dice"
)

// Option configures a Renderer during creation.
// Use functional options to customize Renderer behavior.
//
// Example:
//
//	// Default configuration
//	r := pave.New()
//
//	// Custom worker count and arena sizes
//	r := pave.New(pave.WithWorkers(4), pave.WithCapacities(pave.Capacities{
//	    Microlines: 1 << 20,
//	}))
type Option func(*rendererOptions)

// Capacities sets fixed arena sizes for the per-frame geometry pools.
// Arenas never grow during a frame: geometry past a capacity is dropped
// and reported in FrameStats. Zero fields keep their defaults.
type Capacities struct {
	// Microlines bounds flattened line segments per frame.
	Microlines int
	// Fills bounds per-tile edge records per frame.
	Fills int
	// MaskTiles bounds 16x16 coverage mask tiles per frame.
	MaskTiles int
	// ClipJobs bounds mask-vs-mask clip intersections per frame.
	ClipJobs int
}

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	workers   int
	caps      Capacities
	tolerance float32
	loadOp    gputypes.LoadOp
	clear     gputypes.Color
}

// defaultOptions returns the default renderer options.
func defaultOptions() rendererOptions {
	return rendererOptions{
		workers: 0, // pool picks GOMAXPROCS
		caps: Capacities{
			Microlines: 1 << 18,
			Fills:      1 << 18,
			MaskTiles:  1 << 14,
			ClipJobs:   1 << 12,
		},
		tolerance: dice.DefaultTolerance,
		loadOp:    gputypes.LoadOpClear,
		clear:     gputypes.Color{},
	}
}

// WithWorkers sets the number of worker goroutines. Values <= 0 use
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// WithCapacities overrides the default arena sizes. Zero fields keep
// their defaults.
func WithCapacities(c Capacities) Option {
	return func(o *rendererOptions) {
		if c.Microlines > 0 {
			o.caps.Microlines = c.Microlines
		}
		if c.Fills > 0 {
			o.caps.Fills = c.Fills
		}
		if c.MaskTiles > 0 {
			o.caps.MaskTiles = c.MaskTiles
		}
		if c.ClipJobs > 0 {
			o.caps.ClipJobs = c.ClipJobs
		}
	}
}

// WithFlattenTolerance sets the curve flattening error bound in device
// pixels. Smaller values produce smoother curves and more microlines.
// Values <= 0 restore the default.
func WithFlattenTolerance(tol float32) Option {
	return func(o *rendererOptions) {
		if tol <= 0 {
			tol = dice.DefaultTolerance
		}
		o.tolerance = tol
	}
}

// WithLoadOp controls how the framebuffer enters a frame:
// [gputypes.LoadOpClear] replaces it with the clear color,
// [gputypes.LoadOpLoad] composites over the existing contents.
func WithLoadOp(op gputypes.LoadOp) Option {
	return func(o *rendererOptions) {
		o.loadOp = op
	}
}

// WithClearColor sets the background color used with
// [gputypes.LoadOpClear].
func WithClearColor(c RGBA) Option {
	return func(o *rendererOptions) {
		o.clear = gputypes.Color{
			R: float64(c.R),
			G: float64(c.G),
			B: float64(c.B),
			A: float64(c.A),
		}
	}
}
