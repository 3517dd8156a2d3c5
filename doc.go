// Package pave provides a parallel tile-based 2D vector rasterizer for Go.
//
// # Overview
//
// pave renders filled vector paths with analytic antialiasing using the
// tiling architecture popularized by GPU vector renderers: curves are
// flattened into short line segments, segments are binned into 16x16
// pixel tiles, interior tiles are resolved by winding-number propagation,
// and edge tiles get per-pixel coverage from a precomputed area lookup
// table. Every stage runs as a data-parallel kernel over a worker pool.
//
// # Quick Start
//
//	import "github.com/gogpu/pave"
//
//	r := pave.New()
//	defer r.Close()
//
//	fb := pave.NewFramebuffer(512, 512)
//
//	var p pave.Path
//	p.MoveTo(100, 100)
//	p.LineTo(400, 150)
//	p.LineTo(250, 420)
//	p.Close()
//
//	sc := pave.NewScene()
//	sc.Fill(&p, pave.NewSolidPaint(pave.RGB(1, 0, 0)), pave.FillOptions{})
//
//	r.Render(context.Background(), sc, fb)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Renderer, Scene, Path, Paint, Framebuffer
//   - gpudata: GPU-layout records shared by all kernels
//   - Internal: dice (flattening), bin (tiling), tiles (winding and
//     clipping), fill (coverage), blend (compositing math), composite
//     (final raster), parallel (worker pool)
//   - export: image conversion and PNG/BMP encoding
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
//
// # Determinism
//
// Output is a pure function of the scene: rendering the same scene twice,
// with any worker count, produces byte-identical pixels. Coverage is
// accumulated in quantized integer units so that the order in which
// workers contribute never changes the sum.
package pave

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
