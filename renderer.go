package pave

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"github.com/gogpu/pave/gpudata"
	"github.com/gogpu/pave/internal/bin"
	"github.com/gogpu/pave/internal/composite"
	"github.com/gogpu/pave/internal/dice"
	"github.com/gogpu/pave/internal/fill"
	"github.com/gogpu/pave/internal/parallel"
	"github.com/gogpu/pave/internal/tiles"
)

// ErrClosed is returned by Render after Close.
var ErrClosed = errors.New("pave: renderer is closed")

// Renderer rasterizes scenes into framebuffers. It owns a worker pool
// and fixed-size geometry arenas, both reused across frames; create one
// Renderer and render many frames with it.
//
// A Renderer is not safe for concurrent Render calls.
type Renderer struct {
	opts   rendererOptions
	pool   *parallel.Pool
	closed bool

	// Per-frame tables, reused and resized between frames.
	meta       []gpudata.PathMetadata
	clipXf     []gpudata.Transform
	drawXf     []gpudata.Transform
	tilePrefix []int32
	colPrefix  []int32
	tiles      []gpudata.Tile
	columns    []gpudata.BackdropColumn
	heads      []atomic.Int32
	z          []atomic.Int32

	// Fixed arenas sized by Capacities.
	microlines []gpudata.Microline
	fills      []gpudata.Fill
	alphaTiles []int32
	masks      []int32
	jobs       []gpudata.ClipJob

	counters gpudata.Counters
}

// New creates a renderer.
func New(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Renderer{
		opts:       o,
		pool:       parallel.NewPool(o.workers),
		microlines: make([]gpudata.Microline, o.caps.Microlines),
		fills:      make([]gpudata.Fill, o.caps.Fills),
		alphaTiles: make([]int32, o.caps.MaskTiles),
		masks:      make([]int32, o.caps.MaskTiles*gpudata.TileTexels),
		jobs:       make([]gpudata.ClipJob, o.caps.ClipJobs),
	}
	Logger().Debug("renderer created",
		"workers", r.pool.Workers(),
		"microlines", o.caps.Microlines,
		"fills", o.caps.Fills,
		"maskTiles", o.caps.MaskTiles,
		"clipJobs", o.caps.ClipJobs)
	return r
}

// Close releases the worker pool. The renderer cannot be used after.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.pool.Close()
}

// Render rasterizes scene into fb. The scene must not be mutated until
// Render returns. The context is checked between pipeline stages; on
// cancellation the framebuffer contents are undefined.
//
// Rendering is deterministic: the same scene and options produce
// byte-identical pixels regardless of worker count or scheduling.
func (r *Renderer) Render(ctx context.Context, scene *Scene, fb *Framebuffer) (FrameStats, error) {
	var stats FrameStats
	if r.closed {
		return stats, ErrClosed
	}

	screenTiles := gpudata.RectI{
		MinX: 0, MinY: 0,
		MaxX: int32(tileCeil(fb.width)),
		MaxY: int32(tileCeil(fb.height)),
	}
	nScreen := int(screenTiles.Area())

	clipCount := len(scene.clips)
	stats.Paths = clipCount + len(scene.draws)

	totalTiles, totalCols, clipCols := r.buildPathTable(scene, screenTiles)
	r.counters.Reset()

	// Stage 1: reset tile, column, mask, and screen tables.
	builder := tiles.Builder{
		Meta:       r.meta,
		TilePrefix: r.tilePrefix,
		ColPrefix:  r.colPrefix,
		Tiles:      r.tiles,
		Columns:    r.columns,
		AlphaTiles: r.alphaTiles,
	}
	r.pool.Dispatch(totalTiles, builder.BuildTiles)
	r.pool.Dispatch(totalCols, builder.BuildColumns)
	r.pool.Dispatch(len(r.alphaTiles), builder.ResetAlpha)
	r.resizeScreen(nScreen)
	r.pool.Dispatch(nScreen, r.resetScreen)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	// Stage 2: flatten curves to microlines. Clip and draw paths carry
	// separate geometry pools; PathBase rebases them into the unified
	// path table.
	clipDicer := dice.Dicer{
		Points:     scene.clipPoints,
		Segments:   scene.clipSegs,
		Transforms: r.clipXf,
		PathBase:   0,
		Tolerance:  r.opts.tolerance,
		Out:        r.microlines,
		Count:      &r.counters.Microlines,
	}
	r.pool.Dispatch(len(scene.clipSegs), clipDicer.Dice)
	drawDicer := dice.Dicer{
		Points:     scene.drawPoints,
		Segments:   scene.drawSegs,
		Transforms: r.drawXf,
		PathBase:   int32(clipCount),
		Tolerance:  r.opts.tolerance,
		Out:        r.microlines,
		Count:      &r.counters.Microlines,
	}
	r.pool.Dispatch(len(scene.drawSegs), drawDicer.Dice)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	// Stage 3: bin microlines into tiles.
	nMicro, _ := clampDemand(r.counters.Microlines.Load(), len(r.microlines))
	binner := bin.Binner{
		Meta:       r.meta,
		Microlines: r.microlines[:nMicro],
		Tiles:      r.tiles,
		Fills:      r.fills,
		Columns:    r.columns,
		AlphaTiles: r.alphaTiles,
		Counters:   &r.counters,
	}
	r.pool.Dispatch(nMicro, binner.Bin)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	// Stages 4 and 5: propagate winding down backdrop columns. Clip
	// paths settle first so the draw pass reads final clip tiles.
	prop := tiles.Propagator{
		Meta:        r.meta,
		Tiles:       r.tiles,
		Columns:     r.columns[:clipCols],
		AlphaTiles:  r.alphaTiles,
		Jobs:        r.jobs,
		Counters:    &r.counters,
		Draw:        false,
		ClipCount:   int32(clipCount),
		ScreenTiles: screenTiles,
		Heads:       r.heads,
		Z:           r.z,
	}
	r.pool.Dispatch(clipCols, prop.Propagate)
	prop.Columns = r.columns[clipCols:totalCols]
	prop.Draw = true
	r.pool.Dispatch(totalCols-clipCols, prop.Propagate)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	// Stage 6: render coverage masks; stage 7: intersect clipped masks.
	nAlpha, _ := clampDemand(r.counters.AlphaTiles.Load(), len(r.alphaTiles))
	filler := fill.Filler{
		Tiles:      r.tiles,
		Fills:      r.fills,
		AlphaTiles: r.alphaTiles,
		Masks:      r.masks,
		Jobs:       r.jobs,
	}
	r.pool.Dispatch(nAlpha, filler.Fill)
	nJobs, _ := clampDemand(r.counters.ClipJobs.Load(), len(r.jobs))
	r.pool.Dispatch(nJobs, filler.Combine)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	// Stage 8: restore submission order in the per-screen-tile lists.
	sorter := tiles.Sorter{Tiles: r.tiles, Heads: r.heads}
	r.pool.Dispatch(nScreen, sorter.Sort)

	// Stage 9: blend every screen tile into the framebuffer.
	comp := composite.Compositor{
		Meta:        r.meta,
		Tiles:       r.tiles,
		Masks:       r.masks,
		Paints:      scene.paints,
		Heads:       r.heads,
		Z:           r.z,
		ClipCount:   int32(clipCount),
		ScreenTiles: screenTiles,
		Pixels:      fb.data,
		Width:       fb.width,
		Height:      fb.height,
		Load:        r.opts.loadOp,
		Clear:       r.opts.clear,
	}
	r.pool.Dispatch(nScreen, comp.Composite)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	stats.Microlines, stats.MicrolinesDropped = clampDemand(r.counters.Microlines.Load(), len(r.microlines))
	stats.Fills, stats.FillsDropped = clampDemand(r.counters.Fills.Load(), len(r.fills))
	stats.MaskTiles, stats.MaskTilesDropped = clampDemand(r.counters.AlphaTiles.Load(), len(r.alphaTiles))
	stats.ClipJobs, stats.ClipJobsDropped = clampDemand(r.counters.ClipJobs.Load(), len(r.jobs))
	if stats.Truncated() {
		Logger().Warn("frame truncated by arena capacity",
			"microlinesDropped", stats.MicrolinesDropped,
			"fillsDropped", stats.FillsDropped,
			"maskTilesDropped", stats.MaskTilesDropped,
			"clipJobsDropped", stats.ClipJobsDropped)
	}
	return stats, nil
}

// buildPathTable lays out the unified path table, clip paths first, and
// sizes the tile and column arrays. Returns the totals and the number
// of clip columns heading the column array.
func (r *Renderer) buildPathTable(scene *Scene, screenTiles gpudata.RectI) (totalTiles, totalCols, clipCols int) {
	n := len(scene.clips) + len(scene.draws)
	r.meta = growSlice(r.meta, n)
	r.tilePrefix = growSlice(r.tilePrefix, n)
	r.colPrefix = growSlice(r.colPrefix, n)
	r.clipXf = growSlice(r.clipXf, len(scene.clips))
	r.drawXf = growSlice(r.drawXf, len(scene.draws))

	var tileSum, colSum int32
	for i := 0; i < n; i++ {
		var rec *pathRecord
		var clip int32 = gpudata.None
		if i < len(scene.clips) {
			rec = &scene.clips[i]
			r.clipXf[i] = rec.transform
		} else {
			rec = &scene.draws[i-len(scene.clips)]
			r.drawXf[i-len(scene.clips)] = rec.transform
			clip = rec.clip
		}

		rect := tileRectOf(rec, screenTiles)
		r.meta[i] = gpudata.PathMetadata{
			TileRect:       rect,
			TileOffset:     tileSum,
			BackdropOffset: colSum,
			FirstSegment:   rec.firstSeg,
			SegmentCount:   rec.segCount,
			Clip:           clip,
			ZWrite:         rec.zWrite,
			Paint:          rec.paint,
			Ctrl:           rec.rule.Ctrl(),
			Blend:          rec.blend,
		}
		tileSum += rect.Area()
		colSum += rect.Width()
		r.tilePrefix[i] = tileSum
		r.colPrefix[i] = colSum
		if i == len(scene.clips)-1 {
			clipCols = int(colSum)
		}
	}

	r.tiles = growSlice(r.tiles, int(tileSum))
	r.columns = growSlice(r.columns, int(colSum))
	return int(tileSum), int(colSum), clipCols
}

// resizeScreen sizes the per-screen-tile lists.
func (r *Renderer) resizeScreen(n int) {
	if cap(r.heads) < n {
		r.heads = make([]atomic.Int32, n)
		r.z = make([]atomic.Int32, n)
	}
	r.heads = r.heads[:n]
	r.z = r.z[:n]
}

// resetScreen is the kernel body clearing screen tiles [start, end).
func (r *Renderer) resetScreen(start, end int) {
	for i := start; i < end; i++ {
		r.heads[i].Store(gpudata.None)
		r.z[i].Store(-1)
	}
}

// tileRectOf converts a record's device bounds to tile coordinates,
// clipped to the framebuffer grid. Every winding crossing in a culled
// column is irrelevant to the surviving columns, so clipping here is
// lossless.
func tileRectOf(rec *pathRecord, screen gpudata.RectI) gpudata.RectI {
	if rec.empty {
		return gpudata.RectI{}
	}
	rect := gpudata.RectI{
		MinX: floorTile(rec.minPt.X),
		MinY: floorTile(rec.minPt.Y),
		MaxX: floorTile(rec.maxPt.X) + 1,
		MaxY: floorTile(rec.maxPt.Y) + 1,
	}
	rect.MinX = maxi32(rect.MinX, screen.MinX)
	rect.MinY = maxi32(rect.MinY, screen.MinY)
	rect.MaxX = mini32(rect.MaxX, screen.MaxX)
	rect.MaxY = mini32(rect.MaxY, screen.MaxY)
	if rect.MinX >= rect.MaxX || rect.MinY >= rect.MaxY {
		return gpudata.RectI{}
	}
	return rect
}

func floorTile(v float32) int32 {
	return int32(math.Floor(float64(v) / gpudata.TileWidth))
}

func tileCeil(px int) int {
	return (px + gpudata.TileWidth - 1) / gpudata.TileWidth
}

// growSlice resizes a reusable buffer, reallocating only on growth.
func growSlice[T any](buf []T, n int) []T {
	if cap(buf) < n {
		return make([]T, n)
	}
	return buf[:n]
}

func maxi32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func mini32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
