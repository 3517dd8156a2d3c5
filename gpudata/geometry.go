package gpudata

// Vec2 is a 2D point or displacement in device pixel space.
// Kernels work in float32 like their GPU counterparts.
type Vec2 struct {
	X, Y float32
}

// V2 is a convenience constructor for Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Lerp returns the linear interpolation between v and w at parameter t.
func (v Vec2) Lerp(w Vec2, t float32) Vec2 {
	return Vec2{X: v.X + (w.X-v.X)*t, Y: v.Y + (w.Y-v.Y)*t}
}

// LengthSq returns the squared length of the vector.
func (v Vec2) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y
}

// RectI is a half-open integer rectangle [MinX, MaxX) x [MinY, MaxY),
// used for tile-space bounds.
type RectI struct {
	MinX, MinY, MaxX, MaxY int32
}

// Width returns the rectangle width; zero or negative means empty.
func (r RectI) Width() int32 { return r.MaxX - r.MinX }

// Height returns the rectangle height; zero or negative means empty.
func (r RectI) Height() int32 { return r.MaxY - r.MinY }

// Area returns Width*Height, or 0 for an empty rectangle.
func (r RectI) Area() int32 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Contains reports whether the tile coordinate (x, y) lies inside r.
func (r RectI) Contains(x, y int32) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

// IndexOf returns the row-major index of tile (x, y) within r.
// The coordinate must be inside r.
func (r RectI) IndexOf(x, y int32) int32 {
	return (y-r.MinY)*r.Width() + (x - r.MinX)
}

// SearchPrefix locates the bucket owning flat index i given an inclusive
// prefix-sum table: prefix[k] is the total count of elements in buckets
// 0..k. It returns the smallest k with i < prefix[k].
//
// This is the standard GPU trick for mapping a flat dispatch index to a
// (path, local element) pair.
func SearchPrefix(prefix []int32, i int32) int32 {
	lo, hi := 0, len(prefix)
	for lo < hi {
		mid := (lo + hi) / 2
		if i < prefix[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return int32(lo)
}
