package gpudata

import "github.com/chewxy/math32"

// Transform is a 2D affine transformation in row-major 2x3 form:
//
//	| A  B  C |
//	| D  E  F |
//
// representing x' = A*x + B*y + C, y' = D*x + E*y + F. Paths are
// transformed during dicing, so the rest of the pipeline works purely
// in device space.
type Transform struct {
	A, B, C float32
	D, E, F float32
}

// Identity returns the identity transformation.
func Identity() Transform {
	return Transform{A: 1, E: 1}
}

// Translation returns a translation by (x, y).
func Translation(x, y float32) Transform {
	return Transform{A: 1, C: x, E: 1, F: y}
}

// Scaling returns a scale by (x, y) about the origin.
func Scaling(x, y float32) Transform {
	return Transform{A: x, E: y}
}

// Rotation returns a rotation by angle radians about the origin.
func Rotation(angle float32) Transform {
	sin, cos := math32.Sincos(angle)
	return Transform{A: cos, B: -sin, D: sin, E: cos}
}

// Mul returns the composition t * other (other applied first).
func (t Transform) Mul(other Transform) Transform {
	return Transform{
		A: t.A*other.A + t.B*other.D,
		B: t.A*other.B + t.B*other.E,
		C: t.A*other.C + t.B*other.F + t.C,
		D: t.D*other.A + t.E*other.D,
		E: t.D*other.B + t.E*other.E,
		F: t.D*other.C + t.E*other.F + t.F,
	}
}

// Apply transforms a point.
func (t Transform) Apply(p Vec2) Vec2 {
	return Vec2{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}
