// Package math3d provides the vector and matrix primitives of the renderer's
// world -> view -> projection pipeline.
//
// Vectors are homogeneous (x, y, z, w) and matrices use row-vector
// convention: a point is transformed as v · M, so translation lives in row 3.
package math3d

import "math"

// NormalizeEpsilon is the length below which Normalize leaves a vector as is.
const NormalizeEpsilon = 1e-9

// Vector is a homogeneous 3D vector or point.
// W = 1 marks a point, W = 0 a direction; callers track which is which.
type Vector struct {
	X, Y, Z, W float32
}

// V4 creates a new Vector.
func V4(x, y, z, w float32) Vector {
	return Vector{x, y, z, w}
}

// Point creates a Vector with W = 1.
func Point(x, y, z float32) Vector {
	return Vector{x, y, z, 1}
}

// Direction creates a Vector with W = 0.
func Direction(x, y, z float32) Vector {
	return Vector{x, y, z, 0}
}

// Len returns the Euclidean length of x, y, z. W is ignored.
func (a Vector) Len() float32 {
	return float32(math.Sqrt(float64(a.X*a.X + a.Y*a.Y + a.Z*a.Z)))
}

// Add returns a + b on x, y, z. The result is a point (W = 1).
func (a Vector) Add(b Vector) Vector {
	return Vector{a.X + b.X, a.Y + b.Y, a.Z + b.Z, 1}
}

// Sub returns a - b on x, y, z. The result is a point (W = 1).
func (a Vector) Sub(b Vector) Vector {
	return Vector{a.X - b.X, a.Y - b.Y, a.Z - b.Z, 1}
}

// Dot returns the dot product of x, y, z.
func (a Vector) Dot(b Vector) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b with W = 1.
func (a Vector) Cross(b Vector) Vector {
	return Vector{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
		1,
	}
}

// Lerp interpolates x, y, z from a to b by t with W = 1.
// t is not clamped, so values outside [0, 1] extrapolate.
func (a Vector) Lerp(b Vector, t float32) Vector {
	return Vector{
		Interpolate(a.X, b.X, t),
		Interpolate(a.Y, b.Y, t),
		Interpolate(a.Z, b.Z, t),
		1,
	}
}

// Negate returns the vector with x, y, z negated. W is kept.
func (a Vector) Negate() Vector {
	return Vector{-a.X, -a.Y, -a.Z, a.W}
}

// Normalize scales x, y, z in place to unit length. W is left untouched.
//
// Vectors shorter than NormalizeEpsilon are left unchanged rather than
// blown up or zeroed, so a degenerate axis stays degenerate.
func (a *Vector) Normalize() {
	l := a.Len()
	if math.Abs(float64(l)) < NormalizeEpsilon {
		return
	}
	inv := 1 / l
	a.X *= inv
	a.Y *= inv
	a.Z *= inv
}

// Normalized returns a normalized copy of a.
func (a Vector) Normalized() Vector {
	a.Normalize()
	return a
}

// PerspectiveDivide returns x, y, z divided by W, with W = 1.
// A zero W returns x, y, z unchanged.
func (a Vector) PerspectiveDivide() Vector {
	if a.W == 0 {
		return Vector{a.X, a.Y, a.Z, 1}
	}
	inv := 1 / a.W
	return Vector{a.X * inv, a.Y * inv, a.Z * inv, 1}
}
