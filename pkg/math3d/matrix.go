package math3d

import "math"

// Matrix is a 4x4 matrix indexed [row][col].
//
// Vectors are row vectors multiplied on the left (v · M), so for an affine
// transform the basis vectors are rows 0-2 and the translation is row 3:
//
//	| Xx Xy Xz 0 |
//	| Yx Yy Yz 0 |
//	| Zx Zy Zz 0 |
//	| Tx Ty Tz 1 |
type Matrix [4][4]float32

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Zero returns the all-zero matrix.
func Zero() Matrix {
	return Matrix{}
}

// Translate creates a translation matrix.
func Translate(x, y, z float32) Matrix {
	m := Identity()
	m[3][0] = x
	m[3][1] = y
	m[3][2] = z
	return m
}

// Scale creates a scaling matrix.
func Scale(x, y, z float32) Matrix {
	m := Identity()
	m[0][0] = x
	m[1][1] = y
	m[2][2] = z
	return m
}

// Rotate creates a rotation of theta radians around the axis (x, y, z).
//
// The axis goes through Vector.Normalize, so an axis shorter than
// NormalizeEpsilon is used unnormalized. The quaternion then has a
// near-zero vector part and the result is close to identity whatever theta is.
func Rotate(x, y, z, theta float32) Matrix {
	qsin := float32(math.Sin(float64(theta * 0.5)))
	qcos := float32(math.Cos(float64(theta * 0.5)))

	axis := Vector{x, y, z, 1}
	axis.Normalize()
	return FromQuaternion(axis.X*qsin, axis.Y*qsin, axis.Z*qsin, qcos)
}

// LookAt creates a view matrix for a camera at eye looking towards at.
// The camera looks down +Z in view space.
//
// up must not be parallel to at - eye: the right axis then has no length
// and is passed on unnormalized.
func LookAt(eye, at, up Vector) Matrix {
	z := at.Sub(eye)
	z.Normalize()
	x := up.Cross(z)
	x.Normalize()
	y := z.Cross(x)

	return Matrix{
		{x.X, y.X, z.X, 0},
		{x.Y, y.Y, z.Y, 0},
		{x.Z, y.Z, z.Z, 0},
		{-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1},
	}
}

// Perspective creates a projection matrix.
// fovy is the vertical field of view in radians, aspect is width/height.
// After the divide by W, depth runs from 0 at near to 1 at far.
// near == far produces Inf/NaN entries.
func Perspective(fovy, aspect, near, far float32) Matrix {
	fax := 1 / float32(math.Tan(float64(fovy*0.5)))

	var m Matrix
	m[0][0] = fax / aspect
	m[1][1] = fax
	m[2][2] = far / (far - near)
	m[3][2] = -near * far / (far - near)
	m[2][3] = 1
	return m
}

// Add returns the elementwise sum a + b.
func (a Matrix) Add(b Matrix) Matrix {
	var m Matrix
	for i := range 4 {
		for j := range 4 {
			m[i][j] = a[i][j] + b[i][j]
		}
	}
	return m
}

// Sub returns the elementwise difference a - b.
func (a Matrix) Sub(b Matrix) Matrix {
	var m Matrix
	for i := range 4 {
		for j := range 4 {
			m[i][j] = a[i][j] - b[i][j]
		}
	}
	return m
}

// Scale returns every element of a multiplied by f.
func (a Matrix) Scale(f float32) Matrix {
	var m Matrix
	for i := range 4 {
		for j := range 4 {
			m[i][j] = a[i][j] * f
		}
	}
	return m
}

// Mul returns the matrix product a · b.
// With row vectors, v · (a · b) applies a first, then b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Matrix) Mul(b Matrix) Matrix {
	var m Matrix
	for i := range 4 {
		for j := range 4 {
			m[i][j] = a[i][0]*b[0][j] +
				a[i][1]*b[1][j] +
				a[i][2]*b[2][j] +
				a[i][3]*b[3][j]
		}
	}
	return m
}

// Apply transforms v by m as a row vector: result[col] = Σ v[row]·m[row][col].
// No perspective divide is performed.
func (m Matrix) Apply(v Vector) Vector {
	return Vector{
		v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0] + v.W*m[3][0],
		v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1] + v.W*m[3][1],
		v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2] + v.W*m[3][2],
		v.X*m[0][3] + v.Y*m[1][3] + v.Z*m[2][3] + v.W*m[3][3],
	}
}

// Transpose returns the transposed matrix.
func (a Matrix) Transpose() Matrix {
	var m Matrix
	for i := range 4 {
		for j := range 4 {
			m[i][j] = a[j][i]
		}
	}
	return m
}

// FromColumnMajor builds a Matrix from 16 column-vector-convention values
// (the layout glTF and OpenGL use). The column-vector matrix is the
// transpose of the row-vector one, so the slice maps straight onto rows.
func FromColumnMajor(s []float64) Matrix {
	var m Matrix
	for i := range 4 {
		for j := range 4 {
			m[i][j] = float32(s[i*4+j])
		}
	}
	return m
}

// FromQuaternion creates a rotation matrix from a unit quaternion (x, y, z, w).
func FromQuaternion(x, y, z, w float32) Matrix {
	return Matrix{
		{1 - 2*y*y - 2*z*z, 2*x*y + 2*w*z, 2*x*z - 2*w*y, 0},
		{2*x*y - 2*w*z, 1 - 2*x*x - 2*z*z, 2*y*z + 2*w*x, 0},
		{2*x*z + 2*w*y, 2*y*z - 2*w*x, 1 - 2*x*x - 2*y*y, 0},
		{0, 0, 0, 1},
	}
}
