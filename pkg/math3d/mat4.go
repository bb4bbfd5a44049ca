package math3d

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 matrix stored in row-major order and applied to row
// vectors: v' = v·M. A.Mul(B) applies A first, then B.
//
// Memory layout (indices):
// | 0  1  2  3  |
// | 4  5  6  7  |
// | 8  9  10 11 |
// | 12 13 14 15 |
//
// For an affine transform:
// | Xx Xy Xz 0 |   X,Y,Z = basis vectors (rotation/scale)
// | Yx Yy Yz 0 |   T = translation
// | Zx Zy Zz 0 |
// | Tx Ty Tz 1 |
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Zero returns the zero matrix.
func Zero() Mat4 {
	return Mat4{}
}

// Translate creates a translation matrix.
func Translate(v Vec4) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec4) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[row*4+k] * b[k*4+col]
			}
			m[row*4+col] = sum
		}
	}
	return m
}

// MulVec4 returns v·m without a perspective divide.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		v.X*m[0] + v.Y*m[4] + v.Z*m[8] + v.W*m[12],
		v.X*m[1] + v.Y*m[5] + v.Z*m[9] + v.W*m[13],
		v.X*m[2] + v.Y*m[6] + v.Z*m[10] + v.W*m[14],
		v.X*m[3] + v.Y*m[7] + v.Z*m[11] + v.W*m[15],
	}
}

// TransformPoint transforms p as a point (w=1) and divides x, y and z by the
// resulting w. The returned W keeps that w.
func (m Mat4) TransformPoint(p Vec4) Vec4 {
	w := p.X*m[3] + p.Y*m[7] + p.Z*m[11] + m[15]
	return Vec4{
		(p.X*m[0] + p.Y*m[4] + p.Z*m[8] + m[12]) / w,
		(p.X*m[1] + p.Y*m[5] + p.Z*m[9] + m[13]) / w,
		(p.X*m[2] + p.Y*m[6] + p.Z*m[10] + m[14]) / w,
		w,
	}
}

// TransformDir transforms d as a direction (no translation, W=0).
func (m Mat4) TransformDir(d Vec4) Vec4 {
	return Vec4{
		d.X*m[0] + d.Y*m[4] + d.Z*m[8],
		d.X*m[1] + d.Y*m[5] + d.Z*m[9],
		d.X*m[2] + d.Y*m[6] + d.Z*m[10],
		0,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Invert returns the inverse of m using the closed-form cofactor expansion.
// There is no singularity check: a singular matrix yields Inf/NaN entries.
func (m Mat4) Invert() Mat4 {
	var inv Mat4

	// Pairs for the first eight cofactors (rows 0 and 1 of the result).
	t0 := m[10] * m[15]
	t1 := m[14] * m[11]
	t2 := m[6] * m[15]
	t3 := m[14] * m[7]
	t4 := m[6] * m[11]
	t5 := m[10] * m[7]
	t6 := m[2] * m[15]
	t7 := m[14] * m[3]
	t8 := m[2] * m[11]
	t9 := m[10] * m[3]
	t10 := m[2] * m[7]
	t11 := m[6] * m[3]

	inv[0] = t0*m[5] + t3*m[9] + t4*m[13] - (t1*m[5] + t2*m[9] + t5*m[13])
	inv[1] = t1*m[1] + t6*m[9] + t9*m[13] - (t0*m[1] + t7*m[9] + t8*m[13])
	inv[2] = t2*m[1] + t7*m[5] + t10*m[13] - (t3*m[1] + t6*m[5] + t11*m[13])
	inv[3] = t5*m[1] + t8*m[5] + t11*m[9] - (t4*m[1] + t9*m[5] + t10*m[9])
	inv[4] = t1*m[4] + t2*m[8] + t5*m[12] - (t0*m[4] + t3*m[8] + t4*m[12])
	inv[5] = t0*m[0] + t7*m[8] + t8*m[12] - (t1*m[0] + t6*m[8] + t9*m[12])
	inv[6] = t3*m[0] + t6*m[4] + t11*m[12] - (t2*m[0] + t7*m[4] + t10*m[12])
	inv[7] = t4*m[0] + t9*m[4] + t10*m[8] - (t5*m[0] + t8*m[4] + t11*m[8])

	// Pairs for the last eight cofactors (rows 2 and 3).
	t0 = m[8] * m[13]
	t1 = m[12] * m[9]
	t2 = m[4] * m[13]
	t3 = m[12] * m[5]
	t4 = m[4] * m[9]
	t5 = m[8] * m[5]
	t6 = m[0] * m[13]
	t7 = m[12] * m[1]
	t8 = m[0] * m[9]
	t9 = m[8] * m[1]
	t10 = m[0] * m[5]
	t11 = m[4] * m[1]

	inv[8] = t0*m[7] + t3*m[11] + t4*m[15] - (t1*m[7] + t2*m[11] + t5*m[15])
	inv[9] = t1*m[3] + t6*m[11] + t9*m[15] - (t0*m[3] + t7*m[11] + t8*m[15])
	inv[10] = t2*m[3] + t7*m[7] + t10*m[15] - (t3*m[3] + t6*m[7] + t11*m[15])
	inv[11] = t5*m[3] + t8*m[7] + t11*m[11] - (t4*m[3] + t9*m[7] + t10*m[11])
	inv[12] = t2*m[10] + t5*m[14] + t1*m[6] - (t4*m[14] + t0*m[6] + t3*m[10])
	inv[13] = t8*m[14] + t0*m[2] + t7*m[10] - (t6*m[10] + t9*m[14] + t1*m[2])
	inv[14] = t6*m[6] + t11*m[14] + t3*m[2] - (t10*m[14] + t2*m[2] + t7*m[6])
	inv[15] = t10*m[10] + t4*m[2] + t9*m[6] - (t8*m[6] + t11*m[10] + t5*m[2])

	invDet := 1 / (m[0]*inv[0] + m[4]*inv[1] + m[8]*inv[2] + m[12]*inv[3])
	for i := range inv {
		inv[i] *= invDet
	}
	return inv
}

// InvertTranspose returns the transposed inverse, which maps normals
// correctly under non-uniform scaling.
func (m Mat4) InvertTranspose() Mat4 {
	return m.Invert().Transpose()
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float32 {
	return m[index(row, col)]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float32) {
	m[index(row, col)] = val
}

func index(row, col int) int {
	if row < 0 || row > 3 || col < 0 || col > 3 {
		panic(fmt.Sprintf("math3d: Mat4 index (%d, %d) out of range", row, col))
	}
	return row*4 + col
}

// Translation extracts the translation row.
func (m Mat4) Translation() Vec4 {
	return Vec4{m[12], m[13], m[14], 1}
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
//
//nolint:st1016 // a,b naming convention is clearer for matrix comparison
func (a Mat4) ApproxEqual(b Mat4, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
