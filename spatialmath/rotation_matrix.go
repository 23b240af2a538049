package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 matrix in row major order.
// m[3*r + c] is the element in the r'th row and c'th column.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates the rotation matrix from a slice of floats.
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, newBadRotationMatrixLengthError(len(m))
	}
	mat := [9]float64{m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8]}
	return &RotationMatrix{mat}, nil
}

// NewRotationMatrixFromQuat converts a unit quaternion to a rotation matrix.
func NewRotationMatrixFromQuat(q quat.Number) *RotationMatrix {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return &RotationMatrix{[9]float64{
		1 - 2*y*y - 2*z*z, 2*x*y - 2*z*w, 2*x*z + 2*y*w,
		2*x*y + 2*z*w, 1 - 2*x*x - 2*z*z, 2*y*z - 2*x*w,
		2*x*z - 2*y*w, 2*y*z + 2*x*w, 1 - 2*x*x - 2*y*y,
	}}
}

// RotX returns the elementary rotation about the x axis by the given angle.
func RotX(theta float64) *RotationMatrix {
	c, s := math.Cos(theta), math.Sin(theta)
	return &RotationMatrix{[9]float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}}
}

// RotY returns the elementary rotation about the y axis by the given angle.
func RotY(theta float64) *RotationMatrix {
	c, s := math.Cos(theta), math.Sin(theta)
	return &RotationMatrix{[9]float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}}
}

// RotZ returns the elementary rotation about the z axis by the given angle.
func RotZ(theta float64) *RotationMatrix {
	c, s := math.Cos(theta), math.Sin(theta)
	return &RotationMatrix{[9]float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}}
}

// Skew returns the skew-symmetric cross-product matrix of v, such that
// Skew(v).MulVec(w) == v x w.
func Skew(v r3.Vector) *RotationMatrix {
	return &RotationMatrix{[9]float64{
		0, -v.Z, v.Y,
		v.Z, 0, -v.X,
		-v.Y, v.X, 0,
	}}
}

// At returns the float corresponding to the element at the specified row and column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[3*row+col]
}

// Row returns the a particular row of the rotation matrix.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[3*row], Y: rm.mat[3*row+1], Z: rm.mat[3*row+2]}
}

// Col returns the a particular column of the rotation matrix.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat[col], Y: rm.mat[3+col], Z: rm.mat[6+col]}
}

// Mul returns the product rm * other.
func (rm *RotationMatrix) Mul(other *RotationMatrix) *RotationMatrix {
	var out [9]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[3*r+c] = rm.Row(r).Dot(other.Col(c))
		}
	}
	return &RotationMatrix{out}
}

// MulVec returns the matrix-vector product rm * v.
func (rm *RotationMatrix) MulVec(v r3.Vector) r3.Vector {
	return r3.Vector{X: rm.Row(0).Dot(v), Y: rm.Row(1).Dot(v), Z: rm.Row(2).Dot(v)}
}

// Transpose returns the transpose, which for an orthonormal matrix is the inverse rotation.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	m := rm.mat
	return &RotationMatrix{[9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}}
}

// Det returns the determinant.
func (rm *RotationMatrix) Det() float64 {
	return rm.Row(0).Dot(rm.Row(1).Cross(rm.Row(2)))
}

// IsOrthonormal returns whether the matrix is a valid rotation: columns of unit
// length, mutually orthogonal, with determinant +1 within the given tolerance.
func (rm *RotationMatrix) IsOrthonormal(tol float64) bool {
	c0, c1, c2 := rm.Col(0), rm.Col(1), rm.Col(2)
	if math.Abs(c0.Norm()-1) > tol || math.Abs(c1.Norm()-1) > tol || math.Abs(c2.Norm()-1) > tol {
		return false
	}
	if math.Abs(c0.Dot(c1)) > tol || math.Abs(c0.Dot(c2)) > tol || math.Abs(c1.Dot(c2)) > tol {
		return false
	}
	return math.Abs(rm.Det()-1) < tol
}

// Quaternion returns the unit quaternion corresponding to this rotation matrix.
// See: https://www.euclideanspace.com/maths/geometry/rotations/conversions/matrixToQuaternion/
func (rm *RotationMatrix) Quaternion() quat.Number {
	m := rm.mat
	tr := m[0] + m[4] + m[8]

	var q quat.Number
	switch {
	case tr > 0:
		s := 0.5 / math.Sqrt(tr+1.0)
		q = quat.Number{Real: 0.25 / s, Imag: (m[7] - m[5]) * s, Jmag: (m[2] - m[6]) * s, Kmag: (m[3] - m[1]) * s}
	case m[0] > m[4] && m[0] > m[8]:
		s := 2.0 * math.Sqrt(1.0+m[0]-m[4]-m[8])
		q = quat.Number{Real: (m[7] - m[5]) / s, Imag: 0.25 * s, Jmag: (m[1] + m[3]) / s, Kmag: (m[2] + m[6]) / s}
	case m[4] > m[8]:
		s := 2.0 * math.Sqrt(1.0+m[4]-m[0]-m[8])
		q = quat.Number{Real: (m[2] - m[6]) / s, Imag: (m[1] + m[3]) / s, Jmag: 0.25 * s, Kmag: (m[5] + m[7]) / s}
	default:
		s := 2.0 * math.Sqrt(1.0+m[8]-m[0]-m[4])
		q = quat.Number{Real: (m[3] - m[1]) / s, Imag: (m[2] + m[6]) / s, Jmag: (m[5] + m[7]) / s, Kmag: 0.25 * s}
	}

	denom := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	return quat.Number{Real: q.Real / denom, Imag: q.Imag / denom, Jmag: q.Jmag / denom, Kmag: q.Kmag / denom}
}

// AxisAngles returns the orientation in axis angle representation.
func (rm *RotationMatrix) AxisAngles() *R4AA {
	aa := QuatToR4AA(rm.Quaternion())
	return &aa
}

// RotationMatrixAlmostEqual compares two rotation matrices elementwise.
func RotationMatrixAlmostEqual(a, b *RotationMatrix, tol float64) bool {
	for i := 0; i < 9; i++ {
		if math.Abs(a.mat[i]-b.mat[i]) > tol {
			return false
		}
	}
	return true
}
