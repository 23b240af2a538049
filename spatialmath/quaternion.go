// Package spatialmath defines spatial mathematical operations.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Norm returns the norm of the quaternion, i.e. the sqrt of the squares of the imaginary parts.
func Norm(q quat.Number) float64 {
	return math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}

// Flip will multiply a quaternion by -1, returning a quaternion representing the same orientation but in the opposing octant.
func Flip(q quat.Number) quat.Number {
	return quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}

// QuaternionAlmostEqual is an equality test for all the float components of a quaternion. Quaternions have double coverage, q == -q,
// and this function considers that.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	b2 := Flip(b)
	return (math.Abs(a.Imag-b.Imag) < tol && math.Abs(a.Jmag-b.Jmag) < tol &&
		math.Abs(a.Kmag-b.Kmag) < tol && math.Abs(a.Real-b.Real) < tol) ||
		(math.Abs(a.Imag-b2.Imag) < tol && math.Abs(a.Jmag-b2.Jmag) < tol &&
			math.Abs(a.Kmag-b2.Kmag) < tol && math.Abs(a.Real-b2.Real) < tol)
}

// AngleBetween returns the magnitude of the angle of the rotation carrying a onto b.
// This is the angular-distance metric used for approximate pose equality.
func AngleBetween(a, b quat.Number) float64 {
	diff := quat.Mul(b, quat.Conj(a))
	return math.Abs(QuatToR4AA(diff).Theta)
}

// RotateVector rotates a 3-vector by the rotation represented by the given unit
// quaternion, via the sandwich product q*v*q^-1.
func RotateVector(q quat.Number, v r3.Vector) r3.Vector {
	vq := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rot := quat.Mul(quat.Mul(q, vq), quat.Conj(q))
	return r3.Vector{X: rot.Imag, Y: rot.Jmag, Z: rot.Kmag}
}

// R3VectorAlmostEqual compares two r3 vectors elementwise. The comparison is
// inclusive, so identical vectors are equal even at zero tolerance.
func R3VectorAlmostEqual(a, b r3.Vector, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
