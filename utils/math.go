// Package utils contains small math helpers shared across the module.
package utils

import "math"

func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s within an epsilon.
func Float64AlmostEqual(v1, v2, epsilon float64) bool {
	return math.Abs(v1-v2) <= epsilon
}

// RelEqual determines whether two values are equal to within a relative
// tolerance scaled by the larger magnitude of the operands.
func RelEqual(x, y, eps float64) bool {
	return math.Abs(x-y) <= eps*math.Max(math.Abs(x), math.Max(math.Abs(y), 1.0))
}
