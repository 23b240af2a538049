package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestDegRadConversions(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, RadToDeg(DegToRad(37.5)), test.ShouldAlmostEqual, 37.5, 1e-12)
}

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1.0, 1.0+1e-10, 1e-9), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1.0, 1.1, 1e-9), test.ShouldBeFalse)
}

func TestRelEqual(t *testing.T) {
	// tolerance scales with magnitude
	test.That(t, RelEqual(1e6, 1e6+1, 1e-5), test.ShouldBeTrue)
	test.That(t, RelEqual(1.0, 1.0+1e-7, 1e-6), test.ShouldBeTrue)
	test.That(t, RelEqual(1.0, 1.1, 1e-6), test.ShouldBeFalse)
	// small operands fall back to absolute comparison
	test.That(t, RelEqual(1e-9, 2e-9, 1e-6), test.ShouldBeTrue)
}
