package posemath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechmath/rigid/spatialmath"
)

var rotZ90 = spatialmath.NewR4AAFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2).ToQuat()

func TestTransformPoint(t *testing.T) {
	base := NewPose("base", nil, rotZ90, r3.Vector{Z: 1})

	// base coordinates into world: x' = R z90 x + (0,0,1)
	tf, err := TransformToWorld(base)
	test.That(t, err, test.ShouldBeNil)

	got, err := tf.TransformPoint(NewPoint3(r3.Vector{X: 1}, base))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Frame, test.ShouldEqual, World())
	test.That(t, spatialmath.R3VectorAlmostEqual(got.V, r3.Vector{Y: 1, Z: 1}, 1e-9), test.ShouldBeTrue)

	// free vectors are rotated only
	gotV, err := tf.TransformVector(NewVector3(r3.Vector{X: 1}, base))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(gotV.V, r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
}

func TestTransformFrameChecks(t *testing.T) {
	base := NewPose("base", nil, rotZ90, r3.Vector{Z: 1})
	other := NewZeroPose("other", nil)

	tf, err := TransformToWorld(base)
	test.That(t, err, test.ShouldBeNil)

	_, err = tf.TransformPoint(NewPoint3(r3.Vector{X: 1}, other))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = tf.TransformPoint(Point3{V: r3.Vector{X: 1}})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Compose(tf, tf)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTransformInvert(t *testing.T) {
	base := NewPose("base", nil, rotZ90, r3.Vector{X: 2, Y: -1, Z: 1})
	tf, err := TransformToWorld(base)
	test.That(t, err, test.ShouldBeNil)

	roundTrip, err := Compose(tf, tf.Invert())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, TransformAlmostEqual(roundTrip, NewIdentityTransform(base), 1e-9), test.ShouldBeTrue)

	p := NewPoint3(r3.Vector{X: 0.5, Y: 0.25, Z: -3}, base)
	out, err := tf.TransformPoint(p)
	test.That(t, err, test.ShouldBeNil)
	back, err := tf.InverseTransformPoint(out)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(back.V, p.V, 1e-9), test.ShouldBeTrue)
	test.That(t, back.Frame, test.ShouldEqual, base)
}

func TestComposeAssociativity(t *testing.T) {
	a := NewZeroPose("a", nil)
	b := NewZeroPose("b", nil)
	c := NewZeroPose("c", nil)
	d := NewZeroPose("d", nil)

	rotX30 := spatialmath.NewR4AAFromAxisAngle(r3.Vector{X: 1}, math.Pi/6).ToQuat()
	t1 := NewTransform(a, b, rotZ90, r3.Vector{X: 1})
	t2 := NewTransform(b, c, rotX30, r3.Vector{Y: -2})
	t3 := NewTransform(c, d, quat.Number{Real: 1}, r3.Vector{Z: 0.5})

	t12, err := Compose(t1, t2)
	test.That(t, err, test.ShouldBeNil)
	left, err := Compose(t12, t3)
	test.That(t, err, test.ShouldBeNil)

	t23, err := Compose(t2, t3)
	test.That(t, err, test.ShouldBeNil)
	right, err := Compose(t1, t23)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, TransformAlmostEqual(left, right, 1e-9), test.ShouldBeTrue)
	test.That(t, left.Source(), test.ShouldEqual, a)
	test.That(t, left.Target(), test.ShouldEqual, d)
}

func TestTransformPose(t *testing.T) {
	base := NewPose("base", nil, rotZ90, r3.Vector{Z: 1})
	camera := NewPose("camera", base, quat.Number{Real: 1}, r3.Vector{X: 1})

	tf, err := TransformToWorld(base)
	test.That(t, err, test.ShouldBeNil)

	inWorld, err := tf.TransformPose(camera)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, inWorld.Parent(), test.ShouldEqual, World())
	test.That(t, spatialmath.R3VectorAlmostEqual(inWorld.Point(), r3.Vector{Y: 1, Z: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.QuaternionAlmostEqual(inWorld.Orientation(), rotZ90, 1e-9), test.ShouldBeTrue)

	// pose not expressed in the source frame
	_, err = tf.TransformPose(NewZeroPose("stray", nil))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRotationMatrixAccessor(t *testing.T) {
	base := NewPose("base", nil, rotZ90, r3.Vector{})
	tf, err := TransformToWorld(base)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.RotationMatrixAlmostEqual(tf.RotationMatrix(), spatialmath.RotZ(math.Pi/2), 1e-9), test.ShouldBeTrue)
}
