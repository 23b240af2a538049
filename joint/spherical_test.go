package joint

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/mechmath/rigid/posemath"
	"github.com/mechmath/rigid/spatialmath"
)

// newTestSpherical builds a ball joint in its own frame with both bodies
// attached and the x, y, z axes stored.
func newTestSpherical(t *testing.T) (*Spherical, *posemath.Pose) {
	t.Helper()
	frame := posemath.NewZeroPose("shoulder", nil)
	j := NewSpherical("shoulder", frame, WithLogger(golog.NewTestLogger(t)))
	j.SetBodies(posemath.NewZeroPose("torso", nil), posemath.NewZeroPose("upperarm", nil))
	for i, axis := range []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}} {
		test.That(t, j.SetAxis(i, posemath.NewVector3(axis, frame)), test.ShouldBeNil)
	}
	return j, frame
}

func TestSphericalBasics(t *testing.T) {
	j, frame := newTestSpherical(t)
	test.That(t, j.Name(), test.ShouldEqual, "shoulder")
	test.That(t, j.DoF(), test.ShouldEqual, 3)
	test.That(t, j.Frame(), test.ShouldEqual, frame)
	test.That(t, len(j.Positions()), test.ShouldEqual, 3)
	test.That(t, len(j.Velocities()), test.ShouldEqual, 3)
	test.That(t, len(j.Tare()), test.ShouldEqual, 3)
}

func TestSphericalAssignAxesUnderdetermined(t *testing.T) {
	frame := posemath.NewZeroPose("joint", nil)
	j := NewSpherical("bare", frame, WithLogger(golog.NewTestLogger(t)))
	j.SetBodies(posemath.NewZeroPose("in", nil), posemath.NewZeroPose("out", nil))

	test.That(t, j.AssignAxes(), test.ShouldBeFalse)
	_, err := j.SpatialAxes()
	test.That(t, err, test.ShouldEqual, ErrAxesUnassigned)
	_, err = j.Axis(0)
	test.That(t, err, test.ShouldEqual, ErrAxesUnassigned)
	_, err = j.Rotation()
	test.That(t, err, test.ShouldEqual, ErrAxesUnassigned)
	test.That(t, j.Conditioning(), test.ShouldEqual, 0.0)
}

func TestSphericalAssignAxesCompletion(t *testing.T) {
	t.Run("one axis", func(t *testing.T) {
		frame := posemath.NewZeroPose("joint", nil)
		j := NewSpherical("j", frame, WithLogger(golog.NewTestLogger(t)))
		test.That(t, j.SetAxis(0, posemath.NewVector3(r3.Vector{X: 2}, frame)), test.ShouldBeNil)
		test.That(t, j.AssignAxes(), test.ShouldBeTrue)

		// completed into a right-handed orthonormal triad around x
		test.That(t, spatialmath.R3VectorAlmostEqual(j.u[0], r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(j.u[0].Cross(j.u[1]), j.u[2], 1e-9), test.ShouldBeTrue)
		test.That(t, j.verifyAxes(), test.ShouldBeNil)
	})

	t.Run("two axes", func(t *testing.T) {
		frame := posemath.NewZeroPose("joint", nil)
		j := NewSpherical("j", frame, WithLogger(golog.NewTestLogger(t)))
		test.That(t, j.SetAxis(0, posemath.NewVector3(r3.Vector{X: 1}, frame)), test.ShouldBeNil)
		test.That(t, j.SetAxis(1, posemath.NewVector3(r3.Vector{Y: 1}, frame)), test.ShouldBeNil)
		test.That(t, j.AssignAxes(), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(j.u[2], r3.Vector{Z: 1}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("middle axis only", func(t *testing.T) {
		frame := posemath.NewZeroPose("joint", nil)
		j := NewSpherical("j", frame, WithLogger(golog.NewTestLogger(t)))
		test.That(t, j.SetAxis(1, posemath.NewVector3(r3.Vector{Y: 1}, frame)), test.ShouldBeNil)
		test.That(t, j.AssignAxes(), test.ShouldBeTrue)
		// cyclic right-handed order is preserved regardless of which slot seeded
		test.That(t, spatialmath.R3VectorAlmostEqual(j.u[0].Cross(j.u[1]), j.u[2], 1e-9), test.ShouldBeTrue)
		test.That(t, j.verifyAxes(), test.ShouldBeNil)
	})

	t.Run("full preset triad is untouched", func(t *testing.T) {
		frame := posemath.NewZeroPose("joint", nil)
		j := NewSpherical("j", frame, WithLogger(golog.NewTestLogger(t)))
		s := 1 / math.Sqrt2
		u0 := r3.Vector{X: s, Y: s}
		u1 := r3.Vector{X: -s, Y: s}
		u2 := r3.Vector{Z: 1}
		test.That(t, j.SetAxis(0, posemath.NewVector3(u0, frame)), test.ShouldBeNil)
		test.That(t, j.SetAxis(1, posemath.NewVector3(u1, frame)), test.ShouldBeNil)
		test.That(t, j.SetAxis(2, posemath.NewVector3(u2, frame)), test.ShouldBeNil)
		test.That(t, j.AssignAxes(), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(j.u[0], u0, 1e-9), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(j.u[1], u1, 1e-9), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(j.u[2], u2, 1e-9), test.ShouldBeTrue)
	})
}

func TestSphericalAxisChaining(t *testing.T) {
	j, _ := newTestSpherical(t)
	q1, q2 := 0.3, 0.4
	test.That(t, j.SetPositions([]float64{q1, q2, 0}), test.ShouldBeNil)

	// closed forms for the x, y, z axis assignment:
	// axis2 = rotX(q1) y = (0, cos q1, sin q1)
	// axis3 = rotX(q1) rotY(q2) z = (sin q2, -cos q2 sin q1, cos q1 cos q2)
	a1, err := j.Axis(1)
	test.That(t, err, test.ShouldBeNil)
	want1 := r3.Vector{Y: math.Cos(q1), Z: math.Sin(q1)}
	test.That(t, spatialmath.R3VectorAlmostEqual(a1.V, want1, 1e-9), test.ShouldBeTrue)

	a2, err := j.Axis(2)
	test.That(t, err, test.ShouldBeNil)
	want2 := r3.Vector{
		X: math.Sin(q2),
		Y: -math.Cos(q2) * math.Sin(q1),
		Z: math.Cos(q1) * math.Cos(q2),
	}
	test.That(t, spatialmath.R3VectorAlmostEqual(a2.V, want2, 1e-9), test.ShouldBeTrue)

	// the first axis never moves
	a0, err := j.Axis(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(a0.V, r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)

	_, err = j.Axis(3)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSphericalRotation(t *testing.T) {
	j, _ := newTestSpherical(t)
	q := []float64{0.3, -0.7, 1.1}
	test.That(t, j.SetPositions(q), test.ShouldBeNil)

	got, err := j.Rotation()
	test.That(t, err, test.ShouldBeNil)
	want := spatialmath.RotX(q[0]).Mul(spatialmath.RotY(q[1])).Mul(spatialmath.RotZ(q[2])).Quaternion()
	test.That(t, spatialmath.QuaternionAlmostEqual(got, want, 1e-9), test.ShouldBeTrue)

	pose, err := j.InducedPose()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Parent(), test.ShouldEqual, j.Frame())
	test.That(t, spatialmath.QuaternionAlmostEqual(pose.Orientation(), want, 1e-9), test.ShouldBeTrue)
	test.That(t, pose.Point().Norm(), test.ShouldEqual, 0.0)
}

func TestSphericalSpatialAxes(t *testing.T) {
	j, frame := newTestSpherical(t)
	test.That(t, j.SetPositions([]float64{0.3, 0.4, 0.9}), test.ShouldBeNil)

	s, err := j.SpatialAxes()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(s), test.ShouldEqual, 3)
	for i := 0; i < 3; i++ {
		test.That(t, s[i].Frame(), test.ShouldEqual, frame)
		test.That(t, s[i].Linear.Norm(), test.ShouldEqual, 0.0)
		test.That(t, s[i].Angular.Norm(), test.ShouldAlmostEqual, 1, 1e-9)
	}
	a1, err := j.Axis(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(s[1].Angular, a1.V, 1e-9), test.ShouldBeTrue)
}

func TestSphericalSpatialAxesDotFiniteDifference(t *testing.T) {
	q := []float64{0.2, 0.3, 0.4}
	qd := []float64{0.1, -0.2, 0.15}
	const eps = 1e-6

	j, _ := newTestSpherical(t)
	test.That(t, j.SetPositions(q), test.ShouldBeNil)
	test.That(t, j.SetVelocities(qd), test.ShouldBeNil)

	sDot, err := j.SpatialAxesDot()
	test.That(t, err, test.ShouldBeNil)
	s0, err := j.SpatialAxes()
	test.That(t, err, test.ShouldBeNil)
	before := make([]r3.Vector, 3)
	for i, s := range s0 {
		before[i] = s.Angular
	}

	// step the configuration by qd*eps and difference the axes
	stepped := []float64{q[0] + qd[0]*eps, q[1] + qd[1]*eps, q[2] + qd[2]*eps}
	test.That(t, j.SetPositions(stepped), test.ShouldBeNil)
	s1, err := j.SpatialAxes()
	test.That(t, err, test.ShouldBeNil)

	for i := 0; i < 3; i++ {
		fd := s1[i].Angular.Sub(before[i]).Mul(1 / eps)
		test.That(t, spatialmath.R3VectorAlmostEqual(fd, sDot[i].Angular, 1e-5), test.ShouldBeTrue)
		test.That(t, sDot[i].Linear.Norm(), test.ShouldEqual, 0.0)
	}
	// the first axis is static, so its derivative vanishes
	test.That(t, sDot[0].Angular.Norm(), test.ShouldEqual, 0.0)
}

func TestSphericalCacheInvalidation(t *testing.T) {
	j, _ := newTestSpherical(t)
	s, err := j.SpatialAxes()
	test.That(t, err, test.ShouldBeNil)
	atZero := s[1].Angular

	test.That(t, j.SetPositions([]float64{1.2, 0, 0}), test.ShouldBeNil)
	s, err = j.SpatialAxes()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(s[1].Angular, atZero, 1e-6), test.ShouldBeFalse)
	want := r3.Vector{Y: math.Cos(1.2), Z: math.Sin(1.2)}
	test.That(t, spatialmath.R3VectorAlmostEqual(s[1].Angular, want, 1e-9), test.ShouldBeTrue)
}

func TestSphericalTare(t *testing.T) {
	j, _ := newTestSpherical(t)
	test.That(t, j.SetTare([]float64{0.5, 0, 0}), test.ShouldBeNil)

	// tare shifts the effective coordinate: axis2 sees q1 + 0.5
	a1, err := j.Axis(1)
	test.That(t, err, test.ShouldBeNil)
	want := r3.Vector{Y: math.Cos(0.5), Z: math.Sin(0.5)}
	test.That(t, spatialmath.R3VectorAlmostEqual(a1.V, want, 1e-9), test.ShouldBeTrue)
}

func TestSphericalMissingBodies(t *testing.T) {
	frame := posemath.NewZeroPose("joint", nil)
	j := NewSpherical("floating", frame, WithLogger(golog.NewTestLogger(t)))
	test.That(t, j.SetAxis(0, posemath.NewVector3(r3.Vector{X: 1}, frame)), test.ShouldBeNil)

	_, err := j.SpatialAxes()
	test.That(t, err, test.ShouldNotBeNil)
	_, err = j.SpatialAxesDot()
	test.That(t, err, test.ShouldNotBeNil)

	j.SetBodies(posemath.NewZeroPose("in", nil), nil)
	_, err = j.SpatialAxes()
	test.That(t, err, test.ShouldNotBeNil)

	j.SetBodies(posemath.NewZeroPose("in", nil), posemath.NewZeroPose("out", nil))
	_, err = j.SpatialAxes()
	test.That(t, err, test.ShouldBeNil)
}

func TestSphericalConstraintStubs(t *testing.T) {
	j, _ := newTestSpherical(t)

	residual := j.EvaluateConstraints()
	test.That(t, len(residual), test.ShouldEqual, 3)
	for _, r := range residual {
		test.That(t, r, test.ShouldEqual, 0.0)
	}
	// repeated calls stay quiet and keep returning zeros
	test.That(t, len(j.EvaluateConstraints()), test.ShouldEqual, 3)

	_, err := j.DetermineQ()
	test.That(t, err, test.ShouldEqual, ErrNotImplemented)
}

func TestSphericalConditioning(t *testing.T) {
	j, _ := newTestSpherical(t)
	test.That(t, j.Conditioning(), test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, j.IsSingular(), test.ShouldBeFalse)

	// gimbal lock: the middle coordinate at pi/2 folds axis 3 onto axis 1
	test.That(t, j.SetPositions([]float64{0, math.Pi / 2, 0}), test.ShouldBeNil)
	test.That(t, j.Conditioning(), test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, j.IsSingular(), test.ShouldBeTrue)

	// near but outside the default tolerance
	test.That(t, j.SetPositions([]float64{0, 0.3, 0}), test.ShouldBeNil)
	test.That(t, j.IsSingular(), test.ShouldBeFalse)
}

func TestSphericalSingularTolerance(t *testing.T) {
	frame := posemath.NewZeroPose("joint", nil)
	j := NewSpherical("strict", frame,
		WithLogger(golog.NewTestLogger(t)), WithSingularTolerance(0.99))
	for i, axis := range []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}} {
		test.That(t, j.SetAxis(i, posemath.NewVector3(axis, frame)), test.ShouldBeNil)
	}
	// conditioning cos(0.5) < 0.99 trips the tightened tolerance
	test.That(t, j.SetPositions([]float64{0, 0.5, 0}), test.ShouldBeNil)
	test.That(t, j.IsSingular(), test.ShouldBeTrue)
}

func TestSphericalAxisInOtherFrame(t *testing.T) {
	// an axis handed over in a rotated frame is re-expressed in the joint frame
	rot := spatialmath.NewR4AAFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2).ToQuat()
	other := posemath.NewPose("sensor", nil, rot, r3.Vector{X: 5})
	frame := posemath.NewZeroPose("joint", nil)

	j := NewSpherical("j", frame, WithLogger(golog.NewTestLogger(t)))
	test.That(t, j.SetAxis(0, posemath.NewVector3(r3.Vector{X: 1}, other)), test.ShouldBeNil)
	test.That(t, j.AssignAxes(), test.ShouldBeTrue)
	// x in the sensor frame is y in the joint frame; translation is irrelevant
	test.That(t, spatialmath.R3VectorAlmostEqual(j.u[0], r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
}
