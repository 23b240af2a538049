package joint

import (
	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechmath/rigid/posemath"
	"github.com/mechmath/rigid/screw"
	"github.com/mechmath/rigid/spatialmath"
	"github.com/mechmath/rigid/utils"
)

// Spherical is a 3-DoF ball-and-socket joint. The three rotation axes chain:
// the effective direction of each axis depends on the generalized coordinates
// of all lower-indexed axes, so the spatial axes are configuration dependent,
// unlike most joint types.
type Spherical struct {
	*baseJoint
	induced *posemath.Pose
}

// NewSpherical creates a spherical joint whose axes live in the given frame.
// All three axes start unset; set at least one and call AssignAxes, or rely on
// the lazy assignment performed by the spatial-axis accessors.
func NewSpherical(name string, frame *posemath.Pose, opts ...Option) *Spherical {
	return &Spherical{
		baseJoint: newBaseJoint(name, frame, 3, opts...),
		induced:   posemath.NewZeroPose(name+"_induced", frame),
	}
}

// SetAxis stores one of the three rotation axes, normalized and re-expressed in
// the joint frame.
func (j *Spherical) SetAxis(i int, axis posemath.Vector3) error {
	return j.storeAxis(i, axis)
}

// AssignAxes completes the unset axes into a right-handed orthonormal basis.
// Two axes set: the third is their cross product. One axis set: the remaining
// two are an arbitrary orthonormal completion. None set: underdetermined,
// returns false and the joint stays unassigned. Three axes set: a no-op beyond
// normalization.
func (j *Spherical) AssignAxes() bool {
	if j.axesAssigned {
		return true
	}

	if !j.axisSet(0) {
		switch {
		case !j.axisSet(1):
			if !j.axisSet(2) {
				// nothing to work from
				return false
			}
			j.u[2] = j.u[2].Normalize()
			j.u[0], j.u[1] = spatialmath.OrthonormalBasis(j.u[2])
		case !j.axisSet(2):
			j.u[1] = j.u[1].Normalize()
			j.u[2], j.u[0] = spatialmath.OrthonormalBasis(j.u[1])
		default:
			j.u[1] = j.u[1].Normalize()
			j.u[2] = j.u[2].Normalize()
			j.u[0] = j.u[1].Cross(j.u[2])
		}
	} else {
		switch {
		case !j.axisSet(1):
			if !j.axisSet(2) {
				j.u[0] = j.u[0].Normalize()
				j.u[1], j.u[2] = spatialmath.OrthonormalBasis(j.u[0])
			} else {
				j.u[0] = j.u[0].Normalize()
				j.u[2] = j.u[2].Normalize()
				j.u[1] = j.u[2].Cross(j.u[0])
			}
		case !j.axisSet(2):
			j.u[0] = j.u[0].Normalize()
			j.u[1] = j.u[1].Normalize()
			j.u[2] = j.u[0].Cross(j.u[1])
		}
	}

	if err := j.verifyAxes(); err != nil {
		j.logger.Warnw("spherical joint axes are not orthonormal", "joint", j.name, "error", err)
	}
	j.axesAssigned = true
	j.spatialCurrent = false
	return true
}

// verifyAxes checks that all three axes are unit length and mutually
// orthogonal, aggregating every violation.
func (j *Spherical) verifyAxes() error {
	const tol = 1e-6
	var err error
	for i := 0; i < 3; i++ {
		if n := j.u[i].Norm(); !utils.Float64AlmostEqual(n, 1, tol) {
			multierr.AppendInto(&err, newNonUnitAxisError(i, n))
		}
	}
	for i := 0; i < 3; i++ {
		for k := i + 1; k < 3; k++ {
			if d := j.u[i].Dot(j.u[k]); !utils.Float64AlmostEqual(d, 0, tol) {
				multierr.AppendInto(&err, newNonOrthogonalAxesError(i, k, d))
			}
		}
	}
	return err
}

// chainRotations returns the elementary rotations R1 = AA(u1, q1+tare1) and
// R2 = AA(u2, q2+tare2) driving the axis chain.
func (j *Spherical) chainRotations() (quat.Number, quat.Number) {
	r1 := spatialmath.NewR4AAFromAxisAngle(j.u[0], j.qTotal(0)).ToQuat()
	r2 := spatialmath.NewR4AAFromAxisAngle(j.u[1], j.qTotal(1)).ToQuat()
	return r1, r2
}

// effectiveAxes returns the three axis directions in the current configuration:
// u1 static, u2 rotated by R1, u3 rotated by R1 R2.
func (j *Spherical) effectiveAxes() [3]r3.Vector {
	r1, r2 := j.chainRotations()
	return [3]r3.Vector{
		j.u[0],
		spatialmath.RotateVector(r1, j.u[1]),
		spatialmath.RotateVector(r1, spatialmath.RotateVector(r2, j.u[2])),
	}
}

// Axis returns the i-th axis in the current configuration, expressed in the
// joint frame.
func (j *Spherical) Axis(i int) (posemath.Vector3, error) {
	if i < 0 || i >= j.DoF() {
		return posemath.Vector3{}, NewInvalidIndexError(i, j.DoF())
	}
	if !j.AssignAxes() {
		return posemath.Vector3{}, ErrAxesUnassigned
	}
	return posemath.NewVector3(j.effectiveAxes()[i], j.frame), nil
}

// UpdateSpatialAxes recomputes the spatial axes and their time derivatives from
// the current coordinates, and marks the cache current. The spatial axes of a
// pure-rotation joint have the effective axis as the angular part and a zero
// linear part.
func (j *Spherical) UpdateSpatialAxes() error {
	if !j.AssignAxes() {
		return ErrAxesUnassigned
	}

	axes := j.effectiveAxes()
	for i := 0; i < 3; i++ {
		s, err := screw.NewAxis(j.frame, axes[i], r3.Vector{})
		if err != nil {
			return err
		}
		j.s[i] = s
	}

	// product rule through the chained rotations: each driving coordinate
	// contributes the cross product of its angular velocity with the already
	// rotated axis.
	r1, r2 := j.chainRotations()
	omega1 := j.u[0].Mul(j.qd.Get(0))
	omega2 := j.u[1].Mul(j.qd.Get(1))

	dot2 := omega1.Cross(axes[1])
	dot3 := omega1.Cross(axes[2]).Add(
		spatialmath.RotateVector(r1, omega2.Cross(spatialmath.RotateVector(r2, j.u[2]))))

	for i, ang := range []r3.Vector{{}, dot2, dot3} {
		sd, err := screw.NewAxis(j.frame, ang, r3.Vector{})
		if err != nil {
			return err
		}
		j.sDot[i] = sd
	}

	j.spatialCurrent = true
	return nil
}

// SpatialAxes returns the three spatial axes in the joint frame. Both body
// references must be set; the cache is recomputed if stale.
func (j *Spherical) SpatialAxes() ([]*screw.Screw, error) {
	if err := j.ensureBodies(); err != nil {
		return nil, err
	}
	if !j.spatialCurrent {
		if err := j.UpdateSpatialAxes(); err != nil {
			return nil, err
		}
	}
	return j.s, nil
}

// SpatialAxesDot returns the time derivatives of the spatial axes. To first
// order these match finite differences of SpatialAxes over dq = qd dt.
func (j *Spherical) SpatialAxesDot() ([]*screw.Screw, error) {
	if err := j.ensureBodies(); err != nil {
		return nil, err
	}
	if !j.spatialCurrent {
		if err := j.UpdateSpatialAxes(); err != nil {
			return nil, err
		}
	}
	return j.sDot, nil
}

// Rotation composes the elementary axis-angle rotations of all three axes at
// the current coordinates into the net relative rotation.
func (j *Spherical) Rotation() (quat.Number, error) {
	if !j.AssignAxes() {
		return quat.Number{}, ErrAxesUnassigned
	}
	r1, r2 := j.chainRotations()
	r3q := spatialmath.NewR4AAFromAxisAngle(j.u[2], j.qTotal(2)).ToQuat()
	return quat.Mul(quat.Mul(r1, r2), r3q), nil
}

// InducedPose returns the relative pose induced by the joint, relative to the
// joint frame. Translation is zero for the pure-rotation joint family. The
// returned pose is owned by the joint and updated in place.
func (j *Spherical) InducedPose() (*posemath.Pose, error) {
	rot, err := j.Rotation()
	if err != nil {
		return nil, err
	}
	j.induced.SetOrientation(rot)
	j.induced.SetPoint(r3.Vector{})
	return j.induced, nil
}

// EvaluateConstraints produces the loop-closure residual for the joint. The
// spherical implementation is an intentional no-op stub kept as an extension
// point for closed kinematic chains; it returns a zero residual and must not
// be relied on.
func (j *Spherical) EvaluateConstraints() []float64 {
	if !j.warnedConstraints {
		j.logger.Warnw("spherical joint constraint evaluation is not currently functional", "joint", j.name)
		j.warnedConstraints = true
	}
	return make([]float64, 3)
}

// DetermineQ would recover the generalized coordinates from the inboard and
// outboard poses. It is not implemented for spherical joints.
func (j *Spherical) DetermineQ() ([]float64, error) {
	j.logger.Warnw("spherical joint determineQ is not currently functional", "joint", j.name)
	return nil, ErrNotImplemented
}

// Conditioning returns the triple product of the three effective axes. It is 1
// in a well-conditioned configuration and approaches 0 as the axes become
// coplanar and the Jacobian loses rank. Near-singular configurations are not
// errors; kinematics remain defined.
func (j *Spherical) Conditioning() float64 {
	if !j.AssignAxes() {
		return 0
	}
	axes := j.effectiveAxes()
	return axes[0].Dot(axes[1].Cross(axes[2]))
}

// IsSingular reports whether the conditioning metric is within the configured
// singular tolerance of zero.
func (j *Spherical) IsSingular() bool {
	return j.singular(j.Conditioning())
}
