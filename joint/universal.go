package joint

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechmath/rigid/posemath"
	"github.com/mechmath/rigid/screw"
	"github.com/mechmath/rigid/spatialmath"
)

// Universal is a 2-DoF joint: two chained rotation axes, the first two links of
// the spherical chain. The second axis's effective direction depends on the
// first coordinate.
type Universal struct {
	*baseJoint
	induced *posemath.Pose
}

// NewUniversal creates a universal joint whose axes live in the given frame.
func NewUniversal(name string, frame *posemath.Pose, opts ...Option) *Universal {
	return &Universal{
		baseJoint: newBaseJoint(name, frame, 2, opts...),
		induced:   posemath.NewZeroPose(name+"_induced", frame),
	}
}

// SetAxis stores one of the two rotation axes.
func (j *Universal) SetAxis(i int, axis posemath.Vector3) error {
	return j.storeAxis(i, axis)
}

// AssignAxes completes the axis pair. Both set: normalization only. One set:
// the other is an arbitrary orthonormal completion. None set: underdetermined.
func (j *Universal) AssignAxes() bool {
	if j.axesAssigned {
		return true
	}
	switch {
	case !j.axisSet(0) && !j.axisSet(1):
		return false
	case !j.axisSet(1):
		j.u[0] = j.u[0].Normalize()
		j.u[1], _ = spatialmath.OrthonormalBasis(j.u[0])
	case !j.axisSet(0):
		j.u[1] = j.u[1].Normalize()
		j.u[0], _ = spatialmath.OrthonormalBasis(j.u[1])
	default:
		j.u[0] = j.u[0].Normalize()
		j.u[1] = j.u[1].Normalize()
	}
	j.axesAssigned = true
	j.spatialCurrent = false
	return true
}

func (j *Universal) rotation1() quat.Number {
	return spatialmath.NewR4AAFromAxisAngle(j.u[0], j.qTotal(0)).ToQuat()
}

func (j *Universal) effectiveAxes() [2]r3.Vector {
	return [2]r3.Vector{
		j.u[0],
		spatialmath.RotateVector(j.rotation1(), j.u[1]),
	}
}

// Axis returns the i-th axis in the current configuration: the second axis is
// the stored axis rotated by the first coordinate about the first axis.
func (j *Universal) Axis(i int) (posemath.Vector3, error) {
	if i < 0 || i >= j.DoF() {
		return posemath.Vector3{}, NewInvalidIndexError(i, j.DoF())
	}
	if !j.AssignAxes() {
		return posemath.Vector3{}, ErrAxesUnassigned
	}
	return posemath.NewVector3(j.effectiveAxes()[i], j.frame), nil
}

// UpdateSpatialAxes recomputes the spatial axes and derivatives.
func (j *Universal) UpdateSpatialAxes() error {
	if !j.AssignAxes() {
		return ErrAxesUnassigned
	}

	axes := j.effectiveAxes()
	for i := 0; i < 2; i++ {
		s, err := screw.NewAxis(j.frame, axes[i], r3.Vector{})
		if err != nil {
			return err
		}
		j.s[i] = s
	}

	omega1 := j.u[0].Mul(j.qd.Get(0))
	for i, ang := range []r3.Vector{{}, omega1.Cross(axes[1])} {
		sd, err := screw.NewAxis(j.frame, ang, r3.Vector{})
		if err != nil {
			return err
		}
		j.sDot[i] = sd
	}

	j.spatialCurrent = true
	return nil
}

// SpatialAxes returns the two spatial axes in the joint frame.
func (j *Universal) SpatialAxes() ([]*screw.Screw, error) {
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

// SpatialAxesDot returns the time derivatives of the spatial axes.
func (j *Universal) SpatialAxesDot() ([]*screw.Screw, error) {
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

// Rotation composes the two elementary rotations at the current coordinates.
func (j *Universal) Rotation() (quat.Number, error) {
	if !j.AssignAxes() {
		return quat.Number{}, ErrAxesUnassigned
	}
	r2 := spatialmath.NewR4AAFromAxisAngle(j.u[1], j.qTotal(1)).ToQuat()
	return quat.Mul(j.rotation1(), r2), nil
}

// InducedPose returns the relative pose induced by the joint, relative to the
// joint frame; translation is zero.
func (j *Universal) InducedPose() (*posemath.Pose, error) {
	rot, err := j.Rotation()
	if err != nil {
		return nil, err
	}
	j.induced.SetOrientation(rot)
	j.induced.SetPoint(r3.Vector{})
	return j.induced, nil
}

// EvaluateConstraints produces the loop-closure residual; stubbed like the
// spherical joint's.
func (j *Universal) EvaluateConstraints() []float64 {
	if !j.warnedConstraints {
		j.logger.Warnw("universal joint constraint evaluation is not currently functional", "joint", j.name)
		j.warnedConstraints = true
	}
	return make([]float64, 3)
}

// Conditioning returns the norm of the cross product of the two effective axes:
// 1 while they stay orthogonal, approaching 0 as they align.
func (j *Universal) Conditioning() float64 {
	if !j.AssignAxes() {
		return 0
	}
	axes := j.effectiveAxes()
	return axes[0].Cross(axes[1]).Norm()
}

// IsSingular reports whether the conditioning is below tolerance.
func (j *Universal) IsSingular() bool {
	return j.singular(j.Conditioning())
}
