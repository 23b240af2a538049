package joint

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechmath/rigid/posemath"
	"github.com/mechmath/rigid/screw"
	"github.com/mechmath/rigid/spatialmath"
)

// Revolute is a 1-DoF hinge joint rotating about a single static axis. Its
// spatial axis is constant, so the derivative is identically zero.
type Revolute struct {
	*baseJoint
	induced *posemath.Pose
}

// NewRevolute creates a revolute joint whose axis lives in the given frame.
func NewRevolute(name string, frame *posemath.Pose, opts ...Option) *Revolute {
	return &Revolute{
		baseJoint: newBaseJoint(name, frame, 1, opts...),
		induced:   posemath.NewZeroPose(name+"_induced", frame),
	}
}

// SetAxis stores the rotation axis.
func (j *Revolute) SetAxis(i int, axis posemath.Vector3) error {
	return j.storeAxis(i, axis)
}

// AssignAxes normalizes the axis; with no axis set there is nothing to
// complete a basis from and assignment is underdetermined.
func (j *Revolute) AssignAxes() bool {
	if j.axesAssigned {
		return true
	}
	if !j.axisSet(0) {
		return false
	}
	j.u[0] = j.u[0].Normalize()
	j.axesAssigned = true
	j.spatialCurrent = false
	return true
}

// Axis returns the rotation axis; a single axis has no chaining and is static.
func (j *Revolute) Axis(i int) (posemath.Vector3, error) {
	if i != 0 {
		return posemath.Vector3{}, NewInvalidIndexError(i, j.DoF())
	}
	if !j.AssignAxes() {
		return posemath.Vector3{}, ErrAxesUnassigned
	}
	return posemath.NewVector3(j.u[0], j.frame), nil
}

// UpdateSpatialAxes recomputes the (constant) spatial axis and derivative.
func (j *Revolute) UpdateSpatialAxes() error {
	if !j.AssignAxes() {
		return ErrAxesUnassigned
	}
	s, err := screw.NewAxis(j.frame, j.u[0], r3.Vector{})
	if err != nil {
		return err
	}
	sd, err := screw.NewZero(screw.KindAxis, j.frame)
	if err != nil {
		return err
	}
	j.s[0], j.sDot[0] = s, sd
	j.spatialCurrent = true
	return nil
}

// SpatialAxes returns the single spatial axis (angular = axis, linear = zero).
func (j *Revolute) SpatialAxes() ([]*screw.Screw, error) {
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

// SpatialAxesDot returns the zero derivative of the static spatial axis.
func (j *Revolute) SpatialAxesDot() ([]*screw.Screw, error) {
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

// Rotation returns the axis-angle rotation at the current coordinate.
func (j *Revolute) Rotation() (quat.Number, error) {
	if !j.AssignAxes() {
		return quat.Number{}, ErrAxesUnassigned
	}
	return spatialmath.NewR4AAFromAxisAngle(j.u[0], j.qTotal(0)).ToQuat(), nil
}

// InducedPose returns the relative pose induced by the joint; translation is
// zero for a hinge.
func (j *Revolute) InducedPose() (*posemath.Pose, error) {
	rot, err := j.Rotation()
	if err != nil {
		return nil, err
	}
	j.induced.SetOrientation(rot)
	j.induced.SetPoint(r3.Vector{})
	return j.induced, nil
}

// EvaluateConstraints produces the loop-closure residual; stubbed for the
// whole joint family.
func (j *Revolute) EvaluateConstraints() []float64 {
	if !j.warnedConstraints {
		j.logger.Warnw("revolute joint constraint evaluation is not currently functional", "joint", j.name)
		j.warnedConstraints = true
	}
	return make([]float64, 5)
}

// Conditioning is constant for a single static axis.
func (j *Revolute) Conditioning() float64 {
	if !j.AssignAxes() {
		return 0
	}
	return 1
}

// IsSingular always reports false; a hinge has no singular configurations.
func (j *Revolute) IsSingular() bool {
	return false
}
