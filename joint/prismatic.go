package joint

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechmath/rigid/posemath"
	"github.com/mechmath/rigid/screw"
)

// Prismatic is a 1-DoF sliding joint translating along a single static axis.
// It induces no rotation; its spatial axis has a zero angular part.
type Prismatic struct {
	*baseJoint
	induced *posemath.Pose
}

// NewPrismatic creates a prismatic joint whose axis lives in the given frame.
func NewPrismatic(name string, frame *posemath.Pose, opts ...Option) *Prismatic {
	return &Prismatic{
		baseJoint: newBaseJoint(name, frame, 1, opts...),
		induced:   posemath.NewZeroPose(name+"_induced", frame),
	}
}

// SetAxis stores the translation axis.
func (j *Prismatic) SetAxis(i int, axis posemath.Vector3) error {
	return j.storeAxis(i, axis)
}

// AssignAxes normalizes the axis; underdetermined when unset.
func (j *Prismatic) AssignAxes() bool {
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

// Axis returns the translation axis, which is static.
func (j *Prismatic) Axis(i int) (posemath.Vector3, error) {
	if i != 0 {
		return posemath.Vector3{}, NewInvalidIndexError(i, j.DoF())
	}
	if !j.AssignAxes() {
		return posemath.Vector3{}, ErrAxesUnassigned
	}
	return posemath.NewVector3(j.u[0], j.frame), nil
}

// UpdateSpatialAxes recomputes the (constant) spatial axis and derivative. The
// axis direction goes in the linear half; translation induces no angular
// velocity.
func (j *Prismatic) UpdateSpatialAxes() error {
	if !j.AssignAxes() {
		return ErrAxesUnassigned
	}
	s, err := screw.NewAxis(j.frame, r3.Vector{}, j.u[0])
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

// SpatialAxes returns the single spatial axis (angular = zero, linear = axis).
func (j *Prismatic) SpatialAxes() ([]*screw.Screw, error) {
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
func (j *Prismatic) SpatialAxesDot() ([]*screw.Screw, error) {
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

// Rotation is the identity; a slider induces no rotation.
func (j *Prismatic) Rotation() (quat.Number, error) {
	if !j.AssignAxes() {
		return quat.Number{}, ErrAxesUnassigned
	}
	return quat.Number{Real: 1}, nil
}

// InducedPose returns the relative pose induced by the joint: a pure
// translation of q+tare along the axis.
func (j *Prismatic) InducedPose() (*posemath.Pose, error) {
	if !j.AssignAxes() {
		return nil, ErrAxesUnassigned
	}
	j.induced.SetOrientation(quat.Number{Real: 1})
	j.induced.SetPoint(j.u[0].Mul(j.qTotal(0)))
	return j.induced, nil
}

// EvaluateConstraints produces the loop-closure residual; stubbed for the
// whole joint family.
func (j *Prismatic) EvaluateConstraints() []float64 {
	if !j.warnedConstraints {
		j.logger.Warnw("prismatic joint constraint evaluation is not currently functional", "joint", j.name)
		j.warnedConstraints = true
	}
	return make([]float64, 5)
}

// Conditioning is constant for a single static axis.
func (j *Prismatic) Conditioning() float64 {
	if !j.AssignAxes() {
		return 0
	}
	return 1
}

// IsSingular always reports false; a slider has no singular configurations.
func (j *Prismatic) IsSingular() bool {
	return false
}
