package posemath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechmath/rigid/spatialmath"
)

// Transform is an explicit rigid map between two named frames: it carries
// quantities expressed in the source frame into the target frame. The rigid
// map itself is held as a unit dual quaternion.
type Transform struct {
	dq     dualquat.Number
	source *Pose
	target *Pose
}

// NewTransform creates the transform x_target = R x_source + t.
func NewTransform(source, target *Pose, orientation quat.Number, point r3.Vector) *Transform {
	return &Transform{dq: newDualQuat(orientation, point), source: source, target: target}
}

// NewIdentityTransform creates the identity transform within a single frame.
func NewIdentityTransform(frame *Pose) *Transform {
	return NewTransform(frame, frame, quat.Number{Real: 1}, r3.Vector{})
}

// Source returns the frame transformed quantities must be expressed in.
func (t *Transform) Source() *Pose {
	return t.source
}

// Target returns the frame transformed quantities are expressed in afterwards.
func (t *Transform) Target() *Pose {
	return t.target
}

// Rotation returns the rotation component.
func (t *Transform) Rotation() quat.Number {
	return t.dq.Real
}

// RotationMatrix returns the rotation component as a 3x3 matrix.
func (t *Transform) RotationMatrix() *spatialmath.RotationMatrix {
	return spatialmath.NewRotationMatrixFromQuat(t.dq.Real)
}

// Translation returns the translation component.
func (t *Transform) Translation() r3.Vector {
	return dualQuatTranslation(t.dq)
}

// Compose chains two transforms: the result carries source(t1) quantities into
// target(t2). The frames must meet in the middle, target(t1) == source(t2).
func Compose(t1, t2 *Transform) (*Transform, error) {
	if t1.target != t2.source {
		return nil, NewFrameMismatchError(t1.target, t2.source)
	}
	return &Transform{
		dq:     dualquat.Mul(t2.dq, t1.dq),
		source: t1.source,
		target: t2.target,
	}, nil
}

// Invert returns the reverse map: source and target swap, R' = R^T and
// x' = -R^T x.
func (t *Transform) Invert() *Transform {
	return &Transform{
		dq:     dualQuatRigidInverse(t.dq),
		source: t.target,
		target: t.source,
	}
}

// TransformPoint maps a point expressed in the source frame into the target
// frame, applying rotation and translation.
func (t *Transform) TransformPoint(p Point3) (Point3, error) {
	if p.Frame == nil {
		return Point3{}, NewMissingFrameError()
	}
	if p.Frame != t.source {
		return Point3{}, NewFrameMismatchError(p.Frame, t.source)
	}
	out := spatialmath.RotateVector(t.dq.Real, p.V).Add(t.Translation())
	return Point3{V: out, Frame: t.target}, nil
}

// TransformVector maps a free vector expressed in the source frame into the
// target frame, applying rotation only.
func (t *Transform) TransformVector(v Vector3) (Vector3, error) {
	if v.Frame == nil {
		return Vector3{}, NewMissingFrameError()
	}
	if v.Frame != t.source {
		return Vector3{}, NewFrameMismatchError(v.Frame, t.source)
	}
	return Vector3{V: spatialmath.RotateVector(t.dq.Real, v.V), Frame: t.target}, nil
}

// InverseTransformPoint maps a point expressed in the target frame back into
// the source frame.
func (t *Transform) InverseTransformPoint(p Point3) (Point3, error) {
	return t.Invert().TransformPoint(p)
}

// InverseTransformVector maps a free vector expressed in the target frame back
// into the source frame.
func (t *Transform) InverseTransformVector(v Vector3) (Vector3, error) {
	return t.Invert().TransformVector(v)
}

// TransformPose applies the transform to a pose expressed in the source frame,
// yielding an equivalent pose expressed in the target frame.
func (t *Transform) TransformPose(p *Pose) (*Pose, error) {
	if p.Parent() != t.source {
		return nil, NewFrameMismatchError(p.Parent(), t.source)
	}
	dq := dualquat.Mul(t.dq, p.transformToParent())
	return NewPose(p.Name(), t.target, dq.Real, dualQuatTranslation(dq)), nil
}

// TransformAlmostEqual compares the rotation components via angular distance
// and the translation components via Euclidean distance. Frame tags are not
// compared; callers compare against identity transforms in whatever frame the
// consistency check lives in.
func TransformAlmostEqual(t1, t2 *Transform, tol float64) bool {
	return spatialmath.AngleBetween(t1.dq.Real, t2.dq.Real) < tol &&
		t1.Translation().Sub(t2.Translation()).Norm() < tol
}
