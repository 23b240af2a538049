// Package posemath defines frame-tagged rigid poses and transforms between them.
// A Pose carries the frame it is expressed relative to; poses chain into a tree
// rooted at the world frame, and transforms between any two frames are found by
// composing along that tree. Quantities tagged with different frames may not be
// combined; such operations fail fast rather than silently producing wrong math.
package posemath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechmath/rigid/spatialmath"
)

// worldPose is the root of every pose tree. It is the only pose with a nil parent.
var worldPose = &Pose{name: "world", orientation: quat.Number{Real: 1}}

// World returns the canonical world frame. Frame identity is pointer identity,
// so all globally-expressed quantities must reference this same pose.
func World() *Pose {
	return worldPose
}

// Pose is a rigid position and orientation expressed relative to a parent pose.
// The parent reference is non-owning: a Pose must not outlive the structure its
// parent belongs to. A Pose doubles as a frame of reference for other quantities.
type Pose struct {
	name        string
	orientation quat.Number
	point       r3.Vector
	parent      *Pose
}

// NewPose creates a pose with the given orientation and translation relative to
// the parent. A nil parent means the pose is expressed in the world frame.
func NewPose(name string, parent *Pose, orientation quat.Number, point r3.Vector) *Pose {
	if parent == nil {
		parent = worldPose
	}
	return &Pose{name: name, orientation: orientation, point: point, parent: parent}
}

// NewZeroPose creates a pose coincident with its parent frame.
func NewZeroPose(name string, parent *Pose) *Pose {
	return NewPose(name, parent, quat.Number{Real: 1}, r3.Vector{})
}

// NewPoseFromAxisAngle creates a pose whose orientation is given as an axis angle.
func NewPoseFromAxisAngle(name string, parent *Pose, aa *spatialmath.R4AA, point r3.Vector) *Pose {
	return NewPose(name, parent, aa.ToQuat(), point)
}

// Name returns the name of the pose. Names are informational; frame identity is
// pointer identity.
func (p *Pose) Name() string {
	return p.name
}

// Parent returns the pose this pose is expressed relative to. The world pose
// returns nil.
func (p *Pose) Parent() *Pose {
	return p.parent
}

// IsWorld reports whether this pose is the world frame.
func (p *Pose) IsWorld() bool {
	return p == worldPose
}

// Orientation returns the rotation from this frame to the parent frame.
func (p *Pose) Orientation() quat.Number {
	return p.orientation
}

// Point returns the origin of this frame expressed in the parent frame.
func (p *Pose) Point() r3.Vector {
	return p.point
}

// SetOrientation replaces the rotation component. Derived quantities cached
// elsewhere (joint spatial axes, transforms) are not invalidated automatically.
func (p *Pose) SetOrientation(o quat.Number) {
	p.orientation = o
}

// SetPoint replaces the translation component.
func (p *Pose) SetPoint(pt r3.Vector) {
	p.point = pt
}

// SetParent re-roots the pose under a new parent, keeping its orientation and
// translation components as expressed in the new parent. A nil parent means
// the world frame. The world frame itself cannot be reparented.
func (p *Pose) SetParent(parent *Pose) error {
	if p.IsWorld() {
		return errors.New("the world frame cannot be reparented")
	}
	if parent == nil {
		parent = worldPose
	}
	p.parent = parent
	return nil
}

// transformToParent returns the rigid map carrying coordinates in this frame to
// coordinates in the parent frame, as a unit dual quaternion.
func (p *Pose) transformToParent() dualquat.Number {
	return newDualQuat(p.orientation, p.point)
}

// PoseAlmostEqual compares the rotation components via the angular-distance
// metric and the translation components via Euclidean distance. Approximate
// comparison is used throughout instead of exact equality since rotation
// composition accumulates floating-point error.
func PoseAlmostEqual(p1, p2 *Pose, tol float64) bool {
	return spatialmath.AngleBetween(p1.orientation, p2.orientation) < tol &&
		p1.point.Sub(p2.point).Norm() < tol
}

// Point3 is a 3-D point tagged with the frame it is expressed in. Points
// receive both rotation and translation under rigid transforms.
type Point3 struct {
	V     r3.Vector
	Frame *Pose
}

// Vector3 is a free 3-D vector tagged with the frame it is expressed in. Free
// vectors receive rotation only under rigid transforms.
type Vector3 struct {
	V     r3.Vector
	Frame *Pose
}

// NewPoint3 creates a frame-tagged point.
func NewPoint3(v r3.Vector, frame *Pose) Point3 {
	return Point3{V: v, Frame: frame}
}

// NewVector3 creates a frame-tagged free vector.
func NewVector3(v r3.Vector, frame *Pose) Vector3 {
	return Vector3{V: v, Frame: frame}
}

// TransformTo re-expresses the point in the target frame, composing along the
// pose tree.
func (pt Point3) TransformTo(target *Pose) (Point3, error) {
	t, err := TransformBetween(pt.Frame, target)
	if err != nil {
		return Point3{}, err
	}
	return t.TransformPoint(pt)
}

// TransformTo re-expresses the free vector in the target frame, composing along
// the pose tree.
func (v Vector3) TransformTo(target *Pose) (Vector3, error) {
	t, err := TransformBetween(v.Frame, target)
	if err != nil {
		return Vector3{}, err
	}
	return t.TransformVector(v)
}

// newDualQuat builds the unit dual quaternion for the rigid map x' = R x + t.
func newDualQuat(r quat.Number, t r3.Vector) dualquat.Number {
	return dualquat.Number{
		Real: r,
		Dual: quat.Mul(quat.Number{Imag: t.X / 2, Jmag: t.Y / 2, Kmag: t.Z / 2}, r),
	}
}

// dualQuatTranslation recovers the translation of a unit dual quaternion.
// Multiplying by the conjugate leaves the identity rotation and the full
// translation in the dual part.
func dualQuatTranslation(dq dualquat.Number) r3.Vector {
	t := dualquat.Mul(dq, dualquat.Conj(dq)).Dual
	return r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}
}

// dualQuatRigidInverse returns the inverse rigid map of a unit dual quaternion:
// rotation conjugated, translation carried to -R^T x.
func dualQuatRigidInverse(dq dualquat.Number) dualquat.Number {
	rInv := quat.Conj(dq.Real)
	t := dualQuatTranslation(dq)
	return newDualQuat(rInv, spatialmath.RotateVector(rInv, t).Mul(-1))
}
