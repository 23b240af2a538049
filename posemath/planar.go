package posemath

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Planar counterparts of Pose and Transform, for mechanisms constrained to a
// plane. Rotations reduce to a single angle, so the machinery is much lighter:
// orientations compose by addition and the tree walk carries angles and 2-D
// offsets only.

// world2Pose is the root of every planar pose tree.
var world2Pose = &Pose2{name: "world"}

// World2 returns the canonical planar world frame.
func World2() *Pose2 {
	return world2Pose
}

// WrapAngle wraps an angle to (-pi, pi].
func WrapAngle(theta float64) float64 {
	wrapped := math.Mod(theta, 2*math.Pi)
	if wrapped > math.Pi {
		wrapped -= 2 * math.Pi
	} else if wrapped <= -math.Pi {
		wrapped += 2 * math.Pi
	}
	return wrapped
}

// Pose2 is a planar rigid position and orientation expressed relative to a
// parent planar pose.
type Pose2 struct {
	name   string
	theta  float64
	point  r2.Point
	parent *Pose2
}

// NewPose2 creates a planar pose relative to the parent. A nil parent means the
// planar world frame.
func NewPose2(name string, parent *Pose2, theta float64, point r2.Point) *Pose2 {
	if parent == nil {
		parent = world2Pose
	}
	return &Pose2{name: name, theta: WrapAngle(theta), point: point, parent: parent}
}

// Name returns the name of the planar pose.
func (p *Pose2) Name() string {
	return p.name
}

// Parent returns the parent planar pose; nil for the planar world.
func (p *Pose2) Parent() *Pose2 {
	return p.parent
}

// IsWorld reports whether this pose is the planar world frame.
func (p *Pose2) IsWorld() bool {
	return p == world2Pose
}

// Theta returns the rotation angle from this frame to the parent frame.
func (p *Pose2) Theta() float64 {
	return p.theta
}

// Point returns the origin of this frame expressed in the parent frame.
func (p *Pose2) Point() r2.Point {
	return p.point
}

// rotate2 rotates a 2-vector by theta.
func rotate2(theta float64, v r2.Point) r2.Point {
	c, s := math.Cos(theta), math.Sin(theta)
	return r2.Point{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y}
}

// Transform2 is an explicit planar rigid map between two planar frames.
type Transform2 struct {
	theta  float64
	point  r2.Point
	source *Pose2
	target *Pose2
}

// NewTransform2 creates the planar transform x_target = R(theta) x_source + t.
func NewTransform2(source, target *Pose2, theta float64, point r2.Point) *Transform2 {
	return &Transform2{theta: WrapAngle(theta), point: point, source: source, target: target}
}

// Source returns the source frame tag.
func (t *Transform2) Source() *Pose2 {
	return t.source
}

// Target returns the target frame tag.
func (t *Transform2) Target() *Pose2 {
	return t.target
}

// Theta returns the rotation angle.
func (t *Transform2) Theta() float64 {
	return t.theta
}

// Translation returns the translation component.
func (t *Transform2) Translation() r2.Point {
	return t.point
}

// Compose2 chains two planar transforms; target(t1) must equal source(t2).
func Compose2(t1, t2 *Transform2) (*Transform2, error) {
	if t1.target != t2.source {
		return nil, errors.Errorf("frame mismatch: planar transform into %q composed with transform out of %q",
			pose2Name(t1.target), pose2Name(t2.source))
	}
	return &Transform2{
		theta:  WrapAngle(t1.theta + t2.theta),
		point:  rotate2(t2.theta, t1.point).Add(t2.point),
		source: t1.source,
		target: t2.target,
	}, nil
}

// Invert returns the reverse planar map.
func (t *Transform2) Invert() *Transform2 {
	return &Transform2{
		theta:  WrapAngle(-t.theta),
		point:  rotate2(-t.theta, t.point).Mul(-1),
		source: t.target,
		target: t.source,
	}
}

// TransformPoint maps a planar point from the source frame into the target frame.
func (t *Transform2) TransformPoint(v r2.Point) r2.Point {
	return rotate2(t.theta, v).Add(t.point)
}

// TransformVector maps a free planar vector from the source frame into the
// target frame, rotation only.
func (t *Transform2) TransformVector(v r2.Point) r2.Point {
	return rotate2(t.theta, v)
}

// InverseTransformPoint maps a planar point from the target frame back into the
// source frame.
func (t *Transform2) InverseTransformPoint(v r2.Point) r2.Point {
	return t.Invert().TransformPoint(v)
}

// Transform2AlmostEqual compares planar transforms by wrapped angular distance
// and translation distance.
func Transform2AlmostEqual(t1, t2 *Transform2, tol float64) bool {
	return math.Abs(WrapAngle(t1.theta-t2.theta)) < tol &&
		t1.point.Sub(t2.point).Norm() < tol
}

// TransformBetween2 returns the planar transform carrying quantities in the
// from frame into the to frame, composing along the planar pose tree.
func TransformBetween2(from, to *Pose2) (*Transform2, error) {
	if from == nil || to == nil {
		return nil, NewMissingFrameError()
	}
	if from == to {
		return NewTransform2(from, from, 0, r2.Point{}), nil
	}
	thetaA, pointA, err := world2FromPose(from)
	if err != nil {
		return nil, err
	}
	thetaB, pointB, err := world2FromPose(to)
	if err != nil {
		return nil, err
	}
	// world->B inverse composed with A->world
	return &Transform2{
		theta:  WrapAngle(thetaA - thetaB),
		point:  rotate2(-thetaB, pointA.Sub(pointB)),
		source: from,
		target: to,
	}, nil
}

// world2FromPose composes the planar rigid maps along the parent chain.
func world2FromPose(p *Pose2) (float64, r2.Point, error) {
	theta, point := 0.0, r2.Point{}
	seen := map[*Pose2]bool{}
	for cur := p; !cur.IsWorld(); cur = cur.Parent() {
		if seen[cur] {
			return 0, r2.Point{}, errors.Errorf("planar pose %q is part of a parent cycle", p.name)
		}
		seen[cur] = true
		point = rotate2(cur.theta, point).Add(cur.point)
		theta = WrapAngle(theta + cur.theta)
	}
	return theta, point, nil
}

func pose2Name(p *Pose2) string {
	if p == nil {
		return "<nil>"
	}
	return p.name
}
