// Package screw implements six-dimensional spatial vectors for rigid-body
// kinematics. A screw pairs an angular and a linear 3-vector and is tagged with
// the pose frame it is expressed in. Motion-type screws (axes, velocities) and
// force-type screws (forces, momenta) are algebraic duals: their pairing is the
// reciprocal product, which computes power and is invariant to the reference
// point chosen, so long as both operands agree on the frame.
package screw

import (
	"github.com/golang/geo/r3"

	"github.com/mechmath/rigid/posemath"
	"github.com/mechmath/rigid/spatialmath"
)

// Kind discriminates the semantic variants sharing the 6-vector layout.
type Kind uint8

// The four screw kinds.
const (
	KindAxis Kind = iota // unit direction of one joint degree of freedom
	KindVelocity
	KindForce
	KindMomentum
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindAxis:
		return "axis"
	case KindVelocity:
		return "velocity"
	case KindForce:
		return "force"
	case KindMomentum:
		return "momentum"
	default:
		return "unknown"
	}
}

// IsMotion reports whether the kind is motion-type. Axes are motion-type: a
// spatial axis is a column of a velocity-mapping Jacobian.
func (k Kind) IsMotion() bool {
	return k == KindAxis || k == KindVelocity
}

// Screw is a frame-tagged six-dimensional spatial vector. Angular holds the
// rotational half (angular velocity, or moment for force-type screws) and
// Linear the translational half (linear velocity, or force).
type Screw struct {
	Angular r3.Vector
	Linear  r3.Vector

	kind  Kind
	frame *posemath.Pose
}

// New creates a screw of the given kind. The frame is mandatory; constructing a
// screw without one would silently assume the global frame, which is exactly
// the bug class frame tagging exists to prevent.
func New(kind Kind, frame *posemath.Pose, angular, linear r3.Vector) (*Screw, error) {
	if frame == nil {
		return nil, posemath.NewMissingFrameError()
	}
	return &Screw{Angular: angular, Linear: linear, kind: kind, frame: frame}, nil
}

// NewAxis creates a spatial axis screw.
func NewAxis(frame *posemath.Pose, angular, linear r3.Vector) (*Screw, error) {
	return New(KindAxis, frame, angular, linear)
}

// NewVelocity creates a spatial velocity (twist).
func NewVelocity(frame *posemath.Pose, angular, linear r3.Vector) (*Screw, error) {
	return New(KindVelocity, frame, angular, linear)
}

// NewForce creates a spatial force (wrench).
func NewForce(frame *posemath.Pose, angular, linear r3.Vector) (*Screw, error) {
	return New(KindForce, frame, angular, linear)
}

// NewMomentum creates a spatial momentum.
func NewMomentum(frame *posemath.Pose, angular, linear r3.Vector) (*Screw, error) {
	return New(KindMomentum, frame, angular, linear)
}

// NewZero creates the zero screw of the given kind.
func NewZero(kind Kind, frame *posemath.Pose) (*Screw, error) {
	return New(kind, frame, r3.Vector{}, r3.Vector{})
}

// Kind returns the semantic kind of the screw.
func (s *Screw) Kind() Kind {
	return s.kind
}

// Frame returns the frame the screw is expressed in.
func (s *Screw) Frame() *posemath.Pose {
	return s.frame
}

// Add returns s + other. Both operands must share kind and frame.
func (s *Screw) Add(other *Screw) (*Screw, error) {
	if err := s.checkCompatible(other); err != nil {
		return nil, err
	}
	return &Screw{
		Angular: s.Angular.Add(other.Angular),
		Linear:  s.Linear.Add(other.Linear),
		kind:    s.kind,
		frame:   s.frame,
	}, nil
}

// Sub returns s - other. Both operands must share kind and frame.
func (s *Screw) Sub(other *Screw) (*Screw, error) {
	if err := s.checkCompatible(other); err != nil {
		return nil, err
	}
	return &Screw{
		Angular: s.Angular.Sub(other.Angular),
		Linear:  s.Linear.Sub(other.Linear),
		kind:    s.kind,
		frame:   s.frame,
	}, nil
}

// Scale returns the screw scaled by a scalar. Scaling is frame-independent.
func (s *Screw) Scale(c float64) *Screw {
	return &Screw{Angular: s.Angular.Mul(c), Linear: s.Linear.Mul(c), kind: s.kind, frame: s.frame}
}

// Neg returns the screw with both halves negated.
func (s *Screw) Neg() *Screw {
	return s.Scale(-1)
}

func (s *Screw) checkCompatible(other *Screw) error {
	if s.frame != other.frame {
		return posemath.NewFrameMismatchError(other.frame, s.frame)
	}
	if s.kind != other.kind {
		return NewKindMismatchError(other.kind, s.kind)
	}
	return nil
}

// Dot computes the reciprocal screw product between a motion-type and a
// force-type screw. The rotational half of the motion operand pairs with the
// moment half of the force operand, and the translational half with the force
// half; in Pluecker coordinates, where a wrench is written force-first, this is
// the cross-paired sum of the two 6-vectors rather than an elementwise dot.
// For a velocity and a force the result is mechanical power, invariant to the
// reference point as long as both operands share a frame. The product is
// symmetric and bilinear.
func Dot(a, b *Screw) (float64, error) {
	if a.frame != b.frame {
		return 0, posemath.NewFrameMismatchError(b.frame, a.frame)
	}
	if a.kind.IsMotion() == b.kind.IsMotion() {
		return 0, NewDualityError(a.kind, b.kind)
	}
	return a.Angular.Dot(b.Angular) + a.Linear.Dot(b.Linear), nil
}

// CrossMotion returns the spatial cross product of a motion screw with another
// motion screw, vxm = (w x w2, w x v2 + v x w2). This is the derivative
// coupling term when differentiating motion quantities in a moving frame.
func (s *Screw) CrossMotion(other *Screw) (*Screw, error) {
	if !s.kind.IsMotion() || !other.kind.IsMotion() {
		return nil, NewDualityError(s.kind, other.kind)
	}
	if s.frame != other.frame {
		return nil, posemath.NewFrameMismatchError(other.frame, s.frame)
	}
	return &Screw{
		Angular: s.Angular.Cross(other.Angular),
		Linear:  s.Angular.Cross(other.Linear).Add(s.Linear.Cross(other.Angular)),
		kind:    other.kind,
		frame:   s.frame,
	}, nil
}

// CrossForce returns the spatial cross product of a motion screw with a
// force-type screw, vxf = (w x n + v x f, w x f).
func (s *Screw) CrossForce(other *Screw) (*Screw, error) {
	if !s.kind.IsMotion() || other.kind.IsMotion() {
		return nil, NewDualityError(s.kind, other.kind)
	}
	if s.frame != other.frame {
		return nil, posemath.NewFrameMismatchError(other.frame, s.frame)
	}
	return &Screw{
		Angular: s.Angular.Cross(other.Angular).Add(s.Linear.Cross(other.Linear)),
		Linear:  s.Angular.Cross(other.Linear),
		kind:    other.kind,
		frame:   s.frame,
	}, nil
}

// TransformTo re-expresses the screw in the target frame, composing the pose
// chain between the two frames. The frame-change rule differs by duality class:
// with (R, p) the map carrying source coordinates into the target frame,
//
//	motion: ang' = R ang;              lin' = R lin + p x (R ang)
//	force:  ang' = R ang + p x (R lin); lin' = R lin
//
// The translation couples angular into linear for motion screws and linear into
// angular for force screws (the transpose coupling), which is what keeps the
// reciprocal product invariant under frame changes.
func (s *Screw) TransformTo(target *posemath.Pose) (*Screw, error) {
	if target == nil {
		return nil, posemath.NewMissingFrameError()
	}
	if target == s.frame {
		out := *s
		return &out, nil
	}
	t, err := posemath.TransformBetween(s.frame, target)
	if err != nil {
		return nil, err
	}

	r := t.Rotation()
	p := t.Translation()
	ang := spatialmath.RotateVector(r, s.Angular)
	lin := spatialmath.RotateVector(r, s.Linear)

	out := &Screw{kind: s.kind, frame: target}
	if s.kind.IsMotion() {
		out.Angular = ang
		out.Linear = lin.Add(p.Cross(ang))
	} else {
		out.Angular = ang.Add(p.Cross(lin))
		out.Linear = lin
	}
	return out, nil
}

// AlmostEqual compares two screws elementwise within tol. Screws in different
// frames or of different kinds are never equal.
func (s *Screw) AlmostEqual(other *Screw, tol float64) bool {
	return s.frame == other.frame && s.kind == other.kind &&
		spatialmath.R3VectorAlmostEqual(s.Angular, other.Angular, tol) &&
		spatialmath.R3VectorAlmostEqual(s.Linear, other.Linear, tol)
}
