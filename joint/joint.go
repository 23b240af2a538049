// Package joint models mechanical joints connecting pairs of rigid bodies. A
// joint maps a small vector of generalized coordinates to the relative spatial
// motion between its inboard and outboard bodies: each degree of freedom
// contributes one spatial axis (a Jacobian column expressed as a screw), and
// the induced pose between the bodies follows from the current coordinates.
//
// Spatial axes and their time derivatives are derived state. They are cached
// with an explicit current/stale tag, invalidated whenever the generalized
// coordinates change, and recomputed on demand. A joint instance is not safe
// for concurrent mutation; external serialization is the caller's job, one
// writer per joint per kinematic step.
package joint

import (
	"github.com/edaniels/golog"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/mechmath/rigid/posemath"
	"github.com/mechmath/rigid/screw"
)

// defaultSingularTol is the conditioning threshold below which a configuration
// is reported singular.
const defaultSingularTol = 1e-2

// axisEps is the norm below which an axis slot is considered unset.
const axisEps = 1e-8

// Joint is the kinematic contract a concrete joint type fulfills. The set of
// implementations is closed: Spherical, Universal, Revolute, Prismatic.
type Joint interface {
	// Name returns the name of the joint.
	Name() string

	// DoF returns the number of degrees of freedom, fixed per joint type.
	DoF() int

	// Frame returns the joint's own frame, in which its axes are stored.
	Frame() *posemath.Pose

	// SetBodies sets the non-owning inboard and outboard body references.
	SetBodies(inboard, outboard *posemath.Pose)

	// SetAxis normalizes the given direction, re-expresses it in the joint
	// frame and stores it as the i-th axis. The spatial-axis cache goes stale.
	SetAxis(i int, axis posemath.Vector3) error

	// Axis returns the i-th axis in the current configuration: axes beyond the
	// first are rotated by the elementary rotations of all lower-indexed
	// coordinates.
	Axis(i int) (posemath.Vector3, error)

	// AssignAxes completes however many axes are set into a right-handed
	// orthonormal basis. Returns false when underdetermined (no axes set).
	AssignAxes() bool

	// Positions returns a copy of the generalized position vector q.
	Positions() []float64

	// SetPositions replaces q and marks the spatial-axis cache stale.
	SetPositions(q []float64) error

	// Velocities returns a copy of the generalized velocity vector qd.
	Velocities() []float64

	// SetVelocities replaces qd and marks the spatial-axis cache stale.
	SetVelocities(qd []float64) error

	// Tare returns a copy of the tare offsets added to q before use.
	Tare() []float64

	// SetTare replaces the tare offsets and marks the cache stale.
	SetTare(tare []float64) error

	// UpdateSpatialAxes recomputes the spatial axes and their derivatives from
	// the current coordinates and marks the cache current.
	UpdateSpatialAxes() error

	// SpatialAxes returns the per-DoF spatial axes in the joint frame,
	// recomputing first if the cache is stale.
	SpatialAxes() ([]*screw.Screw, error)

	// SpatialAxesDot returns the time derivatives of the spatial axes.
	SpatialAxesDot() ([]*screw.Screw, error)

	// Rotation returns the net relative rotation induced by the joint at the
	// current coordinates.
	Rotation() (quat.Number, error)

	// InducedPose returns the relative pose between the inboard and outboard
	// frames induced by the current coordinates, expressed relative to the
	// joint frame.
	InducedPose() (*posemath.Pose, error)

	// EvaluateConstraints produces the loop-closure residual between the two
	// attachment points computed via independent paths.
	EvaluateConstraints() []float64

	// Conditioning returns a configuration-dependent conditioning metric; near
	// zero means the spatial axes are losing rank.
	Conditioning() float64

	// IsSingular reports whether the conditioning metric is below the joint's
	// singular tolerance.
	IsSingular() bool
}

// Option configures a joint at construction.
type Option func(*baseJoint)

// WithLogger sets the logger the joint reports through.
func WithLogger(logger golog.Logger) Option {
	return func(jb *baseJoint) {
		jb.logger = logger
	}
}

// WithSingularTolerance overrides the conditioning threshold below which the
// configuration is reported singular.
func WithSingularTolerance(tol float64) Option {
	return func(jb *baseJoint) {
		jb.singularTol = tol
	}
}

// baseJoint carries the state shared by every joint type: generalized
// coordinates, tare offsets, stored axes, the derived-state cache and its tag.
type baseJoint struct {
	name  string
	frame *posemath.Pose

	inboard  *posemath.Pose
	outboard *posemath.Pose

	q     *mgl64.VecN
	qd    *mgl64.VecN
	qTare *mgl64.VecN

	// axes in the joint frame; a slot of near-zero norm is unset
	u []r3.Vector

	s    []*screw.Screw
	sDot []*screw.Screw

	axesAssigned   bool
	spatialCurrent bool

	singularTol float64
	logger      golog.Logger

	warnedConstraints bool
}

func newBaseJoint(name string, frame *posemath.Pose, dof int, opts ...Option) *baseJoint {
	jb := &baseJoint{
		name:        name,
		frame:       frame,
		q:           mgl64.NewVecN(dof),
		qd:          mgl64.NewVecN(dof),
		qTare:       mgl64.NewVecN(dof),
		u:           make([]r3.Vector, dof),
		s:           make([]*screw.Screw, dof),
		sDot:        make([]*screw.Screw, dof),
		singularTol: defaultSingularTol,
		logger:      golog.Global(),
	}
	jb.q.Zero(dof)
	jb.qd.Zero(dof)
	jb.qTare.Zero(dof)
	for _, opt := range opts {
		opt(jb)
	}
	return jb
}

// Name returns the name of the joint.
func (jb *baseJoint) Name() string {
	return jb.name
}

// DoF returns the joint's number of degrees of freedom.
func (jb *baseJoint) DoF() int {
	return len(jb.u)
}

// Frame returns the joint's own frame.
func (jb *baseJoint) Frame() *posemath.Pose {
	return jb.frame
}

// SetBodies sets the non-owning inboard and outboard body references.
func (jb *baseJoint) SetBodies(inboard, outboard *posemath.Pose) {
	jb.inboard = inboard
	jb.outboard = outboard
}

// Inboard returns the inboard body pose, nil if unset.
func (jb *baseJoint) Inboard() *posemath.Pose {
	return jb.inboard
}

// Outboard returns the outboard body pose, nil if unset.
func (jb *baseJoint) Outboard() *posemath.Pose {
	return jb.outboard
}

// Positions returns a copy of the generalized position vector.
func (jb *baseJoint) Positions() []float64 {
	return copyVec(jb.q)
}

// SetPositions replaces the generalized position vector. The spatial-axis
// cache goes stale and must not be read until recomputed.
func (jb *baseJoint) SetPositions(q []float64) error {
	if len(q) != jb.DoF() {
		return NewSizeMismatchError(len(q), jb.DoF())
	}
	jb.q = vecFromSlice(q)
	jb.spatialCurrent = false
	return nil
}

// Velocities returns a copy of the generalized velocity vector.
func (jb *baseJoint) Velocities() []float64 {
	return copyVec(jb.qd)
}

// SetVelocities replaces the generalized velocity vector and marks the cache
// stale; the spatial-axis derivatives depend on qd.
func (jb *baseJoint) SetVelocities(qd []float64) error {
	if len(qd) != jb.DoF() {
		return NewSizeMismatchError(len(qd), jb.DoF())
	}
	jb.qd = vecFromSlice(qd)
	jb.spatialCurrent = false
	return nil
}

// Tare returns a copy of the tare offsets.
func (jb *baseJoint) Tare() []float64 {
	return copyVec(jb.qTare)
}

// SetTare replaces the tare offsets applied to q before use.
func (jb *baseJoint) SetTare(tare []float64) error {
	if len(tare) != jb.DoF() {
		return NewSizeMismatchError(len(tare), jb.DoF())
	}
	jb.qTare = vecFromSlice(tare)
	jb.spatialCurrent = false
	return nil
}

// qTotal returns q[i] + tare[i], the coordinate value actually used by the
// kinematics.
func (jb *baseJoint) qTotal(i int) float64 {
	return jb.q.Get(i) + jb.qTare.Get(i)
}

// storeAxis normalizes the given direction, re-expresses it in the joint frame
// and stores it in slot i.
func (jb *baseJoint) storeAxis(i int, axis posemath.Vector3) error {
	if i < 0 || i >= jb.DoF() {
		return NewInvalidIndexError(i, jb.DoF())
	}
	if axis.V.Norm() < axisEps {
		return NewZeroAxisError(i)
	}
	axis.V = axis.V.Normalize()
	local, err := axis.TransformTo(jb.frame)
	if err != nil {
		return err
	}
	jb.u[i] = local.V
	jb.axesAssigned = false
	jb.spatialCurrent = false
	return nil
}

// ensureBodies checks the fatal precondition that both body references are set
// before any spatial-axis query.
func (jb *baseJoint) ensureBodies() error {
	if jb.inboard == nil {
		return NewMissingBodyError(jb.name, "inboard")
	}
	if jb.outboard == nil {
		return NewMissingBodyError(jb.name, "outboard")
	}
	return nil
}

// axisSet reports whether axis slot i holds a nonzero direction.
func (jb *baseJoint) axisSet(i int) bool {
	return jb.u[i].Norm() >= axisEps
}

// IsSingular reports whether the joint's conditioning is below tolerance.
// Conditioning is supplied by the concrete joint type.
func (jb *baseJoint) singular(conditioning float64) bool {
	return conditioning < jb.singularTol && conditioning > -jb.singularTol
}

func copyVec(v *mgl64.VecN) []float64 {
	out := make([]float64, len(v.Raw()))
	copy(out, v.Raw())
	return out
}

func vecFromSlice(vals []float64) *mgl64.VecN {
	data := make([]float64, len(vals))
	copy(data, vals)
	return mgl64.NewVecNFromData(data)
}

// the closed set of joint variants
var (
	_ Joint = (*Spherical)(nil)
	_ Joint = (*Universal)(nil)
	_ Joint = (*Revolute)(nil)
	_ Joint = (*Prismatic)(nil)
)
