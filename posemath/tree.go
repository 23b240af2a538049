package posemath

import (
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Traceback walks the parentage of the given pose up to the world frame and
// returns the full chain, query pose first and world last. A parent chain that
// never reaches the world (a cycle) is an error.
func Traceback(p *Pose) ([]*Pose, error) {
	if p == nil {
		return nil, NewMissingFrameError()
	}
	seen := map[*Pose]bool{}
	var chain []*Pose
	for cur := p; ; cur = cur.Parent() {
		if seen[cur] {
			return nil, NewPoseCycleError(p)
		}
		seen[cur] = true
		chain = append(chain, cur)
		if cur.IsWorld() {
			return chain, nil
		}
	}
}

// worldFromPose composes the rigid maps along the parent chain, yielding the
// map carrying coordinates in p into world coordinates.
func worldFromPose(p *Pose) (dualquat.Number, error) {
	chain, err := Traceback(p)
	if err != nil {
		return dualquat.Number{}, err
	}
	dq := dualquat.Number{Real: quat.Number{Real: 1}}
	for _, cur := range chain {
		if cur.IsWorld() {
			break
		}
		dq = dualquat.Mul(cur.transformToParent(), dq)
	}
	return dq, nil
}

// TransformBetween returns the transform carrying quantities expressed in the
// from frame into the to frame. The two poses need not be directly linked: both
// parent chains are walked to the world root, which is always a valid common
// ancestor, and the inverse of one chain is composed with the other.
func TransformBetween(from, to *Pose) (*Transform, error) {
	if from == nil || to == nil {
		return nil, NewMissingFrameError()
	}
	if from == to {
		return NewIdentityTransform(from), nil
	}

	worldFromA, err := worldFromPose(from)
	if err != nil {
		return nil, err
	}
	worldFromB, err := worldFromPose(to)
	if err != nil {
		return nil, err
	}

	return &Transform{
		dq:     dualquat.Mul(dualQuatRigidInverse(worldFromB), worldFromA),
		source: from,
		target: to,
	}, nil
}

// TransformToWorld returns the transform carrying quantities in the given frame
// into the world frame.
func TransformToWorld(from *Pose) (*Transform, error) {
	return TransformBetween(from, worldPose)
}
