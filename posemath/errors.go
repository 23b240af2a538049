package posemath

import "github.com/pkg/errors"

// frameName renders a frame reference for error messages.
func frameName(p *Pose) string {
	if p == nil {
		return "<nil>"
	}
	return p.Name()
}

// NewFrameMismatchError returns an error indicating that an operand was
// expressed in a different frame than the operation requires.
func NewFrameMismatchError(got, want *Pose) error {
	return errors.Errorf("frame mismatch: quantity expressed in frame %q, need frame %q", frameName(got), frameName(want))
}

// NewMissingFrameError returns an error indicating that a quantity was used
// without a frame reference.
func NewMissingFrameError() error {
	return errors.New("frame reference is mandatory and may not be nil")
}

// NewPoseCycleError returns an error indicating that a pose's parent chain does
// not terminate at the world frame.
func NewPoseCycleError(p *Pose) error {
	return errors.Errorf("pose %q is part of a parent cycle and cannot be chained to the world frame", frameName(p))
}
