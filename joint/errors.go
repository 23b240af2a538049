package joint

import "github.com/pkg/errors"

// ErrAxesUnassigned indicates a spatial-axis query on a joint whose axes could
// not be completed into a basis. Call SetAxis and AssignAxes first.
var ErrAxesUnassigned = errors.New("joint axes have not been assigned; spatial axes are unavailable")

// ErrNotImplemented indicates an operation the joint family deliberately does
// not support yet.
var ErrNotImplemented = errors.New("not implemented")

// NewInvalidIndexError returns an error for an out-of-range axis or coordinate
// index.
func NewInvalidIndexError(i, dof int) error {
	return errors.Errorf("index %d out of range for a %d-DoF joint", i, dof)
}

// NewSizeMismatchError returns an error for a generalized-coordinate vector of
// the wrong length.
func NewSizeMismatchError(got, want int) error {
	return errors.Errorf("coordinate vector has %d entries, joint has %d degrees of freedom", got, want)
}

// NewMissingBodyError returns an error for a spatial-axis query on a joint with
// a missing body reference. This is a precondition violation, not a recoverable
// condition.
func NewMissingBodyError(jointName, side string) error {
	return errors.Errorf("joint %q has no %s body; spatial axes require both bodies", jointName, side)
}

// NewZeroAxisError returns an error for an attempt to set a zero-length axis.
func NewZeroAxisError(i int) error {
	return errors.Errorf("axis %d may not be the zero vector", i)
}

func newNonUnitAxisError(i int, norm float64) error {
	return errors.Errorf("axis %d has norm %f, not unit length", i, norm)
}

func newNonOrthogonalAxesError(i, k int, dot float64) error {
	return errors.Errorf("axes %d and %d are not orthogonal (dot %f)", i, k, dot)
}
