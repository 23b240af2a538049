package spatialmath

import "github.com/pkg/errors"

// newBadRotationMatrixLengthError returns an error for a rotation matrix built from the wrong number of elements.
func newBadRotationMatrixLengthError(length int) error {
	return errors.Errorf("need 9 numbers to create a rotation matrix, got %d", length)
}
