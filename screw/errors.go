package screw

import "github.com/pkg/errors"

// NewKindMismatchError returns an error for arithmetic between screws of
// different kinds.
func NewKindMismatchError(got, want Kind) error {
	return errors.Errorf("screw kind mismatch: got %s, need %s", got, want)
}

// NewDualityError returns an error for a pairing that requires one motion-type
// and one force-type operand.
func NewDualityError(a, b Kind) error {
	return errors.Errorf("reciprocal pairing requires one motion-type and one force-type screw, got %s and %s", a, b)
}
