package errors

import "errors"

var (
	// requested entity is not found.
	ErrMissing = errors.New("missing")

	// requested entity is found more than expected.
	ErrTooMuch = errors.New("too much")

	// the operation conflicts with existing entity.
	ErrConflict = errors.New("conflict")

	// given value does not meet constraints.
	ErrInvalidInput = errors.New("invalid input")
)
