package pmefft

import "errors"

// Sentinel errors shared by the pmefft packages.
var (
	// ErrInvalidShape is returned when a grid dimension is not positive.
	ErrInvalidShape = errors.New("pmefft: invalid grid shape")

	// ErrPrecisionMismatch is returned when a buffer or plan was created at
	// a precision other than the one requested.
	ErrPrecisionMismatch = errors.New("pmefft: precision mismatch")
)
