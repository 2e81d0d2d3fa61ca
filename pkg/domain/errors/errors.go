package errors

import "errors"

var (
	// requested entity does not exist.
	ErrMissing = errors.New("missing")

	// requested entity is found more than expected.
	ErrTooMuch = errors.New("too much")

	// the operation conflicts with an existing entity (e.g. duplicated email).
	ErrConflict = errors.New("conflict")

	// the entity is already in the requested state.
	ErrInvalidState = errors.New("invalid state")
)
