package stamp

import "errors"

var (
	// ErrStampNotFound indicates the stamp doesn't exist.
	ErrStampNotFound = errors.New("stamp not found")
	// ErrInvalidInput indicates invalid stamp input.
	ErrInvalidInput = errors.New("invalid stamp input")
	// ErrUnknownActivity indicates a start stamp names an activity the user doesn't own.
	ErrUnknownActivity = errors.New("unknown activity")
)
