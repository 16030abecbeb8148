package regime

import "errors"

var (
	// ErrRegimeNotFound indicates the regime doesn't exist.
	ErrRegimeNotFound = errors.New("regime not found")
	// ErrInvalidInput indicates invalid regime input.
	ErrInvalidInput = errors.New("invalid regime input")
	// ErrValidation indicates the regime's intervals failed validation.
	ErrValidation = errors.New("invalid regime intervals")
)
