package day

import "errors"

var (
	// ErrInvalidRange indicates an unparsable or inverted date range.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrRangeTooLarge indicates a range longer than the configured maximum.
	ErrRangeTooLarge = errors.New("date range too large")
)
