package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/day"
	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/domain/stamp"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
	cause        error
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	apiErr := func(code, hint string) *APIError {
		return &APIError{Code: code, Message: err.Error(), RecoveryHint: hint, cause: err}
	}
	switch {
	case errors.Is(err, activity.ErrActivityNotFound):
		return apiErr("ACTIVITY_NOT_FOUND", "Call list_activities for valid IDs")
	case errors.Is(err, stamp.ErrUnknownActivity):
		return apiErr("UNKNOWN_ACTIVITY", "Call list_activities for valid IDs")
	case errors.Is(err, stamp.ErrStampNotFound):
		return apiErr("STAMP_NOT_FOUND", "")
	case errors.Is(err, regime.ErrRegimeNotFound):
		return apiErr("REGIME_NOT_FOUND", "Call list_regimes for valid IDs")
	case errors.Is(err, regime.ErrValidation):
		return apiErr("INVALID_REGIME", "Use HH:mm times and non-overlapping intervals")
	case errors.Is(err, day.ErrInvalidRange):
		return apiErr("INVALID_RANGE", "Use YYYY-MM-DD dates with from <= to")
	case errors.Is(err, day.ErrRangeTooLarge):
		return apiErr("RANGE_TOO_LARGE", "Request fewer days")
	case errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, stamp.ErrInvalidInput),
		errors.Is(err, regime.ErrInvalidInput):
		return apiErr("INVALID_INPUT", "")
	default:
		return nil
	}
}

// toolError prefers the mapped form of err so callers see a stable code.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
