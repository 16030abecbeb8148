package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rpggio/timebank/internal/domain/activity"
	"github.com/rpggio/timebank/internal/domain/day"
	"github.com/rpggio/timebank/internal/domain/journal"
	"github.com/rpggio/timebank/internal/domain/regime"
	"github.com/rpggio/timebank/internal/domain/stamp"
	"github.com/rpggio/timebank/internal/domain/user"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the JSON error payload.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Code: code, Message: message})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

var (
	errBadRequest = errors.New("malformed request")
	errForbidden  = errors.New("admin access required")
)

// statusFor maps domain errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, activity.ErrActivityNotFound),
		errors.Is(err, stamp.ErrStampNotFound),
		errors.Is(err, regime.ErrRegimeNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errBadRequest),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, stamp.ErrInvalidInput),
		errors.Is(err, stamp.ErrUnknownActivity),
		errors.Is(err, regime.ErrInvalidInput),
		errors.Is(err, regime.ErrValidation),
		errors.Is(err, day.ErrInvalidRange),
		errors.Is(err, day.ErrRangeTooLarge),
		errors.Is(err, journal.ErrInvalidInput),
		errors.Is(err, user.ErrInvalidTimezone),
		errors.Is(err, user.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if s.logger != nil {
			s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}

func logAttrs(r *http.Request, status int) []any {
	return []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
	}
}
