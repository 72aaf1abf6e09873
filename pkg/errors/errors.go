package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. Details carries
// structured context (unmet conditions, conflicting states) so callers can
// render actionable messages without re-deriving them from raw fields.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials  = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount     = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound            = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden           = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized        = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict            = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed  = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation          = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrConcurrencyConflict = New("CONCURRENCY_CONFLICT", http.StatusConflict, "record was modified by a concurrent operation")
	ErrCacheMiss           = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// InvalidTransition reports a state change outside the allowed adjacency
// table, naming both endpoints.
func InvalidTransition(from, to string) *Error {
	e := New("INVALID_TRANSITION", http.StatusConflict, fmt.Sprintf("cannot transition enrollment from %s to %s", from, to))
	e.Details = map[string]interface{}{"from": from, "to": to}
	return e
}

// CapacityExceeded reports a group with no free seats.
func CapacityExceeded(groupID int64) *Error {
	e := New("CAPACITY_EXCEEDED", http.StatusConflict, "destination group has no free seats")
	e.Details = map[string]interface{}{"group_id": groupID}
	return e
}

// GraduationBlocked reports an unsatisfied graduation gate together with the
// explicit list of unmet conditions.
func GraduationBlocked(unmet []string) *Error {
	e := New("GRADUATION_BLOCKED", http.StatusPreconditionFailed, "enrollment does not meet graduation requirements")
	e.Details = map[string]interface{}{"unmet_conditions": unmet}
	return e
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
