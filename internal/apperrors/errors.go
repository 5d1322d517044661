package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidEntry indicates that a ledger entry failed append-time validation.
// Nothing is persisted when this is returned.
var ErrInvalidEntry = errors.New("invalid ledger entry")

// ErrRateUnavailable indicates that no exchange rate exists for the requested
// (from, to, date) tuple and no provider could supply one.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrSyncFailed indicates that a sync run for a single unit failed after
// exhausting retries. Sibling units are unaffected.
var ErrSyncFailed = errors.New("sync failed")

// ErrConcurrentSync indicates a sync request was rejected because another sync
// for the same unit is already running. Callers should retry later.
var ErrConcurrentSync = errors.New("sync already running for this unit")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Repositories use it to surface infrastructure failures without losing the
// underlying error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that unwraps to ErrValidation.
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}
