// Package apperr defines the domain error kinds surfaced by the service layer.
// Handlers map them to HTTP status codes with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Services wrap them with context via %w so callers can both
// classify and read the failure.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrState      = errors.New("invalid state")
)

// Validationf returns a validation error with a formatted reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// NotFoundf returns a not-found error naming the missing entity.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

// Conflictf returns a conflict error (duplicate key, stale write).
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrConflict}, args...)...)
}

// Statef returns a state error for an illegal lifecycle transition or an edit
// of an immutable document.
func Statef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrState}, args...)...)
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsState(err error) bool      { return errors.Is(err, ErrState) }
