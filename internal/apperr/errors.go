// Package apperr defines the error kinds shared by the repositories, the
// auth and contact services and the HTTP layer. Lower layers wrap these
// sentinels with %w; handlers map them to status codes with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique constraint would be violated.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidCredential is returned when a password does not match.
	ErrInvalidCredential = errors.New("invalid credentials")

	// ErrUnauthorized is returned when a request carries no token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when a token is invalid or expired.
	ErrForbidden = errors.New("forbidden")

	// ErrDelivery is returned when the mail provider rejects a message.
	ErrDelivery = errors.New("delivery failed")
)

// Validation wraps ErrValidation with a caller-facing message.
func Validation(msg string) error {
	return &ValidationError{Message: msg}
}

// ValidationError carries a message that is safe to return to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFound wraps ErrNotFound with the missing entity and key.
func NotFound(entity, key string) error {
	return fmt.Errorf("%s %q: %w", entity, key, ErrNotFound)
}

// AlreadyExists wraps ErrAlreadyExists with the conflicting entity.
func AlreadyExists(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrAlreadyExists)
}
