package domain

import (
	"errors"
	"fmt"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Follow graph rule violations. All of them satisfy IsRejected.
var ErrSelfFollow = errors.New("cannot follow yourself")
var ErrAlreadyFollowing = errors.New("already following this user")
var ErrNotFollowing = errors.New("not following this user")

// ErrStorageCorrupt is returned when a storage document exists but cannot be decoded.
var ErrStorageCorrupt = errors.New("storage document is corrupt")

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a record that failed its schema before persistence.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsRejected reports whether err is a follow graph rule violation.
func IsRejected(err error) bool {
	return errors.Is(err, ErrSelfFollow) ||
		errors.Is(err, ErrAlreadyFollowing) ||
		errors.Is(err, ErrNotFollowing)
}
