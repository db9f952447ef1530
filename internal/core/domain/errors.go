package domain

import (
	"errors"
	"fmt"
)

// Account errors.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDeactivated        = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrNoValidFields      = errors.New("no valid fields to update")
)

// Session errors.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrSessionNotFound = errors.New("session not found")
)

// ValidationError is a user-correctable input problem. Reason is shown to the
// client unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NewValidationError returns a *ValidationError with the given reason.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// StorageError wraps a failure of the backing store for a named operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("database error: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err as a *StorageError for op. A nil err yields nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
