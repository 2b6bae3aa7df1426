package warden

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("warden: record not found")

	// ErrNotSingular is returned when a point lookup that expects exactly
	// one result returns multiple results.
	ErrNotSingular = errors.New("warden: record not singular")
)

// NotFoundError represents an error when a record is not found.
type NotFoundError struct {
	model string
	id    any // Optional: the identity that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("warden: %s not found (id=%v)", e.model, e.id)
	}
	return fmt.Sprintf("warden: %s not found", e.model)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Model returns the model name.
func (e *NotFoundError) Model() string {
	return e.model
}

// ID returns the identity that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given model.
func NewNotFoundError(model string) *NotFoundError {
	return &NotFoundError{model: model}
}

// NewNotFoundErrorWithID returns a new NotFoundError with the identity
// that was searched for.
func NewNotFoundErrorWithID(model string, id any) *NotFoundError {
	return &NotFoundError{model: model, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// NotSingularError represents an error when a point lookup matches more
// than one record.
type NotSingularError struct {
	model string
	count int
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	if e.count > 0 {
		return fmt.Sprintf("warden: %s not singular (matched %d records)", e.model, e.count)
	}
	return fmt.Sprintf("warden: %s not singular", e.model)
}

// Is reports whether the target error matches NotSingularError.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// Model returns the model name.
func (e *NotSingularError) Model() string {
	return e.model
}

// NewNotSingularError returns a new NotSingularError for the given model.
func NewNotSingularError(model string, count int) *NotSingularError {
	return &NotSingularError{model: model, count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}
