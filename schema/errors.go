package schema

import (
	"errors"
	"fmt"
)

// UnknownFieldError is returned when a field name does not resolve
// against a schema.
type UnknownFieldError struct {
	Model string // Model the lookup ran against
	Name  string // Field name that failed to resolve
}

// Error returns the error string.
func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("schema: unknown field %q on model %s", e.Name, e.Model)
}

// IsUnknownField returns true if the error is an UnknownFieldError.
func IsUnknownField(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownFieldError
	return errors.As(err, &e)
}

// UnknownModelError is returned when a registry lookup misses.
type UnknownModelError struct {
	Name string // Model name that failed to resolve
}

// Error returns the error string.
func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("schema: unknown model %q", e.Name)
}

// IsUnknownModel returns true if the error is an UnknownModelError.
func IsUnknownModel(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownModelError
	return errors.As(err, &e)
}
