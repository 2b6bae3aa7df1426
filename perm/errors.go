package perm

import (
	"errors"
	"fmt"
)

// DeniedError is returned when a write is attempted on a field the
// subject has no write permission for. It fails fast: no further keys
// are examined and nothing is persisted.
type DeniedError struct {
	Field   string // Field the write was attempted on
	Subject any    // Subject identity the role was resolved for
}

// Error returns the error string.
func (e *DeniedError) Error() string {
	return fmt.Sprintf("perm: field %q is not writable for subject %v", e.Field, e.Subject)
}

// IsDenied returns true if the error is a DeniedError.
func IsDenied(err error) bool {
	if err == nil {
		return false
	}
	var e *DeniedError
	return errors.As(err, &e)
}
