package predicate

import (
	"errors"
	"fmt"
)

// UnsupportedError is returned when the compiler encounters a construct
// outside the supported grammar. It is not recoverable; the offending
// fragment is surfaced to the caller.
type UnsupportedError struct {
	Fragment string // Source fragment that failed to parse
}

// Error returns the error string.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("predicate: unsupported expression near %q", e.Fragment)
}

// IsUnsupported returns true if the error is an UnsupportedError.
func IsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedError
	return errors.As(err, &e)
}
