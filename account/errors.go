package account

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentifier is matched by every validation failure in this package.
var ErrInvalidIdentifier = errors.New("account: invalid identifier")

// ValidationError describes why a domain or username was rejected.
type ValidationError struct {
	// Field is "domain" or "username".
	Field string

	// Reason is the human-readable rule that was violated.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("account: invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidIdentifier.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// IsValidationError returns true if err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
