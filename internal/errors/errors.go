// Package errors provides the sentinel error kinds shared by every
// component of the crypto engine.
//
// Each component (kdf, shamir, mnemonic, keyhierarchy, payload, ...)
// defines its own exported error variables that wrap one of these
// sentinels, so callers can always classify a failure with errors.Is
// against a stable, package-independent kind without caring which
// component raised it.
package errors

import (
	"errors"
	"fmt"
)

// Base error kinds. Component packages wrap these with context-specific
// messages; callers should match against these, not against a component's
// own error variable, when they only care about the broad category.
var (
	// ErrInvalidInput indicates the caller supplied a bad parameter.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested key, version, or record is absent.
	ErrNotFound = errors.New("not found")

	// ErrFailedPrecondition indicates an operation ran before required
	// state (e.g. a master KEK) was established.
	ErrFailedPrecondition = errors.New("failed precondition")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
