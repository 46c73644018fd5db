package keyhierarchy

import (
	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
)

// Kind classifies a keyhierarchy package failure against spec.md's §7
// error taxonomy.
type Kind string

const (
	KindConfigInvalid     Kind = "config_invalid"
	KindNotInitialized    Kind = "not_initialized"
	KindUnknownKEKVersion Kind = "unknown_kek_version"
	KindDeriveFailed      Kind = "derive_failed"
)

// ErrHierarchy is the base sentinel every Error wraps.
var ErrHierarchy = apperrors.Wrap(apperrors.ErrFailedPrecondition, "key hierarchy operation failed")

// Error reports why a key hierarchy operation was rejected.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return ErrHierarchy
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
