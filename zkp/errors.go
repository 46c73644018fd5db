package zkp

import (
	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
)

// Kind classifies a zkp package failure against spec.md's §7 error
// taxonomy.
type Kind string

const (
	KindBadParams     Kind = "bad_params"
	KindFormatInvalid Kind = "format_invalid"
)

// ErrZKP is the base sentinel every Error wraps.
var ErrZKP = apperrors.Wrap(apperrors.ErrInvalidInput, "zkp operation failed")

// Error reports why a challenge proof or client token operation failed.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return ErrZKP
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
