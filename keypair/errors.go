package keypair

import (
	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
)

// Kind classifies a keypair package failure against spec.md's §7 error
// taxonomy.
type Kind string

const (
	KindBadParams     Kind = "bad_params"
	KindDeriveFailed  Kind = "derive_failed"
	KindAeadFailed    Kind = "aead_failed"
	KindFormatInvalid Kind = "format_invalid"
)

// ErrKeyPair is the base sentinel every Error wraps.
var ErrKeyPair = apperrors.Wrap(apperrors.ErrInvalidInput, "key-pair operation failed")

// Error reports why key-pair generation, wrapping, or unwrapping failed.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return ErrKeyPair
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
