package payload

import (
	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
	"github.com/neurallog/go-crypto-client/keyhierarchy"
)

// Kind classifies a payload package failure against spec.md's §7 error
// taxonomy.
type Kind string

const (
	KindNotInitialized    Kind = "not_initialized"
	KindUnknownKEKVersion Kind = "unknown_kek_version"
	KindDeriveFailed      Kind = "derive_failed"
	KindAeadFailed        Kind = "aead_failed"
	KindFormatInvalid     Kind = "format_invalid"
)

// ErrPayload is the base sentinel every Error wraps.
var ErrPayload = apperrors.Wrap(apperrors.ErrInvalidInput, "payload crypto operation failed")

// Error reports why encrypting or decrypting a log payload or log name
// failed.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return ErrPayload
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// fromHierarchyErr re-tags an error surfaced by the keyhierarchy package
// (NotInitialized / UnknownKEKVersion / DeriveFailed) under this
// package's own Kind, so callers never need to import keyhierarchy just
// to classify a payload-level failure.
func fromHierarchyErr(err error) error {
	if err == nil {
		return nil
	}
	var hErr *keyhierarchy.Error
	if apperrors.As(err, &hErr) {
		switch hErr.Kind {
		case keyhierarchy.KindNotInitialized:
			return newError(KindNotInitialized, err)
		case keyhierarchy.KindUnknownKEKVersion:
			return newError(KindUnknownKEKVersion, err)
		default:
			return newError(KindDeriveFailed, err)
		}
	}
	return newError(KindDeriveFailed, err)
}
