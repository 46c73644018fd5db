// Package kdf implements the two key-derivation primitives the rest of
// the engine builds on: PBKDF2-HMAC for stretching low-entropy secrets
// (recovery phrases, passwords) and HKDF for domain-separated expansion
// of already-high-entropy key material (master secret -> KEKs -> subkeys).
//
// Both functions are pure: no I/O, no package-level state, no allocation
// beyond the returned key.
package kdf

import (
	"crypto/sha256"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
)

// Kind distinguishes which primitive produced a DerivationError.
type Kind string

const (
	KindPBKDF2 Kind = "pbkdf2"
	KindHKDF   Kind = "hkdf"
)

// DefaultPBKDF2Iterations is the default iteration count for PBKDF2Derive,
// matching spec.md's "Defaults: iterations = 100 000".
const DefaultPBKDF2Iterations = 100_000

// DefaultKeyLengthBytes is the default derived key length (256 bits).
const DefaultKeyLengthBytes = 32

// ErrDeriveFailed is the base sentinel every DerivationError wraps.
var ErrDeriveFailed = apperrors.Wrap(apperrors.ErrInvalidInput, "key derivation failed")

// DerivationError reports that PBKDF2 or HKDF rejected its inputs (e.g.
// zero iterations, zero key length, or an hkdf expansion too long for
// the chosen hash).
type DerivationError struct {
	Kind Kind
	Err  error
}

func (e *DerivationError) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *DerivationError) Unwrap() error {
	return ErrDeriveFailed
}

func newDerivationError(kind Kind, err error) *DerivationError {
	return &DerivationError{Kind: kind, Err: err}
}

// PBKDF2Derive stretches password with salt using PBKDF2-HMAC over the
// given hash constructor. Both password and salt are opaque byte strings;
// callers pass a UTF-8-encoded string as []byte(s) verbatim, per spec.md's
// "Salt may be a byte string or a UTF-8 string" wording.
//
// iterations and keyLenBytes must be positive; hashFn must be non-nil.
func PBKDF2Derive(
	password, salt []byte,
	iterations, keyLenBytes int,
	hashFn func() hash.Hash,
) ([]byte, error) {
	if iterations <= 0 {
		return nil, newDerivationError(KindPBKDF2, apperrors.New("iterations must be positive"))
	}
	if keyLenBytes <= 0 {
		return nil, newDerivationError(KindPBKDF2, apperrors.New("key length must be positive"))
	}
	if hashFn == nil {
		return nil, newDerivationError(KindPBKDF2, apperrors.New("hash function is required"))
	}

	return pbkdf2.Key(password, salt, iterations, keyLenBytes, hashFn), nil
}

// PBKDF2DeriveSHA256 is PBKDF2Derive with the spec.md defaults: SHA-256,
// 100 000 iterations, a 256-bit key.
func PBKDF2DeriveSHA256(password, salt []byte) ([]byte, error) {
	return PBKDF2Derive(password, salt, DefaultPBKDF2Iterations, DefaultKeyLengthBytes, sha256.New)
}

// HKDFDerive runs HKDF-extract-then-expand over keyMaterial with salt and
// info, producing keyLenBytes of output. salt and info are opaque byte
// strings; callers pass UTF-8 strings as []byte(s) verbatim.
func HKDFDerive(keyMaterial, salt, info []byte, keyLenBytes int, hashFn func() hash.Hash) ([]byte, error) {
	if keyLenBytes <= 0 {
		return nil, newDerivationError(KindHKDF, apperrors.New("key length must be positive"))
	}
	if hashFn == nil {
		return nil, newDerivationError(KindHKDF, apperrors.New("hash function is required"))
	}

	out := make([]byte, keyLenBytes)
	reader := hkdf.New(hashFn, keyMaterial, salt, info)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, newDerivationError(KindHKDF, err)
	}
	return out, nil
}

// HKDFDeriveSHA256 is HKDFDerive with SHA-256 and a 256-bit output, the
// combination every domain-separated derivation in this module uses.
func HKDFDeriveSHA256(keyMaterial, salt, info []byte) ([]byte, error) {
	return HKDFDerive(keyMaterial, salt, info, DefaultKeyLengthBytes, sha256.New)
}
