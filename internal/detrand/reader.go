// Package detrand provides a deterministic pseudo-random byte stream
// expanded from a fixed seed via HKDF-SHA-256.
//
// It exists for exactly one purpose: feeding crypto/rsa.GenerateKey (and
// anything else that takes an io.Reader "random source") a stream that is
// a pure function of its seed, so that the same seed always yields the
// same key. This is the same trick the pack's spiffe/spike-sdk-go crypto
// package uses to make Shamir share generation reproducible from a root
// key, adapted here to seed RSA prime search instead of polynomial
// coefficients.
//
// The stream is NOT suitable as a general-purpose CSPRNG: its entire
// security rests on the secrecy of the seed, exactly like any other KDF
// output. Never use it to generate a key whose seed is guessable.
package detrand

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Reader is a deterministic io.Reader. Reading the same number of bytes
// from two Readers constructed with the same seed and info always yields
// identical output.
type Reader struct {
	src io.Reader
}

// NewReader builds a deterministic reader by expanding seed with
// HKDF-SHA-256, domain-separated by info. salt is fixed (empty) because
// the seed itself is already high-entropy key material, not a password.
func NewReader(seed, info []byte) *Reader {
	return &Reader{src: hkdf.New(sha256.New, seed, nil, info)}
}

// Read implements io.Reader by pulling from the underlying HKDF expansion.
// A single HKDF-SHA-256 instance can serve at most 255*32 = 8160 bytes,
// which comfortably covers the random-byte budget crypto/rsa.GenerateKey
// spends on a 2048-bit key. Once exhausted the reader returns an error
// rather than silently falling back to a non-deterministic source.
func (r *Reader) Read(p []byte) (int, error) {
	return r.src.Read(p)
}
