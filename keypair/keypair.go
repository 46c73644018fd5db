// Package keypair implements hybrid public-key encryption: a fresh
// AES-256-GCM body key wrapped under an RSA-OAEP-SHA-256 public key, and
// deterministic RSA key-pair generation seeded from an operational KEK.
//
// The deterministic path exists because spec.md requires identical
// (operationalKEK, userPassword, userId, purpose) inputs to always
// produce the identical key pair, so a recovered master secret can
// regenerate a user's key pair without ever storing the private key.
// crypto/rsa.GenerateKey has no deterministic mode of its own; it is
// fed a deterministic io.Reader instead, the same bridge the pack's
// spiffe/spike-sdk-go package uses to make Shamir polynomials
// reproducible from a root key.
package keypair

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/binary"
	"fmt"

	"github.com/neurallog/go-crypto-client/internal/detrand"
	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
	"github.com/neurallog/go-crypto-client/kdf"
)

const (
	// KeyBits is the RSA modulus size spec.md §4.4 mandates.
	KeyBits = 2048
	// bodyKeyLen is the symmetric body key size (256 bits).
	bodyKeyLen = 32
	// ivLen is the AES-GCM nonce size (96 bits).
	ivLen = 12
)

// GenerateDeterministic derives an RSA key pair from (operationalKEK,
// userPassword, userID, purpose). The same four inputs always yield the
// same key pair, on any platform, any number of times.
//
// operationalKEK is 32 bytes of high-entropy key material; userPassword,
// userID, and purpose are domain-separation strings that need not be
// secret on their own (their entropy comes from operationalKEK).
func GenerateDeterministic(operationalKEK []byte, userPassword, userID, purpose string) (*rsa.PrivateKey, error) {
	info := fmt.Sprintf("NeuralLog-KeyPair:%s:%s", userID, purpose)
	seed, err := kdf.HKDFDeriveSHA256(operationalKEK, []byte(userPassword), []byte(info))
	if err != nil {
		return nil, newError(KindDeriveFailed, err)
	}

	reader := detrand.NewReader(seed, []byte("rsa-keygen"))
	priv, err := rsa.GenerateKey(reader, KeyBits)
	if err != nil {
		return nil, newError(KindDeriveFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	return priv, nil
}

// ExportPublicSPKI encodes pub as a DER-encoded SubjectPublicKeyInfo
// structure (no PEM framing), the format spec.md §4.4 names for export.
func ExportPublicSPKI(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, newError(KindFormatInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	return der, nil
}

// ImportPublicSPKI parses a DER-encoded SubjectPublicKeyInfo back into an
// RSA public key.
func ImportPublicSPKI(der []byte) (*rsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, newError(KindFormatInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, newError(KindFormatInvalid, apperrors.New("SPKI key is not RSA"))
	}
	return rsaPub, nil
}

// Encrypt hybrid-encrypts plaintext under pub: a fresh AES-256-GCM body
// key seals plaintext, and the body key is itself wrapped with
// RSA-OAEP-SHA-256 under pub. The result packs as
// u32_le(len(wrappedKey)) || iv(12) || wrappedKey || ciphertext_with_tag.
func Encrypt(pub *rsa.PublicKey, plaintext []byte) ([]byte, error) {
	bodyKey := make([]byte, bodyKeyLen)
	if _, err := rand.Read(bodyKey); err != nil {
		return nil, newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return nil, newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}

	aead, err := newAEAD(bodyKey)
	if err != nil {
		return nil, err
	}
	ciphertext := aead.Seal(nil, iv, plaintext, nil)

	wrappedKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, bodyKey, nil)
	if err != nil {
		return nil, newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}

	out := make([]byte, 0, 4+ivLen+len(wrappedKey)+len(ciphertext))
	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(wrappedKey)))
	out = append(out, lenPrefix[:]...)
	out = append(out, iv...)
	out = append(out, wrappedKey...)
	out = append(out, ciphertext...)
	return out, nil
}

// Decrypt reverses Encrypt: it reads the wrapped-key length prefix,
// unwraps the body key with priv, and opens the AES-GCM body.
func Decrypt(priv *rsa.PrivateKey, packed []byte) ([]byte, error) {
	if len(packed) < 4+ivLen {
		return nil, newError(KindFormatInvalid, apperrors.New("packed ciphertext too short"))
	}

	wrappedLen := int(binary.LittleEndian.Uint32(packed[:4]))
	rest := packed[4:]
	if wrappedLen < 0 || len(rest) < ivLen+wrappedLen {
		return nil, newError(KindFormatInvalid, apperrors.New("wrapped-key length prefix out of range"))
	}

	iv := rest[:ivLen]
	wrappedKey := rest[ivLen : ivLen+wrappedLen]
	ciphertext := rest[ivLen+wrappedLen:]

	bodyKey, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, wrappedKey, nil)
	if err != nil {
		return nil, newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}

	aead, err := newAEAD(bodyKey)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	return aead, nil
}
