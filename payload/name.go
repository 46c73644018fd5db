package payload

import (
	"crypto/rand"

	"github.com/neurallog/go-crypto-client/b64"
	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
	"github.com/neurallog/go-crypto-client/internal/zeroize"
	"github.com/neurallog/go-crypto-client/keyhierarchy"
)

// EncryptName encrypts name under the hierarchy's current KEK version's
// LogNameKey subkey, packing the result per spec.md §6:
// len(1) || version || IV(12) || ciphertext||tag, then URL-safe
// Base64-encoding (no padding) the whole packed string.
func EncryptName(h *keyhierarchy.Hierarchy, name string) (string, error) {
	version, err := h.CurrentVersion()
	if err != nil {
		return "", fromHierarchyErr(err)
	}
	return EncryptNameWithVersion(h, name, version)
}

// EncryptNameWithVersion is EncryptName pinned to an explicit KEK version.
func EncryptNameWithVersion(h *keyhierarchy.Hierarchy, name, version string) (string, error) {
	if len(version) > keyhierarchy.MaxKEKVersionLen {
		return "", newError(KindFormatInvalid, apperrors.Wrapf(apperrors.ErrInvalidInput, "kek version longer than %d bytes", keyhierarchy.MaxKEKVersionLen))
	}

	logNameKey, err := h.LogNameKey(version)
	if err != nil {
		return "", fromHierarchyErr(err)
	}
	defer zeroize.Bytes(logNameKey)

	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return "", newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}

	aead, err := newGCM(logNameKey)
	if err != nil {
		return "", err
	}
	sealed := aead.Seal(nil, iv, []byte(name), nil)

	versionBytes := []byte(version)
	packed := make([]byte, 0, 1+len(versionBytes)+ivLen+len(sealed))
	packed = append(packed, byte(len(versionBytes)))
	packed = append(packed, versionBytes...)
	packed = append(packed, iv...)
	packed = append(packed, sealed...)

	return b64.EncodeURL(packed), nil
}

// DecryptName reverses EncryptName: it URL-safe Base64-decodes
// encryptedName, reads the embedded length-prefixed version, re-derives
// LogNameKey for that version, and opens the AEAD body.
func DecryptName(h *keyhierarchy.Hierarchy, encryptedName string) (string, error) {
	packed, err := b64.DecodeURL(encryptedName)
	if err != nil {
		return "", newError(KindFormatInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	if len(packed) < 1 {
		return "", newError(KindFormatInvalid, apperrors.New("packed log name too short"))
	}

	versionLen := int(packed[0])
	rest := packed[1:]
	if len(rest) < versionLen+ivLen {
		return "", newError(KindFormatInvalid, apperrors.New("packed log name truncated"))
	}

	version := string(rest[:versionLen])
	iv := rest[versionLen : versionLen+ivLen]
	sealed := rest[versionLen+ivLen:]

	logNameKey, err := h.LogNameKey(version)
	if err != nil {
		return "", fromHierarchyErr(err)
	}
	defer zeroize.Bytes(logNameKey)

	aead, err := newGCM(logNameKey)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, "authentication failed"))
	}

	return string(plaintext), nil
}
