// Package payload implements C8: envelope AES-256-GCM encryption of log
// payloads and log names, each carrying enough metadata (a "kekVersion"
// field or an embedded version prefix) to locate its decrypting
// operational KEK without any external hint, per spec.md §3 invariant 1.
package payload

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"

	"github.com/neurallog/go-crypto-client/b64"
	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
	"github.com/neurallog/go-crypto-client/internal/zeroize"
	"github.com/neurallog/go-crypto-client/keyhierarchy"
)

const ivLen = 12

// Record is the on-the-wire shape of an encrypted log payload, matching
// spec.md §6's JSON-object-shaped record exactly (field names and all).
type Record struct {
	Encrypted  bool   `json:"encrypted"`
	Algorithm  string `json:"algorithm"`
	IV         string `json:"iv"`
	Data       string `json:"data"`
	KEKVersion string `json:"kekVersion"`
}

const algorithmAESGCM = "aes-256-gcm"

// EncryptData serializes data (per §4.7.1: a string's UTF-8 bytes
// verbatim, anything else as deterministic JSON) and seals it with the
// LogKey subkey for the hierarchy's current KEK version.
func EncryptData(h *keyhierarchy.Hierarchy, data any) (*Record, error) {
	version, err := h.CurrentVersion()
	if err != nil {
		return nil, fromHierarchyErr(err)
	}
	return EncryptDataWithVersion(h, data, version)
}

// EncryptDataWithVersion is EncryptData pinned to an explicit KEK
// version instead of the hierarchy's current one, letting a caller
// re-encrypt under a specific historical version.
func EncryptDataWithVersion(h *keyhierarchy.Hierarchy, data any, version string) (*Record, error) {
	plaintext, err := serializeData(data)
	if err != nil {
		return nil, newError(KindFormatInvalid, err)
	}

	logKey, err := h.LogKey(version)
	if err != nil {
		return nil, fromHierarchyErr(err)
	}
	defer zeroize.Bytes(logKey)

	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return nil, newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}

	aead, err := newGCM(logKey)
	if err != nil {
		return nil, err
	}
	sealed := aead.Seal(nil, iv, plaintext, nil)

	return &Record{
		Encrypted:  true,
		Algorithm:  algorithmAESGCM,
		IV:         b64.EncodeStd(iv),
		Data:       b64.EncodeStd(sealed),
		KEKVersion: version,
	}, nil
}

// DecryptData reverses EncryptData: it locates the operational KEK by
// the record's KEKVersion field, re-derives LogKey, opens the AEAD body,
// and attempts a JSON decode of the result (falling back to the raw
// decrypted string on parse failure, per §4.7.1 step 3).
//
// out receives the JSON-decoded value when decryption succeeds and the
// plaintext parses as JSON; it is left untouched otherwise. The raw
// decrypted string is always returned as the second value.
func DecryptData(h *keyhierarchy.Hierarchy, rec *Record, out any) (string, error) {
	if rec == nil {
		return "", newError(KindFormatInvalid, apperrors.New("record is nil"))
	}

	logKey, err := h.LogKey(rec.KEKVersion)
	if err != nil {
		return "", fromHierarchyErr(err)
	}
	defer zeroize.Bytes(logKey)

	iv, err := b64.DecodeStd(rec.IV)
	if err != nil {
		return "", newError(KindFormatInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	sealed, err := b64.DecodeStd(rec.Data)
	if err != nil {
		return "", newError(KindFormatInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}

	aead, err := newGCM(logKey)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", newError(KindAeadFailed, apperrors.Wrap(apperrors.ErrInvalidInput, "authentication failed"))
	}

	raw := string(plaintext)
	if out != nil {
		_ = json.Unmarshal(plaintext, out)
	}
	return raw, nil
}

// serializeData implements spec.md §4.7.1 step 3: a string serializes to
// its own UTF-8 bytes verbatim; anything else serializes as JSON.
func serializeData(data any) ([]byte, error) {
	if s, ok := data.(string); ok {
		return []byte(s), nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}
	return encoded, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
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
