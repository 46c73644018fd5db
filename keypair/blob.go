package keypair

import (
	"crypto/rsa"

	"github.com/google/uuid"

	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
)

// KEKBlob is the "Encrypted KEK Blob" of spec.md §3: a hybrid-encrypted
// operational KEK addressed to one user, used by the recovery and
// admin-promotion flows to hand a user's client a KEK it can unwrap with
// its own private key. BlobID is a UUIDv7 so a KEK-provision collaborator
// (spec.md §6) can order and deduplicate blobs it stores without parsing
// their encrypted contents.
type KEKBlob struct {
	BlobID  uuid.UUID
	UserID  string
	Version string
	Packed  []byte
}

// WrapKEK hybrid-encrypts kek under the recipient's public key (see
// Encrypt) and tags the result with a fresh UUIDv7 BlobID, producing the
// payload a caller hands to the KEK-provision collaborator's
// putUserBlob(userId, version, encryptedBlob).
func WrapKEK(pub *rsa.PublicKey, userID, version string, kek []byte) (*KEKBlob, error) {
	packed, err := Encrypt(pub, kek)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, newError(KindFormatInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	return &KEKBlob{BlobID: id, UserID: userID, Version: version, Packed: packed}, nil
}

// UnwrapKEK decrypts a KEKBlob's Packed field under priv, recovering the
// operational KEK it carries.
func UnwrapKEK(priv *rsa.PrivateKey, blob *KEKBlob) ([]byte, error) {
	if blob == nil {
		return nil, newError(KindFormatInvalid, apperrors.New("blob is nil"))
	}
	return Decrypt(priv, blob.Packed)
}
