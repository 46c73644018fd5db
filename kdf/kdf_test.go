package kdf

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPBKDF2Derive_Deterministic(t *testing.T) {
	password := []byte("open sesame")
	salt := []byte("neurallog:acme")

	a, err := PBKDF2Derive(password, salt, 1000, 32, sha256.New)
	require.NoError(t, err)
	b, err := PBKDF2Derive(password, salt, 1000, 32, sha256.New)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestPBKDF2Derive_DifferentSaltDiffers(t *testing.T) {
	password := []byte("open sesame")

	a, err := PBKDF2Derive(password, []byte("salt-a"), 1000, 32, sha256.New)
	require.NoError(t, err)
	b, err := PBKDF2Derive(password, []byte("salt-b"), 1000, 32, sha256.New)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPBKDF2Derive_SHA512ForMnemonicSeeds(t *testing.T) {
	// BIP-39 seed derivation uses PBKDF2-HMAC-SHA512, 2048 iterations, 64-byte output.
	out, err := PBKDF2Derive([]byte("mnemonic phrase"), []byte("mnemonic"), 2048, 64, sha512.New)
	require.NoError(t, err)
	assert.Len(t, out, 64)
}

func TestPBKDF2Derive_InvalidParams(t *testing.T) {
	t.Run("zero iterations", func(t *testing.T) {
		_, err := PBKDF2Derive([]byte("p"), []byte("s"), 0, 32, sha256.New)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDeriveFailed))
		var derr *DerivationError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, KindPBKDF2, derr.Kind)
	})

	t.Run("zero key length", func(t *testing.T) {
		_, err := PBKDF2Derive([]byte("p"), []byte("s"), 1000, 0, sha256.New)
		require.Error(t, err)
	})

	t.Run("nil hash", func(t *testing.T) {
		_, err := PBKDF2Derive([]byte("p"), []byte("s"), 1000, 32, nil)
		require.Error(t, err)
	})
}

func TestPBKDF2DeriveSHA256_Defaults(t *testing.T) {
	out, err := PBKDF2DeriveSHA256([]byte("open sesame"), []byte("acme"))
	require.NoError(t, err)
	assert.Len(t, out, DefaultKeyLengthBytes)
}

func TestHKDFDerive_Deterministic(t *testing.T) {
	secret := make([]byte, 32)
	for i := range secret {
		secret[i] = byte(i)
	}

	a, err := HKDFDerive(secret, []byte("NeuralLog-MasterKEK"), []byte("master-key-encryption-key"), 32, sha256.New)
	require.NoError(t, err)
	b, err := HKDFDerive(secret, []byte("NeuralLog-MasterKEK"), []byte("master-key-encryption-key"), 32, sha256.New)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestHKDFDerive_DifferentInfoDiffers(t *testing.T) {
	secret := make([]byte, 32)

	a, err := HKDFDerive(secret, []byte("salt"), []byte("logs"), 32, sha256.New)
	require.NoError(t, err)
	b, err := HKDFDerive(secret, []byte("salt"), []byte("log-names"), 32, sha256.New)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHKDFDerive_InvalidParams(t *testing.T) {
	secret := make([]byte, 32)

	t.Run("zero key length", func(t *testing.T) {
		_, err := HKDFDerive(secret, nil, nil, 0, sha256.New)
		require.Error(t, err)
		var derr *DerivationError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, KindHKDF, derr.Kind)
	})

	t.Run("nil hash", func(t *testing.T) {
		_, err := HKDFDerive(secret, nil, nil, 32, nil)
		require.Error(t, err)
	})
}

func TestHKDFDeriveSHA256(t *testing.T) {
	out, err := HKDFDeriveSHA256(make([]byte, 32), []byte("salt"), []byte("info"))
	require.NoError(t, err)
	assert.Len(t, out, DefaultKeyLengthBytes)
}
