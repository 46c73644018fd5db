package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurallog/go-crypto-client/b64"
	"github.com/neurallog/go-crypto-client/keyhierarchy"
)

func newTestHierarchy(t *testing.T, versions ...string) *keyhierarchy.Hierarchy {
	t.Helper()
	h := keyhierarchy.New()
	require.NoError(t, h.Initialize("acme", "open sesame", false, versions))
	return h
}

func TestEncryptDecryptData_StringRoundTrip(t *testing.T) {
	h := newTestHierarchy(t, "v1")

	rec, err := EncryptData(h, "hello world")
	require.NoError(t, err)
	assert.True(t, rec.Encrypted)
	assert.Equal(t, algorithmAESGCM, rec.Algorithm)
	assert.Equal(t, "v1", rec.KEKVersion)

	raw, err := DecryptData(h, rec, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world", raw)
}

func TestEncryptDecryptData_JSONRoundTrip(t *testing.T) {
	h := newTestHierarchy(t, "v1")

	type entry struct {
		Level string `json:"level"`
		Msg   string `json:"msg"`
	}
	rec, err := EncryptData(h, entry{Level: "info", Msg: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "v1", rec.KEKVersion)

	var got entry
	_, err = DecryptData(h, rec, &got)
	require.NoError(t, err)
	assert.Equal(t, entry{Level: "info", Msg: "hi"}, got)
}

func TestDecryptData_VersionCarryover(t *testing.T) {
	h := newTestHierarchy(t, "v1")

	rec, err := EncryptData(h, "under v1")
	require.NoError(t, err)

	require.NoError(t, h.RecoverVersions([]string{"v2"}))
	require.NoError(t, h.SetCurrent("v2"))

	raw, err := DecryptData(h, rec, nil)
	require.NoError(t, err)
	assert.Equal(t, "under v1", raw)
}

func TestDecryptData_UnknownVersionFailsClosed(t *testing.T) {
	h := newTestHierarchy(t, "v1")

	rec, err := EncryptData(h, "secret")
	require.NoError(t, err)
	rec.KEKVersion = "v9"

	_, err = DecryptData(h, rec, nil)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindUnknownKEKVersion, perr.Kind)
}

func TestDecryptData_TamperedCiphertextFails(t *testing.T) {
	h := newTestHierarchy(t, "v1")

	rec, err := EncryptData(h, "secret")
	require.NoError(t, err)

	tampered := *rec
	tampered.Data = flipOneB64Byte(t, rec.Data)

	_, err = DecryptData(h, &tampered, nil)
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindAeadFailed, perr.Kind)
}

func TestDecryptData_TamperedIVFails(t *testing.T) {
	h := newTestHierarchy(t, "v1")

	rec, err := EncryptData(h, "secret")
	require.NoError(t, err)

	tampered := *rec
	tampered.IV = flipOneB64Byte(t, rec.IV)

	_, err = DecryptData(h, &tampered, nil)
	require.Error(t, err)
}

// flipOneB64Byte decodes encoded, flips a single bit in the raw bytes,
// and re-encodes, so the result always decodes to a differently-shaped
// byte string instead of occasionally failing Base64 decoding itself.
func flipOneB64Byte(t *testing.T, encoded string) string {
	t.Helper()
	raw, err := b64.DecodeStd(encoded)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	raw[0] ^= 0x01
	return b64.EncodeStd(raw)
}
