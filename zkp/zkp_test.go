package zkp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "key-123.s3cr3t-material"

func TestProveChallenge_Deterministic(t *testing.T) {
	a, err := ProveChallenge(testAPIKey, "challenge-1")
	require.NoError(t, err)
	b, err := ProveChallenge(testAPIKey, "challenge-1")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProveChallenge_KeyIDPrefix(t *testing.T) {
	proof, err := ProveChallenge(testAPIKey, "challenge-1")
	require.NoError(t, err)
	assert.Equal(t, "key-123", proof[:len("key-123")])
}

func TestProveChallenge_DifferentChallengeDiffers(t *testing.T) {
	a, err := ProveChallenge(testAPIKey, "challenge-1")
	require.NoError(t, err)
	b, err := ProveChallenge(testAPIKey, "challenge-2")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestProveChallenge_InvalidAPIKey(t *testing.T) {
	_, err := ProveChallenge("no-dot-here", "challenge")
	require.Error(t, err)
	var zerr *Error
	require.True(t, errors.As(err, &zerr))
	assert.Equal(t, KindBadParams, zerr.Kind)
}

func TestVerifyChallenge_RoundTrip(t *testing.T) {
	proof, err := ProveChallenge(testAPIKey, "challenge-1")
	require.NoError(t, err)

	ok, err := VerifyChallenge(testAPIKey, "challenge-1", proof)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyChallenge_WrongChallengeFails(t *testing.T) {
	proof, err := ProveChallenge(testAPIKey, "challenge-1")
	require.NoError(t, err)

	ok, err := VerifyChallenge(testAPIKey, "challenge-2", proof)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyChallenge_WrongSecretFails(t *testing.T) {
	proof, err := ProveChallenge(testAPIKey, "challenge-1")
	require.NoError(t, err)

	ok, err := VerifyChallenge("key-123.different-secret", "challenge-1", proof)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyChallenge_MismatchedKeyIDFails(t *testing.T) {
	proof, err := ProveChallenge(testAPIKey, "challenge-1")
	require.NoError(t, err)

	ok, err := VerifyChallenge("key-999."+"s3cr3t-material", "challenge-1", proof)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildAndParseClientToken_RoundTrip(t *testing.T) {
	token, err := BuildClientToken(testAPIKey, "user-1", "acme", []string{"read", "write"})
	require.NoError(t, err)

	payload, err := ParseAndVerifyClientToken(testAPIKey, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.Sub)
	assert.Equal(t, "acme", payload.Tenant)
	assert.Equal(t, []string{"read", "write"}, payload.Scopes)
	assert.Equal(t, payload.IAT+3600, payload.EXP)
}

func TestParseAndVerifyClientToken_WrongSecretFails(t *testing.T) {
	token, err := BuildClientToken(testAPIKey, "user-1", "acme", []string{"read"})
	require.NoError(t, err)

	_, err = ParseAndVerifyClientToken("key-123.wrong-secret", token)
	require.Error(t, err)
	var zerr *Error
	require.True(t, errors.As(err, &zerr))
	assert.Equal(t, KindFormatInvalid, zerr.Kind)
}

func TestParseAndVerifyClientToken_TamperedTokenFails(t *testing.T) {
	token, err := BuildClientToken(testAPIKey, "user-1", "acme", []string{"read"})
	require.NoError(t, err)

	tampered := []rune(token)
	tampered[0] = 'A'
	if tampered[0] == []rune(token)[0] {
		tampered[0] = 'B'
	}

	_, err = ParseAndVerifyClientToken(testAPIKey, string(tampered))
	require.Error(t, err)
}

func TestParseAndVerifyClientToken_TruncatedTokenFails(t *testing.T) {
	_, err := ParseAndVerifyClientToken(testAPIKey, "AA==")
	require.Error(t, err)
	var zerr *Error
	require.True(t, errors.As(err, &zerr))
	assert.Equal(t, KindFormatInvalid, zerr.Kind)
}

func TestParseAndVerifyClientToken_InvalidBase64Fails(t *testing.T) {
	_, err := ParseAndVerifyClientToken(testAPIKey, "not-valid-base64!!")
	require.Error(t, err)
}
