// Package zkp implements the two zero-knowledge-adjacent challenge
// primitives the engine uses to prove possession of an API key's secret
// without ever sending that secret over the wire: a challenge-response
// proof and a self-contained, HMAC-signed client token.
//
// Both operations key an HMAC-SHA256 off the secret half of an API key,
// the same derive-then-sign pattern the pack's audit-log signer uses for
// its HKDF-derived signing key — except here the "key" an API key
// already supplies is used directly, since it is generated with enough
// entropy of its own.
package zkp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/neurallog/go-crypto-client/b64"
	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
)

// tokenTTL is the client token's lifetime: exp = iat + tokenTTL.
const tokenTTL = time.Hour

// hmacSize is the raw HMAC-SHA256 output length, used to split the
// fixed-width signature back off a packed client token.
const hmacSize = sha256.Size

// splitAPIKey separates an API key of the form "{keyId}.{secret}" into
// its two halves.
func splitAPIKey(apiKey string) (keyID, secret string, err error) {
	parts := strings.SplitN(apiKey, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", newError(KindBadParams, apperrors.New("apiKey must be \"{keyId}.{secret}\""))
	}
	return parts[0], parts[1], nil
}

// ProveChallenge answers challenge with HMAC-SHA256(secret, challenge),
// returning "{keyId}.{base64(hmac)}". The verifier recomputes the same
// HMAC from its own copy of secret and compares in constant time.
func ProveChallenge(apiKey, challenge string) (string, error) {
	keyID, secret, err := splitAPIKey(apiKey)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(challenge))
	sum := mac.Sum(nil)

	return keyID + "." + b64.EncodeStd(sum), nil
}

// VerifyChallenge recomputes ProveChallenge(apiKey, challenge) and
// compares it against proof in constant time on the HMAC bytes. It never
// branches on secret material outside of hmac.Equal.
func VerifyChallenge(apiKey, challenge, proof string) (bool, error) {
	keyID, secret, err := splitAPIKey(apiKey)
	if err != nil {
		return false, err
	}

	proofParts := strings.SplitN(proof, ".", 2)
	if len(proofParts) != 2 || proofParts[0] != keyID {
		return false, nil
	}

	gotSum, err := b64.DecodeStd(proofParts[1])
	if err != nil {
		return false, newError(KindFormatInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(challenge))
	wantSum := mac.Sum(nil)

	return hmac.Equal(gotSum, wantSum), nil
}

// ClientTokenPayload is the signed claim set a client token carries.
type ClientTokenPayload struct {
	Sub    string   `json:"sub"`
	Tenant string   `json:"tenant"`
	Scopes []string `json:"scopes"`
	IAT    int64    `json:"iat"`
	EXP    int64    `json:"exp"`
}

// BuildClientToken issues a self-contained, HMAC-signed token binding
// userID to tenantID with scopes, valid for one hour from now. The token
// is Base64(payloadJSON || "." || signature), where signature is the raw
// (unencoded) HMAC-SHA256 of payloadJSON under the API key's secret.
func BuildClientToken(apiKey, userID, tenantID string, scopes []string) (string, error) {
	_, secret, err := splitAPIKey(apiKey)
	if err != nil {
		return "", err
	}

	now := time.Now().Unix()
	payload := ClientTokenPayload{
		Sub:    userID,
		Tenant: tenantID,
		Scopes: scopes,
		IAT:    now,
		EXP:    now + int64(tokenTTL.Seconds()),
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", newError(KindFormatInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payloadJSON)
	signature := mac.Sum(nil)

	packed := make([]byte, 0, len(payloadJSON)+1+len(signature))
	packed = append(packed, payloadJSON...)
	packed = append(packed, '.')
	packed = append(packed, signature...)

	return b64.EncodeStd(packed), nil
}

// ParseAndVerifyClientToken decodes token, splits its fixed-width
// trailing HMAC-SHA256 signature off the JSON payload, and verifies it
// against apiKey's secret in constant time before returning the payload.
func ParseAndVerifyClientToken(apiKey, token string) (*ClientTokenPayload, error) {
	_, secret, err := splitAPIKey(apiKey)
	if err != nil {
		return nil, err
	}

	packed, err := b64.DecodeStd(token)
	if err != nil {
		return nil, newError(KindFormatInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}

	if len(packed) < hmacSize+1 {
		return nil, newError(KindFormatInvalid, apperrors.New("token too short"))
	}

	split := len(packed) - hmacSize
	if packed[split-1] != '.' {
		return nil, newError(KindFormatInvalid, apperrors.New("missing payload/signature separator"))
	}

	payloadJSON := packed[:split-1]
	signature := packed[split:]

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payloadJSON)
	wantSignature := mac.Sum(nil)

	if !hmac.Equal(signature, wantSignature) {
		return nil, newError(KindFormatInvalid, apperrors.New("signature mismatch"))
	}

	var payload ClientTokenPayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, newError(KindFormatInvalid, apperrors.Wrap(apperrors.ErrInvalidInput, fmt.Sprintf("malformed payload: %v", err)))
	}

	return &payload, nil
}
