// Package search implements C9: deterministic, HMAC-based search-token
// generation that lets the server perform equality matching on words
// without ever learning the plaintext word itself.
package search

import (
	"crypto/hmac"
	"crypto/sha256"
	"strings"
	"unicode"

	"github.com/neurallog/go-crypto-client/b64"
)

// GenerateTokens lowercases query, splits it on Unicode whitespace
// (dropping empty fields), and HMAC-SHA256's each token under searchKey,
// returning the ordered sequence of URL-safe Base64 MACs. Duplicate
// words produce duplicate tokens; callers may dedupe if they want to.
//
// v1 performs no stop-wording, stemming, or n-gramming, per spec.md
// §4.8's design rationale: those remain client responsibilities for a
// future version.
func GenerateTokens(query string, searchKey []byte) []string {
	words := strings.FieldsFunc(strings.ToLower(query), unicode.IsSpace)
	tokens := make([]string, len(words))
	for i, w := range words {
		tokens[i] = tokenFor(w, searchKey)
	}
	return tokens
}

// tokenFor computes the URL-safe Base64 encoding of HMAC-SHA256(searchKey, word).
func tokenFor(word string, searchKey []byte) string {
	mac := hmac.New(sha256.New, searchKey)
	mac.Write([]byte(word))
	return b64.EncodeURL(mac.Sum(nil))
}
