// Package b64 wraps the two Base64 alphabets the wire formats in this
// module use: standard padded Base64 for envelope fields (iv, data) and
// unpadded URL-safe Base64 for opaque strings that travel in URLs or
// query parameters (encrypted log names, search tokens).
package b64

import "encoding/base64"

// EncodeStd encodes b as standard, padded Base64 (RFC 4648 §4).
func EncodeStd(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeStd decodes standard, padded Base64.
func DecodeStd(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// EncodeURL encodes b as unpadded, URL-safe Base64 (RFC 4648 §5).
func EncodeURL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeURL decodes unpadded, URL-safe Base64.
func DecodeURL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
