// Package shamir implements (k, n) threshold secret sharing over GF(2^8),
// byte-wise, the same construction HashiCorp's Vault uses for its root-key
// and unseal-key splitting. spec.md's Open Questions section mandates this
// field over the legacy 2^256-189 prime-field-with-mod-256-reduction
// scheme: every byte of the secret maps onto exactly one field element, so
// no information is lost folding a share back down to a byte.
package shamir

import (
	"crypto/rand"
	"encoding/json"

	"github.com/neurallog/go-crypto-client/b64"
	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
)

// Share is one (x, y) point on the secret polynomial. X is 1-based; X=0 is
// reserved for the secret itself and never appears in an issued share.
type Share struct {
	X byte
	Y []byte
}

// shareJSON mirrors spec.md's §6 wire format for a serialized share:
// {"x": <1..255>, "y": <standard Base64 of the share body>}.
type shareJSON struct {
	X int    `json:"x"`
	Y string `json:"y"`
}

// MarshalJSON renders the share as {"x": int, "y": standard-base64}.
func (s Share) MarshalJSON() ([]byte, error) {
	j := shareJSON{X: int(s.X), Y: b64.EncodeStd(s.Y)}
	return json.Marshal(j)
}

// UnmarshalJSON parses the {"x", "y"} wire form back into a Share.
func (s *Share) UnmarshalJSON(data []byte) error {
	var j shareJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return newError(KindBadParams, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	if j.X < 1 || j.X > 255 {
		return newError(KindBadParams, apperrors.New("x must be between 1 and 255"))
	}
	y, err := b64.DecodeStd(j.Y)
	if err != nil {
		return newError(KindBadParams, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
	}
	s.X = byte(j.X)
	s.Y = y
	return nil
}

// Split divides secret into n shares such that any k of them reconstruct
// secret exactly, and any fewer reveal nothing about it. Each byte of
// secret is shared independently under its own random degree-(k-1)
// polynomial, evaluated at x = 1..n.
func Split(secret []byte, k, n int) ([]Share, error) {
	if err := validateSplitParams(len(secret), k, n); err != nil {
		return nil, err
	}

	polys := make([][]byte, len(secret))
	for i, b := range secret {
		coeffs := make([]byte, k)
		coeffs[0] = b
		if _, err := rand.Read(coeffs[1:]); err != nil {
			return nil, newError(KindBadParams, apperrors.Wrap(apperrors.ErrInvalidInput, err.Error()))
		}
		polys[i] = coeffs
	}

	shares := make([]Share, n)
	for shareIdx := 0; shareIdx < n; shareIdx++ {
		x := byte(shareIdx + 1)
		y := make([]byte, len(secret))
		for i, coeffs := range polys {
			y[i] = gfEval(coeffs, x)
		}
		shares[shareIdx] = Share{X: x, Y: y}
	}

	return shares, nil
}

// Reconstruct recovers the secret from any k or more shares via Lagrange
// interpolation at x=0, performed independently per byte. Returns an Error
// if fewer than 2 shares are given, the share body is empty, share bodies
// have mismatched lengths, or two shares carry the same x.
func Reconstruct(shares []Share) ([]byte, error) {
	if len(shares) < 2 {
		return nil, newError(KindBadParams, apperrors.New("at least 2 shares are required"))
	}

	secretLen := len(shares[0].Y)
	if secretLen == 0 {
		return nil, newError(KindBadParams, apperrors.New("share body must be non-empty"))
	}

	seenX := make(map[byte]bool, len(shares))
	for _, s := range shares {
		if len(s.Y) != secretLen {
			return nil, newError(KindMismatchedShareLength, apperrors.New("all shares must carry the same-length body"))
		}
		if seenX[s.X] {
			return nil, newError(KindDuplicateX, apperrors.Wrapf(apperrors.ErrInvalidInput, "duplicate share x=%d", s.X))
		}
		seenX[s.X] = true
	}

	secret := make([]byte, secretLen)
	for byteIdx := 0; byteIdx < secretLen; byteIdx++ {
		b, err := lagrangeAtZero(shares, byteIdx)
		if err != nil {
			return nil, err
		}
		secret[byteIdx] = b
	}

	return secret, nil
}

// lagrangeAtZero evaluates the Lagrange interpolation polynomial for the
// byteIdx'th coordinate of every share at x=0, which recovers the original
// secret byte (the polynomial's constant term).
func lagrangeAtZero(shares []Share, byteIdx int) (byte, error) {
	var result byte

	for i, si := range shares {
		num := byte(1)
		den := byte(1)
		for j, sj := range shares {
			if i == j {
				continue
			}
			// (0 - x_j) == x_j and (x_i - x_j) == x_i ^ x_j in GF(2^8).
			num = gfMul(num, sj.X)
			den = gfMul(den, gfAdd(si.X, sj.X))
		}
		term, err := gfDiv(num, den)
		if err != nil {
			return 0, newError(KindNoModularInverse, err)
		}
		result = gfAdd(result, gfMul(si.Y[byteIdx], term))
	}

	return result, nil
}
