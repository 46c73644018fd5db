package shamir

import (
	"github.com/jellydator/validation"

	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
)

// Kind classifies a Shamir failure, matching spec.md's ShamirError kinds.
type Kind string

const (
	KindBadParams             Kind = "bad_params"
	KindMismatchedShareLength Kind = "mismatched_share_lengths"
	KindDuplicateX            Kind = "duplicate_x"
	KindNoModularInverse      Kind = "no_modular_inverse"
)

// ErrShamir is the base sentinel every Error wraps.
var ErrShamir = apperrors.Wrap(apperrors.ErrInvalidInput, "shamir secret sharing failed")

// errNoInverse is the internal gf256 division failure; Reconstruct
// translates it into an Error with KindNoModularInverse.
var errNoInverse = apperrors.New("no modular inverse in GF(2^8)")

// Error reports why Split or Reconstruct rejected its inputs.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return ErrShamir
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// validateSplitParams checks (secretLen, k, n) against spec.md's §4.2
// bounds: k >= 2, n >= k, n <= 255 (x occupies a single byte, 1..255).
func validateSplitParams(secretLen, k, n int) error {
	err := validation.Errors{
		"k": validation.Validate(k, validation.Required, validation.Min(2)),
		"n": validation.Validate(n, validation.Required, validation.Min(k), validation.Max(255)),
	}.Filter()
	if err != nil {
		return newError(KindBadParams, apperrors.New(err.Error()))
	}
	if secretLen == 0 {
		return newError(KindBadParams, apperrors.New("secret must be non-empty"))
	}
	return nil
}
