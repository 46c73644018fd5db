// Package mnemonic implements the BIP-39 recovery-phrase lifecycle: entropy
// generation, validation, phrase-to-seed conversion, and the "recall quiz"
// helpers that let a caller check a user actually wrote their phrase down.
//
// Library: github.com/tyler-smith/go-bip39, the same BIP-39 implementation
// the pack's prysmaticlabs/prysm validator keymanager and the
// not-for-prod-crypto example both build on.
package mnemonic

import (
	"crypto/rand"
	"math/big"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/tyler-smith/go-bip39"

	apperrors "github.com/neurallog/go-crypto-client/internal/errors"
)

// ErrInvalid wraps every failure in this package: bad entropy strength,
// a phrase that fails BIP-39 checksum/wordlist validation, or a
// malformed quiz request.
var ErrInvalid = apperrors.Wrap(apperrors.ErrInvalidInput, "mnemonic invalid")

// Generate produces a new BIP-39 phrase from strengthBits bits of entropy.
// strengthBits must be one of 128, 160, 192, 224, 256 (12, 15, 18, 21, or
// 24 words respectively); spec.md only requires 128 and 256.
func Generate(strengthBits int) (string, error) {
	entropy, err := bip39.NewEntropy(strengthBits)
	if err != nil {
		return "", apperrors.Wrap(ErrInvalid, err.Error())
	}

	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", apperrors.Wrap(ErrInvalid, err.Error())
	}

	return phrase, nil
}

// Validate reports whether phrase is a well-formed BIP-39 mnemonic:
// every word is in the wordlist and the checksum bits match.
func Validate(phrase string) bool {
	return bip39.IsMnemonicValid(phrase)
}

// PhraseToSeed derives the 64-byte BIP-39 seed from phrase and an
// optional passphrase, using PBKDF2-HMAC-SHA-512 with salt
// "mnemonic"+passphrase and 2048 iterations, per the BIP-39 standard.
// The caller must validate phrase first; PhraseToSeed does not reject an
// invalid phrase (BIP-39 seed derivation is defined for any wordlist
// string, valid or not, which is also how recovery from a user-mistyped
// phrase is possible).
func PhraseToSeed(phrase, passphrase string) []byte {
	return bip39.NewSeed(phrase, passphrase)
}

// QuizChallenge asks the user to recall the word at Index (0-based) in
// their recovery phrase.
type QuizChallenge struct {
	Index int
	Word  string
}

// QuizAnswer is the user's claimed word for a challenged index.
type QuizAnswer struct {
	Index int
	Word  string
}

// Quiz draws count challenges uniformly without replacement from phrase's
// words, returned in ascending index order. Returns ErrInvalid if count
// is not in [1, len(words)] or phrase fails BIP-39 validation.
func Quiz(phrase string, count int) ([]QuizChallenge, error) {
	if !Validate(phrase) {
		return nil, apperrors.Wrap(ErrInvalid, "phrase fails BIP-39 validation")
	}

	words := strings.Fields(phrase)
	if count <= 0 || count > len(words) {
		return nil, apperrors.Wrapf(ErrInvalid, "quiz count must be between 1 and %d", len(words))
	}

	indices, err := sampleWithoutReplacement(len(words), count)
	if err != nil {
		return nil, apperrors.Wrap(ErrInvalid, err.Error())
	}

	challenges := make([]QuizChallenge, count)
	for i, idx := range indices {
		challenges[i] = QuizChallenge{Index: idx, Word: words[idx]}
	}
	sort.Slice(challenges, func(i, j int) bool { return challenges[i].Index < challenges[j].Index })

	return challenges, nil
}

// QuizSession tags one round of Quiz challenges with a UUIDv7 nonce, so
// a caller juggling several in-flight recovery-quiz attempts for the
// same user (e.g. a retry after a wrong answer) can tell which answer
// set belongs to which challenge set without threading extra state
// through its own storage.
type QuizSession struct {
	ID         uuid.UUID
	Challenges []QuizChallenge
}

// NewQuizSession runs Quiz and tags the resulting challenge set with a
// fresh UUIDv7 session ID.
func NewQuizSession(phrase string, count int) (*QuizSession, error) {
	challenges, err := Quiz(phrase, count)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(ErrInvalid, err.Error())
	}
	return &QuizSession{ID: id, Challenges: challenges}, nil
}

// VerifyQuiz reports whether every answer's word matches phrase at its
// index. An empty answers slice is vacuously true; an out-of-range index
// in any answer makes the whole quiz fail.
func VerifyQuiz(phrase string, answers []QuizAnswer) bool {
	words := strings.Fields(phrase)
	for _, a := range answers {
		if a.Index < 0 || a.Index >= len(words) {
			return false
		}
		if words[a.Index] != a.Word {
			return false
		}
	}
	return true
}

// sampleWithoutReplacement performs a partial Fisher-Yates shuffle of
// [0, n) using crypto/rand, returning the first k drawn indices. Each
// permutation of k-subsets is equally likely.
func sampleWithoutReplacement(n, k int) ([]int, error) {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	for i := 0; i < k; i++ {
		remaining := n - i
		j, err := randIntn(remaining)
		if err != nil {
			return nil, err
		}
		j += i
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:k], nil
}

// randIntn returns a uniform random integer in [0, n) using crypto/rand.
func randIntn(n int) (int, error) {
	max := big.NewInt(int64(n))
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
