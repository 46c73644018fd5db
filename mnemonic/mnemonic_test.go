package mnemonic

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	t.Run("128 bits -> 12 words", func(t *testing.T) {
		phrase, err := Generate(128)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(phrase), 12)
		assert.True(t, Validate(phrase))
	})

	t.Run("256 bits -> 24 words", func(t *testing.T) {
		phrase, err := Generate(256)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(phrase), 24)
		assert.True(t, Validate(phrase))
	})

	t.Run("invalid strength", func(t *testing.T) {
		_, err := Generate(100)
		assert.Error(t, err)
	})
}

func TestValidate_RejectsGarbage(t *testing.T) {
	assert.False(t, Validate("not a real mnemonic phrase at all"))
	assert.False(t, Validate(""))
}

func TestPhraseToSeed_Deterministic(t *testing.T) {
	phrase, err := Generate(128)
	require.NoError(t, err)

	a := PhraseToSeed(phrase, "")
	b := PhraseToSeed(phrase, "")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestPhraseToSeed_PassphraseChangesSeed(t *testing.T) {
	phrase, err := Generate(128)
	require.NoError(t, err)

	a := PhraseToSeed(phrase, "")
	b := PhraseToSeed(phrase, "extra passphrase")
	assert.NotEqual(t, a, b)
}

func TestQuizAndVerify(t *testing.T) {
	phrase, err := Generate(128)
	require.NoError(t, err)
	words := strings.Fields(phrase)

	challenges, err := Quiz(phrase, 4)
	require.NoError(t, err)
	require.Len(t, challenges, 4)

	// No duplicate indices, all in range, sorted ascending.
	seen := map[int]bool{}
	for i, c := range challenges {
		assert.False(t, seen[c.Index], "duplicate index %d", c.Index)
		seen[c.Index] = true
		assert.GreaterOrEqual(t, c.Index, 0)
		assert.Less(t, c.Index, len(words))
		assert.Equal(t, words[c.Index], c.Word)
		if i > 0 {
			assert.Less(t, challenges[i-1].Index, c.Index)
		}
	}

	answers := make([]QuizAnswer, len(challenges))
	for i, c := range challenges {
		answers[i] = QuizAnswer{Index: c.Index, Word: c.Word}
	}
	assert.True(t, VerifyQuiz(phrase, answers))

	answers[0].Word = "definitely-wrong-word"
	assert.False(t, VerifyQuiz(phrase, answers))
}

func TestQuiz_InvalidCount(t *testing.T) {
	phrase, err := Generate(128)
	require.NoError(t, err)

	_, err = Quiz(phrase, 0)
	assert.Error(t, err)

	_, err = Quiz(phrase, 13)
	assert.Error(t, err)
}

func TestQuiz_InvalidPhrase(t *testing.T) {
	_, err := Quiz("not a valid phrase", 2)
	assert.Error(t, err)
}

func TestVerifyQuiz_OutOfRangeIndexFails(t *testing.T) {
	phrase, err := Generate(128)
	require.NoError(t, err)

	assert.False(t, VerifyQuiz(phrase, []QuizAnswer{{Index: 999, Word: "x"}}))
	assert.False(t, VerifyQuiz(phrase, []QuizAnswer{{Index: -1, Word: "x"}}))
}

func TestNewQuizSession_TagsChallengesWithUniqueID(t *testing.T) {
	phrase, err := Generate(128)
	require.NoError(t, err)

	a, err := NewQuizSession(phrase, 3)
	require.NoError(t, err)
	b, err := NewQuizSession(phrase, 3)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.Challenges, 3)
}

func TestVerifyQuiz_EmptyAnswersVacuouslyTrue(t *testing.T) {
	phrase, err := Generate(128)
	require.NoError(t, err)
	assert.True(t, VerifyQuiz(phrase, nil))
}
