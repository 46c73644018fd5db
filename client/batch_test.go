package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecryptBatch_MixedSuccessAndFailureDoesNotAbort(t *testing.T) {
	s := newTestSession(t, "v1")

	good, err := s.EncryptAndSend("good-entry", "ok", "")
	require.NoError(t, err)

	bad, err := s.EncryptAndSend("bad-entry", "tampered", "")
	require.NoError(t, err)
	bad.Payload.KEKVersion = "v9"

	items := []BatchItem{
		{LogName: good.LogName, Payload: good.Payload},
		{LogName: bad.LogName, Payload: bad.Payload},
	}

	results, err := s.DecryptBatch(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Failed)
	require.NotNil(t, results[0].Record)
	assert.Equal(t, "good-entry", results[0].Record.LogName)

	assert.True(t, results[1].Failed)
	assert.Equal(t, "Failed to decrypt log", results[1].FailureReason)
	assert.Equal(t, "v9", results[1].EncryptedWithVersion)
}

func TestDecryptBatch_PreservesOrderAcrossManyItems(t *testing.T) {
	s := newTestSession(t, "v1")

	const n = 30
	items := make([]BatchItem, n)
	for i := 0; i < n; i++ {
		entry, err := s.EncryptAndSend("entry", i, "")
		require.NoError(t, err)
		items[i] = BatchItem{LogName: entry.LogName, Payload: entry.Payload}
	}

	results, err := s.DecryptBatch(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, results, n)
	for _, r := range results {
		require.False(t, r.Failed)
		assert.Equal(t, "entry", r.Record.LogName)
	}
}

func TestEncryptBatch_ProducesOneEntryPerItem(t *testing.T) {
	s := newTestSession(t, "v1")

	items := []EncryptItem{
		{LogName: "a", Data: "1"},
		{LogName: "b", Data: "2"},
		{LogName: "c", Data: "3"},
	}

	entries, err := s.EncryptBatch(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Equal(t, "v1", e.Payload.KEKVersion)
	}
}
