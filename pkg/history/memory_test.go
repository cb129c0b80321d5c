package history

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anaswara-jk/Careerly/pkg/chat"
)

func TestMemory_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		require.NoError(t, m.SaveAnalysis(ctx, Analysis{FileName: name}))
	}

	got, err := m.ListAnalyses(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c.pdf", got[0].FileName)
	assert.Equal(t, "b.pdf", got[1].FileName)
	assert.NotEqual(t, uuid.Nil, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())

	got, err = m.ListAnalyses(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a.pdf", got[0].FileName)

	got, err = m.ListAnalyses(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemory_TranscriptIsCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	msgs := []chat.Message{{ID: 1, Sender: chat.SenderBot, Text: "hi"}}
	require.NoError(t, m.SaveTranscript(ctx, Transcript{SessionID: "s1", Messages: msgs}))
	msgs[0].Text = "changed"

	got, err := m.ListTranscripts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].SessionID)
	assert.Equal(t, "hi", got[0].Messages[0].Text)
}
