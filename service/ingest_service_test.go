package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/second-brain-be/database"
)

func TestIngestHappyPath(t *testing.T) {
	generator := &fakeGenerator{outputs: []string{
		modelOutput("Weekly report", "Send the weekly report tomorrow.", []string{"report", "deadline"}),
	}}
	embedder := &fakeEmbedder{}
	store := database.NewMemoryStore()
	svc := NewIngestService(newTestStructuring(t, generator), embedder, store, nil, true)

	id, record, err := svc.Ingest(context.Background(), "send the weekly report tomorrow", "Text File")
	require.NoError(t, err)

	assert.NotEmpty(t, id)
	assert.Equal(t, "Weekly report", record.CoreContent.Title)
	assert.Equal(t, 1, embedder.docCalls)
	assert.Equal(t, 1, store.Len())
}

func TestIngestStructuringFailureShortCircuits(t *testing.T) {
	generator := &fakeGenerator{err: errors.New("model unavailable")}
	embedder := &fakeEmbedder{}
	store := database.NewMemoryStore()
	svc := NewIngestService(newTestStructuring(t, generator), embedder, store, nil, true)

	_, _, err := svc.Ingest(context.Background(), "some note", "Article")
	require.ErrorIs(t, err, ErrStructuring)
	assert.Zero(t, embedder.docCalls)
	assert.Zero(t, store.Len())
}

func TestIngestEmbeddingFailureShortCircuits(t *testing.T) {
	generator := &fakeGenerator{outputs: []string{
		modelOutput("Title", "Summary.", []string{"tag"}),
	}}
	embedder := &fakeEmbedder{docErr: errors.New("quota exceeded")}
	store := database.NewMemoryStore()
	svc := NewIngestService(newTestStructuring(t, generator), embedder, store, nil, true)

	_, _, err := svc.Ingest(context.Background(), "some note", "Article")
	require.ErrorIs(t, err, ErrEmbedding)
	assert.Zero(t, store.Len())
}

func TestIngestStorageFailureLeavesNothingBehind(t *testing.T) {
	generator := &fakeGenerator{outputs: []string{
		modelOutput("Title", "Summary.", []string{"tag"}),
	}}
	store := &failingStore{}
	svc := NewIngestService(newTestStructuring(t, generator), &fakeEmbedder{}, store, nil, true)

	_, _, err := svc.Ingest(context.Background(), "some note", "Article")
	require.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, 1, store.upsertCalls)
}

// Ingesting a note and then searching with a query that shares its key terms
// must surface the note near the top of the results.
func TestIngestThenSearchFindsTheNote(t *testing.T) {
	ctx := context.Background()
	generator := &fakeGenerator{outputs: []string{
		modelOutput("ارسال گزارش هفتگی", "باید گزارش هفتگی را فردا ارسال کنم.", []string{"گزارش", "هفتگی"}),
		modelOutput("Grocery list", "Buy milk and eggs on Saturday.", []string{"groceries"}),
		modelOutput("Gym schedule", "Leg day moved to Thursday evening.", []string{"fitness"}),
	}}
	embedder := &fakeEmbedder{}
	store := database.NewMemoryStore()
	svc := NewIngestService(newTestStructuring(t, generator), embedder, store, nil, true)

	reportID, _, err := svc.Ingest(ctx, "یادداشت: باید گزارش هفتگی را فردا ارسال کنم", "Telegram Text Message")
	require.NoError(t, err)
	_, _, err = svc.Ingest(ctx, "buy milk and eggs", "Telegram Text Message")
	require.NoError(t, err)
	_, _, err = svc.Ingest(ctx, "leg day is thursday now", "Telegram Text Message")
	require.NoError(t, err)

	queryVector, err := embedder.EmbedQuery(ctx, "گزارش هفتگی")
	require.NoError(t, err)
	matches, err := store.Search(ctx, queryVector, 3)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	found := false
	for _, match := range matches {
		if match.ID == reportID {
			found = true
		}
	}
	assert.True(t, found, "the report note should be among the top matches")
	assert.Equal(t, reportID, matches[0].ID, "the report note should rank first")
}
