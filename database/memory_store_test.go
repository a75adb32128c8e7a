package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/second-brain-be/types"
)

func testRecord(title string) *types.KnowledgeRecord {
	return &types.KnowledgeRecord{
		CoreContent: types.CoreContent{
			Title:        title,
			Summary:      "summary of " + title,
			OriginalText: "original text of " + title,
		},
		SourceAndContext: types.SourceAndContext{SourceType: "Text File"},
		Categorization: types.Categorization{
			PrimaryDomain:   "Other",
			TagsAndKeywords: []string{"tag"},
		},
		Actionability: types.Actionability{ActionabilityType: "None"},
	}
}

func TestMemoryStoreSearchOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Three entries at decreasing similarity to the query vector.
	_, err := store.Upsert(ctx, testRecord("exact"), []float32{1, 0, 0})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, testRecord("close"), []float32{1, 1, 0})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, testRecord("far"), []float32{0, 0, 1})
	require.NoError(t, err)

	matches, err := store.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "exact", matches[0].Record.CoreContent.Title)
	assert.Equal(t, "close", matches[1].Record.CoreContent.Title)
	assert.Equal(t, "far", matches[2].Record.CoreContent.Title)
	assert.True(t, matches[0].Score >= matches[1].Score)
	assert.True(t, matches[1].Score >= matches[2].Score)
}

func TestMemoryStoreTopKCutoff(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 5; i++ {
		_, err := store.Upsert(ctx, testRecord("entry"), []float32{1, float32(i), 0})
		require.NoError(t, err)
	}

	matches, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestMemoryStoreEmptyVector(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_, err := store.Upsert(ctx, testRecord("entry"), []float32{1, 0, 0})
	require.NoError(t, err)

	matches, err := store.Search(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMemoryStoreRoundTripsRecord(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	record := testRecord("round trip")
	name := "source name"
	record.SourceAndContext.SourceName = &name

	id, err := store.Upsert(ctx, record, []float32{1, 2, 3})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	matches, err := store.Search(ctx, []float32{1, 2, 3}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, id, matches[0].ID)
	assert.Equal(t, record, matches[0].Record)
	assert.InDelta(t, 1.0, float64(matches[0].Score), 1e-6)
}

func TestCosineSimilarity(t *testing.T) {
	score, err := cosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0, float64(score), 1e-6)

	score, err = cosineSimilarity([]float32{1, 1}, []float32{2, 2})
	require.NoError(t, err)
	assert.InDelta(t, 1, float64(score), 1e-6)

	_, err = cosineSimilarity([]float32{1}, []float32{1, 2})
	assert.Error(t, err)

	_, err = cosineSimilarity([]float32{0, 0}, []float32{1, 2})
	assert.Error(t, err)
}
