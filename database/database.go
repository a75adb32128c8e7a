package database

import (
	"context"

	"github.com/tieubaoca/second-brain-be/types"
)

// SearchMatch is one nearest-neighbour result, best matches first. Score is
// cosine similarity in [-1, 1].
type SearchMatch struct {
	ID     string
	Score  float32
	Record *types.KnowledgeRecord
}

// VectorStore is the storage boundary of the ingestion and retrieval
// pipelines. Upsert writes vector and metadata as a single unit and returns
// the generated identifier; entries are immutable afterwards.
type VectorStore interface {
	Upsert(ctx context.Context, record *types.KnowledgeRecord, vector []float32) (string, error)
	Search(ctx context.Context, vector []float32, topK int) ([]SearchMatch, error)
}
