package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tieubaoca/second-brain-be/database"
	"github.com/tieubaoca/second-brain-be/repository"
	"github.com/tieubaoca/second-brain-be/types"
)

// Step sentinels let callers report which pipeline stage failed.
var (
	ErrStructuring = errors.New("structuring failed")
	ErrEmbedding   = errors.New("embedding failed")
	ErrStorage     = errors.New("storage failed")
)

// IngestService runs the structure -> embed -> store sequence for one input
// text, short-circuiting on the first failure. No compensating action is
// taken on partial failure.
type IngestService struct {
	structuring *StructuringService
	embedder    Embedder
	store       database.VectorStore
	archive     repository.ArchiveRepo // optional journal, nil to disable
	includeTags bool
}

func NewIngestService(
	structuring *StructuringService,
	embedder Embedder,
	store database.VectorStore,
	archive repository.ArchiveRepo,
	includeTags bool,
) *IngestService {
	return &IngestService{
		structuring: structuring,
		embedder:    embedder,
		store:       store,
		archive:     archive,
		includeTags: includeTags,
	}
}

// Ingest returns the generated identifier and the structured record for a
// successful run.
func (s *IngestService) Ingest(ctx context.Context, rawText, sourceLabel string) (string, *types.KnowledgeRecord, error) {
	record, err := s.structuring.Structure(ctx, rawText, sourceLabel)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrStructuring, err)
	}

	vector, err := s.embedder.EmbedDocument(ctx, record.EmbeddingText(s.includeTags))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	id, err := s.store.Upsert(ctx, record, vector)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.journal(ctx, id, record)
	return id, record, nil
}

// journal writes the archive entry after a successful upsert. Failures are
// logged, not returned: the vector store is the source of truth and there is
// no transactionality across the two writes.
func (s *IngestService) journal(ctx context.Context, knowledgeID string, record *types.KnowledgeRecord) {
	if s.archive == nil {
		return
	}
	entry := &types.ArchiveEntry{
		ID:          uuid.NewString(),
		KnowledgeID: knowledgeID,
		Title:       record.CoreContent.Title,
		Summary:     record.CoreContent.Summary,
		SourceType:  record.SourceAndContext.SourceType,
		CreatedAt:   time.Now().Unix(),
	}
	if err := s.archive.SaveEntry(ctx, entry); err != nil {
		log.Printf("Failed to journal knowledge entry %s: %v", knowledgeID, err)
	}
}
