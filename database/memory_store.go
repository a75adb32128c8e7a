package database

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tieubaoca/second-brain-be/types"
)

// MemoryStore is an in-process VectorStore over flat string metadata, the
// shape managed vector databases expose. It backs the pipeline tests and a
// store-less local run; it is not durable.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	vector []float32
	meta   map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Upsert(ctx context.Context, record *types.KnowledgeRecord, vector []float32) (string, error) {
	meta, err := record.Flatten()
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.entries[id] = memoryEntry{vector: vector, meta: meta}
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Search(ctx context.Context, vector []float32, topK int) ([]SearchMatch, error) {
	if len(vector) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]SearchMatch, 0, len(s.entries))
	for id, entry := range s.entries {
		score, err := cosineSimilarity(vector, entry.vector)
		if err != nil {
			continue
		}
		record, err := types.RecordFromFlat(entry.meta)
		if err != nil {
			return nil, err
		}
		matches = append(matches, SearchMatch{ID: id, Score: score, Record: record})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Len reports the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cosineSimilarity(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude vector")
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB))), nil
}
