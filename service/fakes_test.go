package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/second-brain-be/database"
	"github.com/tieubaoca/second-brain-be/types"
)

// fakeGenerator replays canned model outputs in order.
type fakeGenerator struct {
	outputs    []string
	err        error
	calls      int
	lastPrompt string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	if len(g.outputs) == 0 {
		return "", errors.New("fakeGenerator: no outputs left")
	}
	out := g.outputs[0]
	g.outputs = g.outputs[1:]
	return out, nil
}

func (g *fakeGenerator) GenerateStream(ctx context.Context, prompt string, handler types.StreamHandler) error {
	out, err := g.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	for _, word := range strings.Fields(out) {
		handler(word + " ")
	}
	return nil
}

// fakeEmbedder hashes tokens into a bag-of-words vector, so texts sharing
// words land close together under cosine similarity.
type fakeEmbedder struct {
	docCalls   int
	queryCalls int
	docErr     error
	queryErr   error
}

func (e *fakeEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	e.docCalls++
	if e.docErr != nil {
		return nil, e.docErr
	}
	return hashEmbed(text), nil
}

func (e *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.queryCalls++
	if e.queryErr != nil {
		return nil, e.queryErr
	}
	return hashEmbed(text), nil
}

func hashEmbed(text string) []float32 {
	v := make([]float32, 64)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?:;\"'«»")
		if token == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(token))
		v[h.Sum32()%64]++
	}
	return v
}

// failingStore simulates a vector store whose backing service is down.
type failingStore struct {
	upsertCalls int
	searchCalls int
}

func (s *failingStore) Upsert(ctx context.Context, record *types.KnowledgeRecord, vector []float32) (string, error) {
	s.upsertCalls++
	return "", errors.New("store unavailable")
}

func (s *failingStore) Search(ctx context.Context, vector []float32, topK int) ([]database.SearchMatch, error) {
	s.searchCalls++
	return nil, errors.New("store unavailable")
}

// staticStore returns a fixed result set regardless of the query vector.
type staticStore struct {
	matches []database.SearchMatch
}

func (s *staticStore) Upsert(ctx context.Context, record *types.KnowledgeRecord, vector []float32) (string, error) {
	return "", errors.New("staticStore is read-only")
}

func (s *staticStore) Search(ctx context.Context, vector []float32, topK int) ([]database.SearchMatch, error) {
	if topK < len(s.matches) {
		return s.matches[:topK], nil
	}
	return s.matches, nil
}

// modelOutput builds a canned structuring response the way the model is
// instructed to produce it.
func modelOutput(title, summary string, tags []string) string {
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	return fmt.Sprintf(`{
  "core_content": {
    "title": %q,
    "summary": %q,
    "original_text": "model echo, must be discarded"
  },
  "source_and_context": {
    "source_type": "Article",
    "source_name": null,
    "source_author_or_creator": null
  },
  "categorization": {
    "primary_domain": "Productivity",
    "tags_and_keywords": [%s],
    "entities": []
  },
  "actionability": {
    "actionability_type": "Actionable Task",
    "action_item_description": null
  }
}`, title, summary, strings.Join(quoted, ", "))
}

// writePromptDir creates a prompt directory with both templates.
func writePromptDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	master := "Structure this.\n--- Raw Text ---\n{{RAW_TEXT}}\n"
	rag := "Context:\n{{CONTEXT}}\nQuestion: {{QUESTION}}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "master_prompt.txt"), []byte(master), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rag_prompt.txt"), []byte(rag), 0644))
	return dir
}

func newTestStructuring(t *testing.T, generator Generator) *StructuringService {
	t.Helper()
	s, err := NewStructuringService(generator, writePromptDir(t))
	require.NoError(t, err)
	return s
}

// fakeExtractor returns canned text for any image or audio file and records
// whether the file still existed during the call.
type fakeExtractor struct {
	text        string
	err         error
	seenPaths   []string
	pathExisted []bool
}

func (e *fakeExtractor) TranscribeAudio(ctx context.Context, path string) (string, error) {
	return e.observe(path)
}

func (e *fakeExtractor) ExtractImageText(ctx context.Context, path string) (string, error) {
	return e.observe(path)
}

func (e *fakeExtractor) observe(path string) (string, error) {
	e.seenPaths = append(e.seenPaths, path)
	_, statErr := os.Stat(path)
	e.pathExisted = append(e.pathExisted, statErr == nil)
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}
