package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tieubaoca/second-brain-be/database"
	"github.com/tieubaoca/second-brain-be/types"
)

const (
	contextPlaceholder  = "{{CONTEXT}}"
	questionPlaceholder = "{{QUESTION}}"

	noContextMarker = "No relevant information was found in the knowledge base."

	embedFailureMessage = "Sorry, I could not process your question right now. Please try again later."
	apologyMessage      = "Sorry, I could not come up with an answer right now. Please try again later."
)

// AnswerService answers a question by retrieving stored knowledge and
// injecting it as context into one generative call.
type AnswerService struct {
	embedder      Embedder
	store         database.VectorStore
	generator     Generator
	template      string
	topK          int
	minSimilarity float32 // zero disables the cutoff
}

func NewAnswerService(
	embedder Embedder,
	store database.VectorStore,
	generator Generator,
	promptDir string,
	topK int,
	minSimilarity float32,
) (*AnswerService, error) {
	path := filepath.Join(promptDir, "rag_prompt.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load answer prompt %s: %w", path, err)
	}
	template := string(data)
	if !strings.Contains(template, contextPlaceholder) || !strings.Contains(template, questionPlaceholder) {
		return nil, fmt.Errorf("answer prompt %s is missing a placeholder", path)
	}
	return &AnswerService{
		embedder:      embedder,
		store:         store,
		generator:     generator,
		template:      template,
		topK:          topK,
		minSimilarity: minSimilarity,
	}, nil
}

// Answer always returns user-facing text; failures collapse into fixed
// messages instead of propagating.
func (s *AnswerService) Answer(ctx context.Context, query string) string {
	prompt, ok := s.buildPrompt(ctx, query)
	if !ok {
		return embedFailureMessage
	}
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Answer generation failed: %v", err)
		return apologyMessage
	}
	return answer
}

// AnswerStream streams the generated answer chunk by chunk.
func (s *AnswerService) AnswerStream(ctx context.Context, query string, handler types.StreamHandler) error {
	prompt, ok := s.buildPrompt(ctx, query)
	if !ok {
		handler(embedFailureMessage)
		return nil
	}
	return s.generator.GenerateStream(ctx, prompt, handler)
}

func (s *AnswerService) buildPrompt(ctx context.Context, query string) (string, bool) {
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		log.Printf("Query embedding failed: %v", err)
		return "", false
	}

	matches, err := s.store.Search(ctx, vector, s.topK)
	if err != nil {
		// Degrade to "no stored context" rather than failing the question.
		log.Printf("Knowledge search failed, answering without context: %v", err)
		matches = nil
	}

	prompt := strings.ReplaceAll(s.template, contextPlaceholder, s.buildContext(matches))
	prompt = strings.ReplaceAll(prompt, questionPlaceholder, query)
	return prompt, true
}

// buildContext concatenates title and summary of each match in rank order.
func (s *AnswerService) buildContext(matches []database.SearchMatch) string {
	var b strings.Builder
	for _, match := range matches {
		if s.minSimilarity > 0 && match.Score < s.minSimilarity {
			continue
		}
		fmt.Fprintf(&b, "Title: %s\nSummary: %s\n---\n",
			match.Record.CoreContent.Title,
			match.Record.CoreContent.Summary,
		)
	}
	if b.Len() == 0 {
		return noContextMarker
	}
	return b.String()
}
