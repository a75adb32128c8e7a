package service

import (
	"context"

	"github.com/tieubaoca/second-brain-be/types"
)

// Generator is a single-shot text generation call against a generative model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateStream(ctx context.Context, prompt string, handler types.StreamHandler) error
}

// Embedder turns text into a fixed-length vector. Document and query intent
// affect the model's internal representation, not the interface.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Extractor converts non-text inputs into raw text before structuring.
type Extractor interface {
	TranscribeAudio(ctx context.Context, path string) (string, error)
	ExtractImageText(ctx context.Context, path string) (string, error)
}
