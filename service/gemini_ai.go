package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/tieubaoca/second-brain-be/types"
	"github.com/tieubaoca/second-brain-be/utils"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// geminiHandles is one immutable client snapshot. Calls run against a
// snapshot taken under the mutex, so a concurrent rotation can never pull a
// client out from under an in-flight request.
type geminiHandles struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	docEmbedder   *genai.EmbeddingModel
	queryEmbedder *genai.EmbeddingModel
}

// GeminiService implements Generator, Embedder and Extractor on top of the
// Gemini API. Free-tier keys rate-limit aggressively, so the service accepts
// several keys and rotates to the next one when a call fails.
type GeminiService struct {
	apiKeys        []string
	modelName      string
	embedModelName string

	mu         sync.Mutex
	currentKey int
	generation int
	handles    *geminiHandles
}

func NewGeminiService(apiKeys []string, modelName, embedModelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiService{
		apiKeys:        apiKeys,
		modelName:      modelName,
		embedModelName: embedModelName,
	}
	handles, err := service.buildHandles(apiKeys[0])
	if err != nil {
		return nil, err
	}
	service.handles = handles
	return service, nil
}

func (s *GeminiService) buildHandles(apiKey string) (*geminiHandles, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	h := &geminiHandles{
		client: client,
		model:  client.GenerativeModel(s.modelName),
	}
	h.docEmbedder = client.EmbeddingModel(s.embedModelName)
	h.docEmbedder.TaskType = genai.TaskTypeRetrievalDocument
	h.queryEmbedder = client.EmbeddingModel(s.embedModelName)
	h.queryEmbedder.TaskType = genai.TaskTypeRetrievalQuery
	return h, nil
}

func (s *GeminiService) snapshot() (*geminiHandles, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles, s.generation
}

// rotateAPIKey swaps in a client on the next key. The generation check makes
// concurrent failers rotate once, not once each; the old client is left open
// because other goroutines may still have calls in flight on it.
func (s *GeminiService) rotateAPIKey(seenGeneration int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != seenGeneration {
		return nil
	}
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	handles, err := s.buildHandles(s.apiKeys[s.currentKey])
	if err != nil {
		return err
	}
	s.handles = handles
	s.generation++
	return nil
}

func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	h, generation := s.snapshot()
	resp, err := h.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if rerr := s.rotateAPIKey(generation); rerr != nil {
			return "", rerr
		}
		h, _ = s.snapshot()
		resp, err = h.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
	}
	return responseText(resp)
}

func (s *GeminiService) GenerateStream(ctx context.Context, prompt string, handler types.StreamHandler) error {
	h, _ := s.snapshot()
	iter := h.model.GenerateContentStream(ctx, genai.Text(prompt))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					handler(string(text))
				}
			}
		}
	}
}

func (s *GeminiService) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, false, text)
}

func (s *GeminiService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, true, text)
}

func (h *geminiHandles) embedder(query bool) *genai.EmbeddingModel {
	if query {
		return h.queryEmbedder
	}
	return h.docEmbedder
}

func (s *GeminiService) embed(ctx context.Context, query bool, text string) ([]float32, error) {
	h, generation := s.snapshot()
	resp, err := h.embedder(query).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		if rerr := s.rotateAPIKey(generation); rerr != nil {
			return nil, rerr
		}
		// retry on the post-rotation snapshot
		h, _ = s.snapshot()
		resp, err = h.embedder(query).EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, err
		}
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return resp.Embedding.Values, nil
}

// TranscribeAudio sends the voice recording to the multimodal model and
// returns the recognized text.
func (s *GeminiService) TranscribeAudio(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}
	h, _ := s.snapshot()
	resp, err := h.model.GenerateContent(ctx,
		genai.Text("Transcribe this audio recording verbatim. Output only the transcription."),
		genai.Blob{MIMEType: utils.AudioMIMEType(path), Data: data},
	)
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

// ExtractImageText performs OCR over the image via the multimodal model.
func (s *GeminiService) ExtractImageText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}
	h, _ := s.snapshot()
	resp, err := h.model.GenerateContent(ctx,
		genai.Text("Extract all text from this image. Output only the extracted text."),
		genai.ImageData(utils.ImageFormat(path), data),
	)
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}
	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	if content == "" {
		return "", errors.New("response contained no text")
	}
	return content, nil
}
