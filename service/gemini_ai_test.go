package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Failing calls trigger key rotation; calls running concurrently on the
// previous client must keep a usable handle. The canceled context makes every
// call fail before reaching the network.
func TestGeminiConcurrentCallsSurviveRotation(t *testing.T) {
	svc, err := NewGeminiService(
		[]string{"key-a", "key-b", "key-c"},
		"gemini-1.5-flash",
		"text-embedding-004",
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, gerr := svc.Generate(ctx, "ping")
				assert.Error(t, gerr)
				_, derr := svc.EmbedDocument(ctx, "ping")
				assert.Error(t, derr)
				_, qerr := svc.EmbedQuery(ctx, "ping")
				assert.Error(t, qerr)
			}
		}()
	}
	wg.Wait()
}

func TestRotateAPIKeySkipsStaleGeneration(t *testing.T) {
	svc, err := NewGeminiService([]string{"key-a", "key-b", "key-c"}, "m", "e")
	require.NoError(t, err)

	_, generation := svc.snapshot()
	require.NoError(t, svc.rotateAPIKey(generation))
	require.NoError(t, svc.rotateAPIKey(generation)) // second failer of the same call, no-op

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, 1, svc.currentKey, "two reports of one failure must advance the key once")
	assert.Equal(t, generation+1, svc.generation)
}

func TestResponseText(t *testing.T) {
	t.Run("no candidates", func(t *testing.T) {
		_, err := responseText(&genai.GenerateContentResponse{})
		assert.Error(t, err)
	})

	t.Run("candidates without text", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: nil},
				{Content: &genai.Content{Parts: []genai.Part{}}},
			},
		}
		_, err := responseText(resp)
		assert.Error(t, err)
	})

	t.Run("text parts concatenated", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("hello "), genai.Text("world")}}},
			},
		}
		text, err := responseText(resp)
		require.NoError(t, err)
		assert.Equal(t, "hello world", text)
	})
}
