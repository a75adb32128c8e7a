package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tieubaoca/second-brain-be/types"
	"github.com/tieubaoca/second-brain-be/utils"
)

const rawTextPlaceholder = "{{RAW_TEXT}}"

// StructuringService turns raw text into a validated KnowledgeRecord via one
// generative-model call.
type StructuringService struct {
	generator Generator
	template  string
}

// NewStructuringService loads the instruction template once. A missing
// template is a configuration error; callers abort startup on it.
func NewStructuringService(generator Generator, promptDir string) (*StructuringService, error) {
	path := filepath.Join(promptDir, "master_prompt.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load structuring prompt %s: %w", path, err)
	}
	if !strings.Contains(string(data), rawTextPlaceholder) {
		return nil, fmt.Errorf("structuring prompt %s is missing the %s placeholder", path, rawTextPlaceholder)
	}
	return &StructuringService{
		generator: generator,
		template:  string(data),
	}, nil
}

// Structure asks the model for one JSON object conforming to the knowledge
// schema, extracts it from the surrounding model chatter and enforces the
// schema invariants. The
// original text and the source type are always taken from the caller, never
// from the model.
func (s *StructuringService) Structure(ctx context.Context, rawText, sourceLabel string) (*types.KnowledgeRecord, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("cannot structure empty text")
	}

	prompt := strings.ReplaceAll(s.template, rawTextPlaceholder, rawText)
	output, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("structuring model call failed: %w", err)
	}

	block, err := utils.ExtractJSONBlock(output)
	if err != nil {
		log.Printf("Structuring output had no JSON object. Raw output:\n%s", output)
		return nil, err
	}

	var record types.KnowledgeRecord
	if err := json.Unmarshal([]byte(block), &record); err != nil {
		log.Printf("Structuring output was not valid JSON: %v. Raw output:\n%s", err, output)
		return nil, fmt.Errorf("failed to parse structuring output: %w", err)
	}

	// Never trust the model to echo the input exactly or to guess the source.
	record.CoreContent.OriginalText = rawText
	record.SourceAndContext.SourceType = sourceLabel

	if err := record.Validate(); err != nil {
		log.Printf("Structuring output failed validation: %v. Raw output:\n%s", err, output)
		return nil, err
	}
	return &record, nil
}
