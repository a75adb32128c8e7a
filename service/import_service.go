package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tieubaoca/second-brain-be/types"
	"github.com/tieubaoca/second-brain-be/utils"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
)

// Source labels used by the batch import paths.
const (
	SourceScreenshot = "Screenshot"
	SourceAudioFile  = "Audio File"
	SourceTextFile   = "Text File"
	SourceVoiceNote  = "Voice Note"
	SourceTextChat   = "Web Text Message"
)

// ImportService ingests every supported file in a directory, one at a time.
// The token-bucket limiter replaces a fixed inter-item sleep and keeps the
// run under the provider's request quota; tests inject rate.Inf.
type ImportService struct {
	ingest    *IngestService
	extractor Extractor
	limiter   *rate.Limiter
}

func NewImportService(ingest *IngestService, extractor Extractor, limiter *rate.Limiter) *ImportService {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &ImportService{
		ingest:    ingest,
		extractor: extractor,
		limiter:   limiter,
	}
}

// ImportDirectory walks the directory non-recursively and processes each
// regular file through the matching extraction path. Unsupported extensions
// and rate-limited items are skipped; everything else that goes wrong counts
// as a failure. The batch never aborts on a per-item error.
func (s *ImportService) ImportDirectory(ctx context.Context, dir string) (*types.ImportSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	summary := &types.ImportSummary{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		kind := utils.ClassifyFile(path)
		if kind == utils.KindUnsupported {
			log.Printf("Unsupported file type %s, skipping", entry.Name())
			summary.Skipped++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		switch err := s.processFile(ctx, path, kind); {
		case err == nil:
			summary.Succeeded++
		case isRateLimited(err):
			log.Printf("Rate limit hit while processing %s, skipping", entry.Name())
			summary.Skipped++
		default:
			log.Printf("Failed to process %s: %v", entry.Name(), err)
			summary.Failed++
		}
	}
	log.Printf("Import finished: %d succeeded, %d skipped, %d failed",
		summary.Succeeded, summary.Skipped, summary.Failed)
	return summary, nil
}

func (s *ImportService) processFile(ctx context.Context, path string, kind utils.InputKind) error {
	var (
		rawText string
		source  string
		err     error
	)
	switch kind {
	case utils.KindImage:
		if s.extractor == nil {
			return fmt.Errorf("no multimodal extractor configured")
		}
		source = SourceScreenshot
		rawText, err = s.extractor.ExtractImageText(ctx, path)
	case utils.KindAudio:
		if s.extractor == nil {
			return fmt.Errorf("no multimodal extractor configured")
		}
		source = SourceAudioFile
		rawText, err = s.extractor.TranscribeAudio(ctx, path)
	case utils.KindText:
		source = SourceTextFile
		var data []byte
		data, err = os.ReadFile(path)
		rawText = string(data)
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(rawText) == "" {
		return fmt.Errorf("no text could be extracted from %s", filepath.Base(path))
	}

	_, _, err = s.ingest.Ingest(ctx, rawText, source)
	return err
}

// isRateLimited recognizes quota errors from either provider so the batch can
// skip the item instead of aborting.
func isRateLimited(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 429 {
		return true
	}
	var oerr *openai.APIError
	if errors.As(err, &oerr) && oerr.HTTPStatusCode == 429 {
		return true
	}
	return false
}
