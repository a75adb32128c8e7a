package service

import (
	"context"
	"os"

	"github.com/tieubaoca/second-brain-be/utils"
)

// FileService owns the temp-file lifecycle for uploaded voice and photo
// bytes: the file exists only for the duration of the extraction call and is
// removed on every exit path.
type FileService struct {
	uploadDir string
	extractor Extractor
}

func NewFileService(uploadDir string, extractor Extractor) *FileService {
	return &FileService{
		uploadDir: uploadDir,
		extractor: extractor,
	}
}

// ExtractVoice transcribes an uploaded voice recording.
func (s *FileService) ExtractVoice(ctx context.Context, data []byte, ext string) (string, error) {
	path, err := utils.WriteTempFile(s.uploadDir, ext, data)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)
	return s.extractor.TranscribeAudio(ctx, path)
}

// ExtractPhoto runs OCR over an uploaded photo.
func (s *FileService) ExtractPhoto(ctx context.Context, data []byte, ext string) (string, error) {
	path, err := utils.WriteTempFile(s.uploadDir, ext, data)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)
	return s.extractor.ExtractImageText(ctx, path)
}
