package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InputKind classifies a file by extension for the ingestion paths.
type InputKind int

const (
	KindUnsupported InputKind = iota
	KindText
	KindImage
	KindAudio
)

var (
	imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	audioExtensions = map[string]bool{".ogg": true, ".mp3": true, ".wav": true, ".m4a": true}
	textExtensions  = map[string]bool{".txt": true, ".md": true}
)

func ClassifyFile(path string) InputKind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExtensions[ext]:
		return KindImage
	case audioExtensions[ext]:
		return KindAudio
	case textExtensions[ext]:
		return KindText
	default:
		return KindUnsupported
	}
}

// AudioMIMEType maps a supported audio extension to the MIME type the model
// expects for transcription.
func AudioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mp3"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	default:
		return "audio/ogg"
	}
}

// ImageFormat maps a supported image extension to the format label used by
// the multimodal model API.
func ImageFormat(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".png" {
		return "png"
	}
	return "jpeg"
}

// WriteTempFile stores data under dir with the given extension and returns
// the path. Callers own the file and must remove it on every exit path.
func WriteTempFile(dir, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	f, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return f.Name(), nil
}
