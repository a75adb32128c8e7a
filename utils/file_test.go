package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFile(t *testing.T) {
	cases := map[string]InputKind{
		"note.txt":       KindText,
		"note.md":        KindText,
		"shot.PNG":       KindImage,
		"photo.jpeg":     KindImage,
		"voice.ogg":      KindAudio,
		"song.M4A":       KindAudio,
		"archive.bin":    KindUnsupported,
		"document.pdf":   KindUnsupported,
		"no-extension":   KindUnsupported,
		"dir/nested.wav": KindAudio,
	}
	for path, want := range cases {
		assert.Equal(t, want, ClassifyFile(path), path)
	}
}

func TestWriteTempFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	path, err := WriteTempFile(dir, ".ogg", []byte("voice-bytes"))
	require.NoError(t, err)
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "voice-bytes", string(data))
	assert.Equal(t, ".ogg", filepath.Ext(path))
}
