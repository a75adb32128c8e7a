package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postUpload(t *testing.T, handlerFunc gin.HandlerFunc, filename string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	handlerFunc(c)
	return w
}

// The services stay nil: a mismatched upload must be rejected before any
// extraction or ingestion is attempted.
func TestHandleVoiceRejectsNonAudioUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewIngestHandler(nil, nil)

	for _, filename := range []string{"shot.png", "notes.txt", "report.pdf"} {
		w := postUpload(t, h.HandleVoice, filename)
		assert.Equal(t, http.StatusBadRequest, w.Code, filename)
	}
}

func TestHandlePhotoRejectsNonImageUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewIngestHandler(nil, nil)

	for _, filename := range []string{"memo.ogg", "notes.md", "archive.zip"} {
		w := postUpload(t, h.HandlePhoto, filename)
		assert.Equal(t, http.StatusBadRequest, w.Code, filename)
	}
}

func TestReadUploadRequiresFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewIngestHandler(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	h.HandleVoice(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
