package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/second-brain-be/service"
	"github.com/tieubaoca/second-brain-be/types"
	"github.com/tieubaoca/second-brain-be/utils"
)

// IngestHandler accepts text, voice and photo inputs and feeds them through
// the ingestion pipeline.
type IngestHandler struct {
	ingest *service.IngestService
	files  *service.FileService
}

func NewIngestHandler(ingest *service.IngestService, files *service.FileService) *IngestHandler {
	return &IngestHandler{
		ingest: ingest,
		files:  files,
	}
}

// HandleText ingests a plain text message.
func (h *IngestHandler) HandleText(c *gin.Context) {
	var req types.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: "error", Message: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: "error", Message: "Text is required"})
		return
	}
	source := req.SourceType
	if source == "" {
		source = service.SourceTextChat
	}
	h.runPipeline(c, req.Text, source)
}

// HandleVoice ingests an uploaded voice recording: transcription first, then
// the regular pipeline.
func (h *IngestHandler) HandleVoice(c *gin.Context) {
	data, ext, ok := h.readUpload(c, utils.KindAudio, ".ogg")
	if !ok {
		return
	}
	text, err := h.files.ExtractVoice(c.Request.Context(), data, ext)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.DataResponse{Status: "error", Message: "Voice transcription failed"})
		return
	}
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusUnprocessableEntity, types.DataResponse{Status: "error", Message: "No speech could be recognized in the recording"})
		return
	}
	h.runPipeline(c, text, service.SourceVoiceNote)
}

// HandlePhoto ingests an uploaded photo: OCR first, then the regular pipeline.
func (h *IngestHandler) HandlePhoto(c *gin.Context) {
	data, ext, ok := h.readUpload(c, utils.KindImage, ".jpg")
	if !ok {
		return
	}
	text, err := h.files.ExtractPhoto(c.Request.Context(), data, ext)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.DataResponse{Status: "error", Message: "Text extraction failed"})
		return
	}
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusUnprocessableEntity, types.DataResponse{Status: "error", Message: "No text was found in the image"})
		return
	}
	h.runPipeline(c, text, service.SourceScreenshot)
}

func (h *IngestHandler) runPipeline(c *gin.Context, text, source string) {
	id, record, err := h.ingest.Ingest(c.Request.Context(), text, source)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.DataResponse{Status: "error", Message: stepMessage(err)})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.IngestResponse{
			ID:    id,
			Title: record.CoreContent.Title,
		},
	})
}

// readUpload reads the multipart file and enforces that its extension matches
// the kind the endpoint processes, so an image can not reach the audio path.
func (h *IngestHandler) readUpload(c *gin.Context, kind utils.InputKind, defaultExt string) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: "error", Message: "A file upload is required"})
		return nil, "", false
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = defaultExt
	}
	if utils.ClassifyFile(ext) != kind {
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: "error", Message: "Unsupported file type " + ext})
		return nil, "", false
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: "error", Message: "Failed to open upload"})
		return nil, "", false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: "error", Message: "Failed to read upload"})
		return nil, "", false
	}
	return data, ext, true
}

// stepMessage maps a pipeline error to the step-specific user-facing message.
func stepMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrStructuring):
		return "Could not convert the text into a knowledge record"
	case errors.Is(err, service.ErrEmbedding):
		return "Could not compute an embedding for the knowledge record"
	case errors.Is(err, service.ErrStorage):
		return "Could not store the knowledge record"
	default:
		return "Ingestion failed"
	}
}
