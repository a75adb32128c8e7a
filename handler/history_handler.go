package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/second-brain-be/repository"
	"github.com/tieubaoca/second-brain-be/types"
)

type HistoryHandler struct {
	archive repository.ArchiveRepo
}

func NewHistoryHandler(archive repository.ArchiveRepo) *HistoryHandler {
	return &HistoryHandler{
		archive: archive,
	}
}

func (h *HistoryHandler) HandleHistory(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, types.DataResponse{Status: "error", Message: "Archive is not configured"})
		return
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 20
	}
	entries, err := h.archive.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.DataResponse{Status: "error", Message: "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   types.HistoryResponse{Entries: entries},
	})
}
