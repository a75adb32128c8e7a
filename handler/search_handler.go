package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/second-brain-be/database"
	"github.com/tieubaoca/second-brain-be/service"
	"github.com/tieubaoca/second-brain-be/types"
)

// SearchHandler exposes raw nearest-neighbour search without the answer
// generation step.
type SearchHandler struct {
	embedder service.Embedder
	store    database.VectorStore
	topK     int
}

func NewSearchHandler(embedder service.Embedder, store database.VectorStore, topK int) *SearchHandler {
	return &SearchHandler{
		embedder: embedder,
		store:    store,
		topK:     topK,
	}
}

func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: "error", Message: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: "error", Message: "Query is required"})
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = h.topK
	}

	vector, err := h.embedder.EmbedQuery(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.DataResponse{Status: "error", Message: "Could not embed the query"})
		return
	}
	matches, err := h.store.Search(c.Request.Context(), vector, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, types.DataResponse{Status: "error", Message: "Search failed"})
		return
	}

	results := make([]types.SearchResultItem, 0, len(matches))
	for _, match := range matches {
		results = append(results, types.SearchResultItem{
			ID:     match.ID,
			Score:  match.Score,
			Record: match.Record,
		})
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   types.SearchResponse{Results: results},
	})
}
