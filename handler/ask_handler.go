package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/second-brain-be/service"
	"github.com/tieubaoca/second-brain-be/types"
)

type AskHandler struct {
	answer *service.AnswerService
}

func NewAskHandler(answer *service.AnswerService) *AskHandler {
	return &AskHandler{
		answer: answer,
	}
}

func (h *AskHandler) HandleAsk(c *gin.Context) {
	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: "error", Message: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{Status: "error", Message: "Question is required"})
		return
	}

	answer := h.answer.Answer(c.Request.Context(), req.Question)
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   types.AskResponse{Answer: answer},
	})
}
