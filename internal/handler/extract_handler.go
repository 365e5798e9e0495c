package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sxdkling-ops/ocrv/internal/service"
)

// ExtractHandler handles structured data extraction from OCR text.
type ExtractHandler struct {
	svc *service.ExtractService
}

func NewExtractHandler(svc *service.ExtractService) *ExtractHandler {
	return &ExtractHandler{svc: svc}
}

type extractRequest struct {
	Text     string `json:"text" binding:"required"`
	FileName string `json:"file_name"`
}

// Extract handles POST /api/v1/documents/extract
func (h *ExtractHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "NO_INPUT", "request body must include non-empty text")
		return
	}

	doc, err := h.svc.Extract(c.Request.Context(), req.Text, req.FileName)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"structured": doc})
}
