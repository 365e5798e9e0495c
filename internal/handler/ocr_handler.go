package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sxdkling-ops/ocrv/internal/service"
)

// OCRHandler handles uploaded-file text recognition.
type OCRHandler struct {
	svc *service.OCRService
}

func NewOCRHandler(svc *service.OCRService) *OCRHandler {
	return &OCRHandler{svc: svc}
}

// Recognize handles POST /api/v1/documents/ocr
func (h *OCRHandler) Recognize(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "NO_INPUT", "multipart form must include a file field")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	tmpPath := filepath.Join(os.TempDir(), "ocrv-upload-"+uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		RespondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to store uploaded file")
		return
	}
	defer func() { _ = os.Remove(tmpPath) }()

	res, err := h.svc.Recognize(c.Request.Context(), tmpPath)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"file_name": fileHeader.Filename,
		"pages":     res.Pages,
		"text":      res.Text,
	})
}
