package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sxdkling-ops/ocrv/internal/domain"
	"github.com/sxdkling-ops/ocrv/internal/export"
)

// ExportHandler serializes structured documents to spreadsheet formats.
type ExportHandler struct{}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

type exportRequest struct {
	Format     string                    `json:"format"`
	FileName   string                    `json:"file_name"`
	Structured domain.StructuredDocument `json:"structured" binding:"required"`
}

// Export handles POST /api/v1/documents/export
func (h *ExportHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "NO_INPUT", "request body must include a structured document")
		return
	}

	name := req.FileName
	if name == "" && req.Structured.Vendor != nil {
		name = *req.Structured.Vendor
	}

	var buf bytes.Buffer
	switch strings.ToLower(req.Format) {
	case "", "xlsx":
		if err := export.WriteXLSX(&buf, &req.Structured); err != nil {
			RespondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to build workbook")
			return
		}
		filename := export.BuildFilename(name, "xlsx")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	case "csv":
		buf.Write(export.BOM)
		if err := export.WriteCSV(&buf, &req.Structured); err != nil {
			RespondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to build CSV")
			return
		}
		filename := export.BuildFilename(name, "csv")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	default:
		RespondError(c, http.StatusBadRequest, "NO_INPUT", "format must be xlsx or csv")
	}
}
