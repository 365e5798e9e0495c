package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sxdkling-ops/ocrv/internal/domain"
	"github.com/sxdkling-ops/ocrv/internal/parser"
	"github.com/sxdkling-ops/ocrv/internal/port"
	"github.com/sxdkling-ops/ocrv/internal/reconcile"
)

// ExtractService turns raw OCR text into a reconciled structured document.
type ExtractService struct {
	parser  port.DocumentParser
	enabled bool
	logger  *slog.Logger
}

// NewExtractService creates an extraction service. enabled should be false
// when no parser provider has an API key configured.
func NewExtractService(p port.DocumentParser, enabled bool, logger *slog.Logger) *ExtractService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractService{parser: p, enabled: enabled, logger: logger}
}

// Extract parses document text into structured fields and reconciles the
// arithmetic. Returns ErrNoInput for blank text and ErrMissingAPIKey when no
// provider is configured.
func (s *ExtractService) Extract(ctx context.Context, text, fileName string) (*domain.StructuredDocument, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrNoInput
	}
	if !s.enabled || s.parser == nil {
		return nil, domain.ErrMissingAPIKey
	}

	out, err := s.parser.Parse(ctx, port.ParseInput{Text: text, FileName: fileName})
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.StructuredData) == 0 {
		return nil, fmt.Errorf("%w: parser returned no data", domain.ErrExtractionFailed)
	}

	if err := parser.ValidateStructured(out.StructuredData); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	var doc domain.StructuredDocument
	if err := json.Unmarshal(out.StructuredData, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding structured data: %v", domain.ErrExtractionFailed, err)
	}

	reconcile.Reconcile(&doc)

	s.logger.Info("document extracted",
		"file_name", fileName,
		"model", out.ModelUsed,
		"line_items", len(doc.LineItems))

	return &doc, nil
}

// Enabled reports whether a parser provider is configured.
func (s *ExtractService) Enabled() bool {
	return s.enabled && s.parser != nil
}
