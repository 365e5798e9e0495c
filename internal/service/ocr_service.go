package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sxdkling-ops/ocrv/internal/pipeline"
)

// OCRService runs the page rasterization and recognition pipeline on a file.
type OCRService struct {
	assembler *pipeline.Assembler
	logger    *slog.Logger
}

func NewOCRService(asm *pipeline.Assembler, logger *slog.Logger) *OCRService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRService{assembler: asm, logger: logger}
}

// Result holds the assembled text of a processed document.
type Result struct {
	Text  string
	Pages int
}

// Recognize extracts text from the document at path.
func (s *OCRService) Recognize(ctx context.Context, path string) (*Result, error) {
	text, pages, err := s.assembler.ExtractText(ctx, path)
	if err != nil {
		return nil, err
	}
	s.logger.Info("document recognized", "path", path, "pages", pages, "chars", len(text))
	return &Result{Text: strings.TrimSpace(text), Pages: pages}, nil
}

// Bus exposes the pipeline progress bus for subscribers.
func (s *OCRService) Bus() *pipeline.Bus {
	return s.assembler.Bus()
}
