// Package pipeline assembles the full image-to-text flow: rasterize each
// page, recognize it, and join the per-page texts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sxdkling-ops/ocrv/internal/port"
)

// PageBreak separates per-page texts in the assembled output.
const PageBreak = "\n\n--- PAGE BREAK ---\n\n"

// Assembler walks a document's pages strictly in order, running
// rasterization and recognition per page. Pages are sequential by design: the
// recognition engine is a single shared instance and preprocessing buffers
// are reused.
type Assembler struct {
	raster port.Rasterizer
	driver port.PageRecognizer
	bus    *Bus
	logger *slog.Logger
}

// NewAssembler wires the assembler. bus may be nil when nobody consumes
// progress.
func NewAssembler(raster port.Rasterizer, driver port.PageRecognizer, bus *Bus, logger *slog.Logger) *Assembler {
	if bus == nil {
		bus = NewBus()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{raster: raster, driver: driver, bus: bus, logger: logger}
}

// Bus returns the progress bus events are published on.
func (a *Assembler) Bus() *Bus { return a.bus }

// ExtractText runs the whole pipeline over the document at path and returns
// the joined text plus the page count. Any page failure aborts the document;
// downstream reconciliation assumes a complete text corpus, so there is no
// partial output.
func (a *Assembler) ExtractText(ctx context.Context, path string) (string, int, error) {
	src, err := a.raster.Open(ctx, path)
	if err != nil {
		return "", 0, err
	}
	defer src.Close()

	total := src.Count()
	parts := make([]string, 0, total)
	for i := 0; i < total; i++ {
		page := i + 1
		a.bus.Publish(Event{Stage: StageRaster, Page: page, Total: total})

		img, err := src.Page(ctx, i)
		if err != nil {
			return "", 0, err
		}

		text, err := a.driver.RecognizeBest(ctx, img, func(pass int, mode string) {
			a.bus.Publish(Event{Stage: StageOCR, Page: page, Total: total, Pass: pass, Mode: mode})
		})
		if err != nil {
			return "", 0, fmt.Errorf("recognize page %d: %w", page, err)
		}

		trimmed := strings.TrimSpace(text)
		a.logger.Debug("page processed", "page", page, "total", total, "chars", len(trimmed))
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, PageBreak), total, nil
}
