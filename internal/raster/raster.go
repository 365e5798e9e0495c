// Package raster converts input documents (PDF pages, TIFF frames,
// standalone images) into bitmaps the preprocessing stage can consume. PDF
// and TIFF decoding are delegated to external tools through the Runner seam.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/sxdkling-ops/ocrv/internal/domain"
	"github.com/sxdkling-ops/ocrv/internal/port"
)

// Config holds rasterization settings.
type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tiffsplit string // binary name or absolute path; if empty -> "tiffsplit"

	// DPI for PDF rasterization. The default of 300 deliberately favors
	// legibility over speed.
	DPI      int
	MaxPages int // 0 = no limit
}

// Rasterizer opens documents and yields their pages as RGBA bitmaps.
type Rasterizer struct {
	cfg    Config
	run    Runner
	logger *slog.Logger
}

// New creates a Rasterizer with defaults filled in.
func New(cfg Config, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tiffsplit == "" {
		cfg.Tiffsplit = "tiffsplit"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Rasterizer{cfg: cfg, run: execRunner{}, logger: logger}
}

// Open picks a page source based on file extension.
func (r *Rasterizer) Open(ctx context.Context, path string) (port.PageSource, error) {
	ext := strings.ToLower(filepath.Ext(path))
	r.logger.Debug("opening document", "path", path, "ext", ext)
	switch ext {
	case ".pdf":
		return r.openPDF(ctx, path)
	case ".tif", ".tiff":
		return r.openTIFF(ctx, path)
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp":
		return r.openImage(path)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}
}

// fileSource serves pages from a list of single-page files on disk.
type fileSource struct {
	paths   []string
	decode  func(path string) (image.Image, error)
	cleanup func()
}

func (s *fileSource) Count() int { return len(s.paths) }

func (s *fileSource) Page(ctx context.Context, i int) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(s.paths) {
		return nil, &domain.DecodeError{Page: i + 1, Err: errors.New("page index out of range")}
	}
	img, err := s.decode(s.paths[i])
	if err != nil {
		return nil, &domain.DecodeError{Page: i + 1, Err: err}
	}
	return toRGBA(img, i+1)
}

func (s *fileSource) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

// toRGBA validates frame dimensions and converts to a plain RGBA bitmap.
func toRGBA(img image.Image, page int) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &domain.DecodeError{Page: page, Err: errors.New("frame has zero or invalid dimensions")}
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	if len(rgba.Pix) == 0 {
		return nil, &domain.DecodeError{Page: page, Err: errors.New("frame produced no pixel data")}
	}
	return rgba, nil
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	return img, err
}

func (r *Rasterizer) openImage(path string) (port.PageSource, error) {
	return &fileSource{paths: []string{path}, decode: decodeImageFile}, nil
}

func (r *Rasterizer) limitPages(paths []string) []string {
	if r.cfg.MaxPages > 0 && len(paths) > r.cfg.MaxPages {
		return paths[:r.cfg.MaxPages]
	}
	return paths
}
