package raster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sxdkling-ops/ocrv/internal/domain"
	"github.com/sxdkling-ops/ocrv/internal/port"
)

// openPDF rasterizes every page to PNG at the configured DPI and serves the
// rendered files in order.
func (r *Rasterizer) openPDF(ctx context.Context, path string) (port.PageSource, error) {
	tmpDir, err := os.MkdirTemp("", "ocrv-pdf-*")
	if err != nil {
		return nil, err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := r.run.Run(ctx, r.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", r.cfg.DPI), "-png", path, prefix)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, &domain.DecodeError{Page: 1, Err: fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))}
	}

	// pdftoppm zero-pads page numbers, so a lexical sort keeps page order.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		_ = os.RemoveAll(tmpDir)
		return nil, &domain.DecodeError{Page: 1, Err: errors.New("pdftoppm produced no page images")}
	}

	return &fileSource{
		paths:   r.limitPages(matches),
		decode:  decodeImageFile,
		cleanup: func() { _ = os.RemoveAll(tmpDir) },
	}, nil
}
