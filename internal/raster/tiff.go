package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/image/tiff"

	"github.com/sxdkling-ops/ocrv/internal/domain"
	"github.com/sxdkling-ops/ocrv/internal/port"
)

// openTIFF explodes a possibly multi-frame TIFF into single-frame files with
// tiffsplit, then decodes each frame natively. x/image/tiff only ever yields
// the first frame, so a failed split aborts the document rather than serving
// a silently truncated page set.
func (r *Rasterizer) openTIFF(ctx context.Context, path string) (port.PageSource, error) {
	tmpDir, err := os.MkdirTemp("", "ocrv-tiff-*")
	if err != nil {
		return nil, err
	}

	prefix := filepath.Join(tmpDir, "frame")
	if _, errb, err := r.run.Run(ctx, r.cfg.Tiffsplit, path, prefix); err != nil {
		_ = os.RemoveAll(tmpDir)
		return nil, &domain.DecodeError{Page: 1, Err: fmt.Errorf("tiffsplit: %w (%s)", err, truncate(string(errb), 512))}
	}

	matches, _ := filepath.Glob(prefix + "*")
	sort.Strings(matches)
	if len(matches) == 0 {
		_ = os.RemoveAll(tmpDir)
		return nil, &domain.DecodeError{Page: 1, Err: errors.New("tiffsplit produced no frames")}
	}

	return &fileSource{
		paths:   r.limitPages(matches),
		decode:  decodeTIFFFile,
		cleanup: func() { _ = os.RemoveAll(tmpDir) },
	}, nil
}

func decodeTIFFFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return tiff.Decode(f)
}
