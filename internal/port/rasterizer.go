package port

import (
	"context"
	"image"
)

// PageSource yields the ordered page bitmaps of one opened document. Pages
// are ephemeral: each bitmap is owned by the caller that requested it and is
// discarded after text extraction.
type PageSource interface {
	Count() int
	// Page decodes the i-th page (0-based) into an RGBA bitmap. A malformed
	// page yields a *domain.DecodeError carrying the 1-based page index.
	Page(ctx context.Context, i int) (*image.RGBA, error)
	Close()
}

// Rasterizer opens an input document (PDF, TIFF, raster image) and exposes
// its pages as bitmaps.
type Rasterizer interface {
	Open(ctx context.Context, path string) (PageSource, error)
}
