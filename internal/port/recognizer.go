package port

import (
	"context"
	"image"
)

// OCROptions configures a single recognition call.
type OCROptions struct {
	PSM       int    // page segmentation mode
	Whitelist string // optional character whitelist; empty clears any previous one
	DPI       int    // DPI hint for the engine, 0 means unknown
}

// Recognizer abstracts the text-recognition engine. The engine is shared
// process state: implementations must serialize concurrent calls and support
// an explicit teardown via Close, which must only run while no call is in
// flight.
type Recognizer interface {
	Recognize(ctx context.Context, png []byte, opts OCROptions) (string, error)
	Close() error
}

// PageRecognizer runs multi-pass recognition over one page bitmap. The report
// callback fires before each pass with the 1-based pass number and the name
// of the segmentation strategy.
type PageRecognizer interface {
	RecognizeBest(ctx context.Context, page image.Image, report func(pass int, mode string)) (string, error)
}
