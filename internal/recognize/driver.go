// Package recognize drives the text-recognition engine: it preprocesses a
// page once, runs an ordered list of segmentation strategies over it, and
// keeps the highest-scoring result.
package recognize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/sxdkling-ops/ocrv/internal/imaging"
	"github.com/sxdkling-ops/ocrv/internal/port"
)

// Pass is one recognition attempt configuration.
type Pass struct {
	PSM  int
	Name string
}

// DefaultPasses returns the standard two-pass strategy: uniform-block
// segmentation (PSM 6) suits prose-like layouts, sparse-text (PSM 11) suits
// tables. Neither is reliably better across documents, so both run and the
// higher-signal result wins.
func DefaultPasses() []Pass {
	return []Pass{
		{PSM: 6, Name: "uniform-block"},
		{PSM: 11, Name: "sparse-text"},
	}
}

// PassesFromPSM returns the two-pass strategy with overridden segmentation
// modes. Non-positive values keep the defaults.
func PassesFromPSM(primary, retry int) []Pass {
	passes := DefaultPasses()
	if primary > 0 {
		passes[0].PSM = primary
	}
	if retry > 0 {
		passes[1].PSM = retry
	}
	return passes
}

// Driver implements port.PageRecognizer on top of a port.Recognizer engine.
type Driver struct {
	engine    port.Recognizer
	pre       imaging.Config
	passes    []Pass
	whitelist string
	dpi       int
	score     func(string) int
	logger    *slog.Logger
}

// Option customizes a Driver.
type Option func(*Driver)

// WithPasses replaces the default segmentation strategy list.
func WithPasses(passes []Pass) Option {
	return func(d *Driver) {
		if len(passes) > 0 {
			d.passes = passes
		}
	}
}

// WithWhitelist restricts recognition to the given characters.
func WithWhitelist(chars string) Option {
	return func(d *Driver) { d.whitelist = chars }
}

// WithDPI supplies a DPI hint to the engine.
func WithDPI(dpi int) Option {
	return func(d *Driver) { d.dpi = dpi }
}

// WithScorer replaces the default scoring heuristic.
func WithScorer(score func(string) int) Option {
	return func(d *Driver) {
		if score != nil {
			d.score = score
		}
	}
}

// NewDriver creates a recognition driver using the given engine and
// preprocessing config.
func NewDriver(engine port.Recognizer, pre imaging.Config, logger *slog.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Driver{
		engine: engine,
		pre:    pre,
		passes: DefaultPasses(),
		score:  Score,
		logger: logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RecognizeBest preprocesses the page once, runs every configured pass on the
// same preprocessed bitmap, and returns the text with the strictly highest
// score. Ties keep the earlier pass.
func (d *Driver) RecognizeBest(ctx context.Context, page image.Image, report func(pass int, mode string)) (string, error) {
	prepped, err := imaging.Preprocess(page, d.pre)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, prepped); err != nil {
		return "", fmt.Errorf("encode preprocessed page: %w", err)
	}
	data := buf.Bytes()

	var best string
	var bestScore int
	for i, p := range d.passes {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if report != nil {
			report(i+1, p.Name)
		}
		text, err := d.engine.Recognize(ctx, data, port.OCROptions{
			PSM:       p.PSM,
			Whitelist: d.whitelist,
			DPI:       d.dpi,
		})
		if err != nil {
			return "", fmt.Errorf("pass %d (%s): %w", i+1, p.Name, err)
		}
		s := d.score(text)
		d.logger.Debug("recognition pass finished", "pass", i+1, "mode", p.Name, "score", s, "chars", len(text))
		if i == 0 || s > bestScore {
			best, bestScore = text, s
		}
	}
	return best, nil
}
