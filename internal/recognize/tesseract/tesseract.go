// Package tesseract adapts the gosseract client to port.Recognizer.
package tesseract

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/sxdkling-ops/ocrv/internal/port"
)

// Engine wraps a single reusable gosseract client. Engine start-up is
// expensive, so the client is created lazily on first use and kept until
// Close. A mutex enforces at most one in-flight recognition call.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
	lang   string
}

// NewEngine creates a Tesseract-backed engine. lang is the trained-data
// language, e.g. "eng"; empty keeps the gosseract default.
func NewEngine(lang string) *Engine {
	return &Engine{lang: lang}
}

// Recognize runs one blocking recognition call with the given options.
func (e *Engine) Recognize(ctx context.Context, png []byte, opts port.OCROptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		c := gosseract.NewClient()
		if e.lang != "" {
			if err := c.SetLanguage(e.lang); err != nil {
				_ = c.Close()
				return "", fmt.Errorf("set language %q: %w", e.lang, err)
			}
		}
		e.client = c
	}
	c := e.client

	if err := c.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if opts.PSM > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(opts.PSM)); err != nil {
			return "", fmt.Errorf("set page segmentation mode %d: %w", opts.PSM, err)
		}
	}
	// Always set the whitelist so an empty value clears a previous one.
	if err := c.SetWhitelist(opts.Whitelist); err != nil {
		return "", fmt.Errorf("set whitelist: %w", err)
	}
	if opts.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(opts.DPI)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// Close releases the underlying client. Must only be called when no
// recognition call is in flight; the next Recognize would re-initialize.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}
