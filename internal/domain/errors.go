package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoInput              = errors.New("no input text provided")
	ErrMissingAPIKey        = errors.New("extraction provider API key is not configured")
	ErrExtractionFailed     = errors.New("extraction provider returned unusable output")
	ErrRenderingUnavailable = errors.New("drawing surface could not be acquired")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
)

// DecodeError reports a malformed document or frame. It is fatal for the
// whole document and carries the 1-based page index that failed.
type DecodeError struct {
	Page int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode page %d: %v", e.Page, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
