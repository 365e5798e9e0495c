package port

import (
	"context"
	"encoding/json"
)

// ParseInput carries the data needed for field extraction.
type ParseInput struct {
	Text     string
	FileName string
}

// ParseOutput contains the structured result from an LLM parser. The
// StructuredData payload is untrusted and must be validated field by field
// before use.
type ParseOutput struct {
	StructuredData json.RawMessage
	ModelUsed      string
	PromptUsed     string
}

// DocumentParser abstracts LLM-based field extraction from raw document text.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*ParseOutput, error)
}
