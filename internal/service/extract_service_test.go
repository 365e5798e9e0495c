package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sxdkling-ops/ocrv/internal/domain"
	"github.com/sxdkling-ops/ocrv/internal/port"
)

type stubParser struct {
	out *port.ParseOutput
	err error
	got port.ParseInput
}

func (s *stubParser) Parse(_ context.Context, in port.ParseInput) (*port.ParseOutput, error) {
	s.got = in
	return s.out, s.err
}

func TestExtract_BlankText(t *testing.T) {
	svc := NewExtractService(&stubParser{}, true, nil)
	_, err := svc.Extract(context.Background(), "   \n\t ", "doc.pdf")
	assert.ErrorIs(t, err, domain.ErrNoInput)
}

func TestExtract_NoProviderConfigured(t *testing.T) {
	svc := NewExtractService(nil, false, nil)
	_, err := svc.Extract(context.Background(), "some text", "doc.pdf")
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
	assert.False(t, svc.Enabled())
}

func TestExtract_ParsesAndReconciles(t *testing.T) {
	p := &stubParser{out: &port.ParseOutput{
		StructuredData: json.RawMessage(`{
			"vendor": "  Acme Corp  ",
			"tax_rate": 10,
			"line_items": [
				{"product_or_service": "Widget", "qty": 3, "unit_price": "10.00", "amount": null}
			]
		}`),
		ModelUsed: "test-model",
	}}
	svc := NewExtractService(p, true, nil)

	doc, err := svc.Extract(context.Background(), "raw ocr text", "inv.pdf")
	require.NoError(t, err)

	assert.Equal(t, "raw ocr text", p.got.Text)
	assert.Equal(t, "inv.pdf", p.got.FileName)

	require.NotNil(t, doc.Vendor)
	assert.Equal(t, "Acme Corp", *doc.Vendor)

	// Missing amount is repaired and the totals chain derived.
	require.Len(t, doc.LineItems, 1)
	assert.Equal(t, domain.Num(30), doc.LineItems[0].Amount)
	assert.Equal(t, domain.Num(30), doc.Subtotal)
	assert.Equal(t, domain.Num(3), doc.TaxAmount)
	assert.Equal(t, domain.Num(33), doc.Total)
}

func TestExtract_ParserError(t *testing.T) {
	p := &stubParser{err: errors.New("provider exploded")}
	svc := NewExtractService(p, true, nil)
	_, err := svc.Extract(context.Background(), "text", "")
	assert.EqualError(t, err, "provider exploded")
}

func TestExtract_EmptyParserOutput(t *testing.T) {
	p := &stubParser{out: &port.ParseOutput{}}
	svc := NewExtractService(p, true, nil)
	_, err := svc.Extract(context.Background(), "text", "")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtract_SchemaViolation(t *testing.T) {
	p := &stubParser{out: &port.ParseOutput{
		StructuredData: json.RawMessage(`{"line_items": "oops"}`),
	}}
	svc := NewExtractService(p, true, nil)
	_, err := svc.Extract(context.Background(), "text", "")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}
