package parser

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sxdkling-ops/ocrv/internal/port"
)

type stubParser struct {
	out   *port.ParseOutput
	err   error
	calls int
}

func (s *stubParser) Parse(context.Context, port.ParseInput) (*port.ParseOutput, error) {
	s.calls++
	return s.out, s.err
}

func okOutput() *port.ParseOutput {
	return &port.ParseOutput{StructuredData: json.RawMessage(`{"vendor":"Acme"}`)}
}

func TestFallback_FirstParserSucceeds(t *testing.T) {
	primary := &stubParser{out: okOutput()}
	secondary := &stubParser{out: okOutput()}
	f := NewFallbackParser([]port.DocumentParser{primary, secondary}, []string{"a", "b"}, nil)

	out, err := f.Parse(context.Background(), port.ParseInput{Text: "x"})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls)
}

func TestFallback_SecondParserUsedOnFailure(t *testing.T) {
	primary := &stubParser{err: errors.New("upstream down")}
	secondary := &stubParser{out: okOutput()}
	f := NewFallbackParser([]port.DocumentParser{primary, secondary}, []string{"a", "b"}, nil)

	out, err := f.Parse(context.Background(), port.ParseInput{Text: "x"})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallback_AllFail(t *testing.T) {
	primary := &stubParser{err: errors.New("one")}
	secondary := &stubParser{err: errors.New("two")}
	f := NewFallbackParser([]port.DocumentParser{primary, secondary}, []string{"a", "b"}, nil)

	_, err := f.Parse(context.Background(), port.ParseInput{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all parsers failed")
}

func TestFallback_RateLimitOpensCircuit(t *testing.T) {
	primary := &stubParser{err: NewRateLimitError("a", errors.New("429"), 60)}
	secondary := &stubParser{out: okOutput()}
	f := NewFallbackParser([]port.DocumentParser{primary, secondary}, []string{"a", "b"}, nil)

	_, err := f.Parse(context.Background(), port.ParseInput{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)

	// Second call skips the rate-limited provider while its circuit is open.
	_, err = f.Parse(context.Background(), port.ParseInput{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, secondary.calls)
}

func TestFallback_AllRateLimited(t *testing.T) {
	primary := &stubParser{err: NewRateLimitError("a", errors.New("429"), 30)}
	secondary := &stubParser{err: NewRateLimitError("b", errors.New("429"), 90)}
	f := NewFallbackParser([]port.DocumentParser{primary, secondary}, []string{"a", "b"}, nil)

	_, err := f.Parse(context.Background(), port.ParseInput{Text: "x"})

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.LessOrEqual(t, rlErr.RetryAfter.Seconds(), float64(31))
}
