package pipeline

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sxdkling-ops/ocrv/internal/domain"
	"github.com/sxdkling-ops/ocrv/internal/port"
)

// fakeSource serves canned pages; a nil entry simulates a decode failure.
type fakeSource struct {
	pages  []*image.RGBA
	closed bool
}

func (f *fakeSource) Count() int { return len(f.pages) }

func (f *fakeSource) Page(_ context.Context, i int) (*image.RGBA, error) {
	if f.pages[i] == nil {
		return nil, &domain.DecodeError{Page: i + 1, Err: assert.AnError}
	}
	return f.pages[i], nil
}

func (f *fakeSource) Close() { f.closed = true }

type fakeRasterizer struct {
	src *fakeSource
	err error
}

func (f *fakeRasterizer) Open(context.Context, string) (port.PageSource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.src, nil
}

// fakeRecognizer returns one queued text per page.
type fakeRecognizer struct {
	texts []string
	calls int
}

func (f *fakeRecognizer) RecognizeBest(_ context.Context, _ image.Image, report func(pass int, mode string)) (string, error) {
	if report != nil {
		report(1, "uniform-block")
	}
	text := f.texts[f.calls]
	f.calls++
	return text, nil
}

func page() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, 4, 4)) }

func TestExtractText_JoinsPagesWithBreak(t *testing.T) {
	src := &fakeSource{pages: []*image.RGBA{page(), page()}}
	asm := NewAssembler(&fakeRasterizer{src: src}, &fakeRecognizer{texts: []string{"first page", "second page"}}, nil, nil)

	text, pages, err := asm.ExtractText(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
	assert.Equal(t, "first page\n\n--- PAGE BREAK ---\n\nsecond page", text)
	assert.True(t, src.closed)
}

func TestExtractText_DropsEmptyPages(t *testing.T) {
	src := &fakeSource{pages: []*image.RGBA{page(), page(), page()}}
	asm := NewAssembler(&fakeRasterizer{src: src}, &fakeRecognizer{texts: []string{"A", "  \n ", "B"}}, nil, nil)

	text, pages, err := asm.ExtractText(context.Background(), "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.Equal(t, "A\n\n--- PAGE BREAK ---\n\nB", text)
}

func TestExtractText_TrimsPageWhitespace(t *testing.T) {
	src := &fakeSource{pages: []*image.RGBA{page()}}
	asm := NewAssembler(&fakeRasterizer{src: src}, &fakeRecognizer{texts: []string{"\n  hello world \n\n"}}, nil, nil)

	text, _, err := asm.ExtractText(context.Background(), "doc.png")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtractText_PageFailureAbortsDocument(t *testing.T) {
	src := &fakeSource{pages: []*image.RGBA{page(), nil, page()}}
	asm := NewAssembler(&fakeRasterizer{src: src}, &fakeRecognizer{texts: []string{"A", "B", "C"}}, nil, nil)

	text, _, err := asm.ExtractText(context.Background(), "doc.tiff")
	require.Error(t, err)
	assert.Empty(t, text)

	var decodeErr *domain.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 2, decodeErr.Page)
}

func TestExtractText_OpenFailure(t *testing.T) {
	asm := NewAssembler(&fakeRasterizer{err: domain.ErrUnsupportedFileType}, &fakeRecognizer{}, nil, nil)

	_, _, err := asm.ExtractText(context.Background(), "doc.xyz")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestExtractText_PublishesProgress(t *testing.T) {
	src := &fakeSource{pages: []*image.RGBA{page(), page()}}
	bus := NewBus()
	asm := NewAssembler(&fakeRasterizer{src: src}, &fakeRecognizer{texts: []string{"A", "B"}}, bus, nil)

	events, cancel := bus.Subscribe(16)
	defer cancel()

	_, _, err := asm.ExtractText(context.Background(), "doc.pdf")
	require.NoError(t, err)

	var got []Event
	for len(events) > 0 {
		got = append(got, <-events)
	}
	require.Len(t, got, 4)
	assert.Equal(t, Event{Stage: StageRaster, Page: 1, Total: 2}, got[0])
	assert.Equal(t, Event{Stage: StageOCR, Page: 1, Total: 2, Pass: 1, Mode: "uniform-block"}, got[1])
	assert.Equal(t, Event{Stage: StageRaster, Page: 2, Total: 2}, got[2])
	assert.Equal(t, Event{Stage: StageOCR, Page: 2, Total: 2, Pass: 1, Mode: "uniform-block"}, got[3])
}
