package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sxdkling-ops/ocrv/internal/config"
	"github.com/sxdkling-ops/ocrv/internal/parser"
	"github.com/sxdkling-ops/ocrv/internal/port"
)

func providerConfig() *config.ParserProviderConfig {
	return &config.ParserProviderConfig{
		Provider: "openai",
		APIKey:   "test-key",
	}
}

func TestParse_Success(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{
					"message":       map[string]string{"content": `{"vendor": "Acme", "total": 42.5}`},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer srv.Close()

	p := NewParserWithEndpoint(providerConfig(), srv.URL)
	out, err := p.Parse(context.Background(), port.ParseInput{Text: "OCR TEXT", FileName: "inv.pdf"})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out.StructuredData, &doc))
	assert.Equal(t, "Acme", doc["vendor"])
	assert.Equal(t, "gpt-4o", out.ModelUsed)

	// JSON-object response format must be requested.
	rf := gotBody["response_format"].(map[string]interface{})
	assert.Equal(t, "json_object", rf["type"])

	// Prompt rides in the system message, document text in the user message.
	msgs := gotBody["messages"].([]interface{})
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])
	assert.Equal(t, "OCR TEXT", msgs[1].(map[string]interface{})["content"])
}

func TestParse_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewParserWithEndpoint(providerConfig(), srv.URL)
	_, err := p.Parse(context.Background(), port.ParseInput{Text: "text"})

	var rlErr *parser.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, float64(15), rlErr.RetryAfter.Seconds())
}

func TestParse_LengthFinishReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{
					"message":       map[string]string{"content": `{"partial`},
					"finish_reason": "length",
				},
			},
		})
	}))
	defer srv.Close()

	p := NewParserWithEndpoint(providerConfig(), srv.URL)
	_, err := p.Parse(context.Background(), port.ParseInput{Text: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestParse_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	p := NewParserWithEndpoint(providerConfig(), srv.URL)
	_, err := p.Parse(context.Background(), port.ParseInput{Text: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
