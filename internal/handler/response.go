package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sxdkling-ops/ocrv/internal/domain"
	"github.com/sxdkling-ops/ocrv/internal/parser"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var decodeErr *domain.DecodeError
	var rateErr *parser.RateLimitError

	switch {
	case errors.Is(err, domain.ErrNoInput):
		return http.StatusBadRequest, "NO_INPUT", "no document text provided"
	case errors.Is(err, domain.ErrMissingAPIKey):
		return http.StatusServiceUnavailable, "MISSING_CONFIGURATION", "no extraction provider is configured"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, tiff, png, jpg, gif, bmp, webp"
	case errors.Is(err, domain.ErrRenderingUnavailable):
		return http.StatusUnprocessableEntity, "RENDERING_UNAVAILABLE", "page image could not be rendered"
	case errors.As(err, &decodeErr):
		return http.StatusUnprocessableEntity, "DECODE_FAILED", fmt.Sprintf("page %d could not be decoded", decodeErr.Page)
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests, "RATE_LIMITED", "extraction provider rate limit reached; retry later"
	case errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusBadGateway, "EXTRACTION_FAILED", "document extraction failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		slog.Error("request failed", "request_id", requestID, "error", err)
	}
	RespondError(c, status, code, msg)
}
