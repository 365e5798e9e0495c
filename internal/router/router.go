package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/sxdkling-ops/ocrv/internal/handler"
	"github.com/sxdkling-ops/ocrv/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *slog.Logger,
	allowedOrigins []string,
	extractH *handler.ExtractHandler,
	ocrH *handler.OCRHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	docs := v1.Group("/documents")
	docs.POST("/ocr", ocrH.Recognize)
	docs.POST("/extract", extractH.Extract)
	docs.POST("/export", exportH.Export)

	return r
}
