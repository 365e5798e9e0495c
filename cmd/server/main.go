package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/sxdkling-ops/ocrv/internal/config"
	"github.com/sxdkling-ops/ocrv/internal/handler"
	"github.com/sxdkling-ops/ocrv/internal/imaging"
	"github.com/sxdkling-ops/ocrv/internal/logging"
	"github.com/sxdkling-ops/ocrv/internal/parser"
	"github.com/sxdkling-ops/ocrv/internal/parser/claude"
	"github.com/sxdkling-ops/ocrv/internal/parser/openai"
	"github.com/sxdkling-ops/ocrv/internal/pipeline"
	"github.com/sxdkling-ops/ocrv/internal/port"
	"github.com/sxdkling-ops/ocrv/internal/raster"
	"github.com/sxdkling-ops/ocrv/internal/recognize"
	"github.com/sxdkling-ops/ocrv/internal/recognize/tesseract"
	"github.com/sxdkling-ops/ocrv/internal/router"
	"github.com/sxdkling-ops/ocrv/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Log)

	// Recognition pipeline
	engine := tesseract.NewEngine(cfg.OCR.Language)
	defer func() { _ = engine.Close() }()

	driver := recognize.NewDriver(engine, preprocessConfig(cfg.Preprocess), logger,
		recognize.WithPasses(recognize.PassesFromPSM(cfg.OCR.PSMPrimary, cfg.OCR.PSMRetry)),
		recognize.WithWhitelist(cfg.OCR.Whitelist),
		recognize.WithDPI(cfg.OCR.DPI),
	)

	rasterizer := raster.New(raster.Config{
		Pdftoppm:  cfg.OCR.Pdftoppm,
		Tiffsplit: cfg.OCR.Tiffsplit,
		DPI:       cfg.OCR.DPI,
		MaxPages:  cfg.OCR.MaxPages,
	}, logger)

	bus := pipeline.NewBus()
	assembler := pipeline.NewAssembler(rasterizer, driver, bus, logger)

	// Log pipeline progress events
	events, cancelEvents := bus.Subscribe(64)
	defer cancelEvents()
	go func() {
		for ev := range events {
			logger.Debug("pipeline progress",
				"stage", string(ev.Stage), "page", ev.Page, "total", ev.Total,
				"pass", ev.Pass, "mode", ev.Mode)
		}
	}()

	// Extraction providers
	docParser, enabled := buildParser(&cfg.Parser, logger)

	// Services
	ocrSvc := service.NewOCRService(assembler, logger)
	extractSvc := service.NewExtractService(docParser, enabled, logger)

	// Handlers
	extractH := handler.NewExtractHandler(extractSvc)
	ocrH := handler.NewOCRHandler(ocrSvc)
	exportH := handler.NewExportHandler()
	healthH := handler.NewHealthHandler(enabled)

	r := router.Setup(logger, cfg.CORS.AllowedOrigins, extractH, ocrH, exportH, healthH)

	logger.Info("server starting", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func preprocessConfig(p config.PreprocessConfig) imaging.Config {
	return imaging.Config{
		UpscaleFactor:     p.Upscale,
		ContrastPercent:   p.Contrast,
		BinarizeThreshold: p.Threshold,
		Grayscale:         p.Grayscale,
		Sharpen:           p.Sharpen,
		Invert:            p.Invert,
	}
}

// buildParser wires the extraction provider chain from config. Returns the
// parser and whether at least one provider has an API key.
func buildParser(cfg *config.ParserConfig, logger *slog.Logger) (port.DocumentParser, bool) {
	parser.RegisterProvider("claude", func(c *config.ParserProviderConfig) (port.DocumentParser, error) {
		return claude.NewParser(c), nil
	})
	parser.RegisterProvider("openai", func(c *config.ParserProviderConfig) (port.DocumentParser, error) {
		return openai.NewParser(c), nil
	})

	var parsers []port.DocumentParser
	var names []string
	for _, pc := range []*config.ParserProviderConfig{cfg.PrimaryConfig(), cfg.SecondaryConfig()} {
		if pc == nil || pc.APIKey == "" {
			continue
		}
		p, err := parser.NewParser(pc)
		if err != nil {
			logger.Warn("skipping parser provider", "provider", pc.Provider, "error", err)
			continue
		}
		parsers = append(parsers, p)
		names = append(names, pc.Provider)
	}

	switch len(parsers) {
	case 0:
		return nil, false
	case 1:
		return parsers[0], true
	default:
		return parser.NewFallbackParser(parsers, names, logger), true
	}
}
