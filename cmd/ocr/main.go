package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sxdkling-ops/ocrv/internal/config"
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
	"github.com/sxdkling-ops/ocrv/internal/service"
)

// Command-line front end for the recognition pipeline: rasterizes a document,
// runs OCR, and prints the assembled text to stdout. With -extract it also
// sends the text through the configured LLM provider and prints structured
// JSON instead.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	extract := flag.Bool("extract", false, "extract structured JSON instead of raw text")
	lang := flag.String("lang", "", "override OCR language")
	dpi := flag.Int("dpi", 0, "override rasterization DPI")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <document>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *lang != "" {
		cfg.OCR.Language = *lang
	}
	if *dpi > 0 {
		cfg.OCR.DPI = *dpi
	}
	logger := logging.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := tesseract.NewEngine(cfg.OCR.Language)
	defer func() { _ = engine.Close() }()

	driver := recognize.NewDriver(engine, imaging.Config{
		UpscaleFactor:     cfg.Preprocess.Upscale,
		ContrastPercent:   cfg.Preprocess.Contrast,
		BinarizeThreshold: cfg.Preprocess.Threshold,
		Grayscale:         cfg.Preprocess.Grayscale,
		Sharpen:           cfg.Preprocess.Sharpen,
		Invert:            cfg.Preprocess.Invert,
	}, logger,
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

	// Progress to stderr so stdout stays clean for the document text.
	events, cancelEvents := bus.Subscribe(64)
	defer cancelEvents()
	go func() {
		for ev := range events {
			if ev.Stage == pipeline.StageOCR {
				fmt.Fprintf(os.Stderr, "page %d/%d pass %d (%s)\n", ev.Page, ev.Total, ev.Pass, ev.Mode)
			} else {
				fmt.Fprintf(os.Stderr, "rendering page %d/%d\n", ev.Page, ev.Total)
			}
		}
	}()

	ocrSvc := service.NewOCRService(assembler, logger)
	res, err := ocrSvc.Recognize(ctx, path)
	if err != nil {
		return err
	}

	if !*extract {
		fmt.Println(res.Text)
		return nil
	}

	docParser, enabled := buildParser(&cfg.Parser)
	extractSvc := service.NewExtractService(docParser, enabled, logger)
	doc, err := extractSvc.Extract(ctx, res.Text, path)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func buildParser(cfg *config.ParserConfig) (port.DocumentParser, bool) {
	parser.RegisterProvider("claude", func(c *config.ParserProviderConfig) (port.DocumentParser, error) {
		return claude.NewParser(c), nil
	})
	parser.RegisterProvider("openai", func(c *config.ParserProviderConfig) (port.DocumentParser, error) {
		return openai.NewParser(c), nil
	})

	pc := cfg.PrimaryConfig()
	if pc == nil || pc.APIKey == "" {
		return nil, false
	}
	p, err := parser.NewParser(pc)
	if err != nil {
		return nil, false
	}
	return p, true
}
