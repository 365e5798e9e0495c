package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	CORS       CORSConfig
	Parser     ParserConfig
	OCR        OCRConfig
	Preprocess PreprocessConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserProviderConfig holds settings for a single LLM parser provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ParserConfig holds LLM document parser settings with multi-provider support.
type ParserConfig struct {
	// Legacy flat fields (backwards-compatible)
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	// Multi-provider fields
	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
}

// PrimaryConfig returns the primary parser provider config, falling back to legacy flat fields.
func (p *ParserConfig) PrimaryConfig() *ParserProviderConfig {
	if p.Primary.Provider != "" {
		return &p.Primary
	}
	return &ParserProviderConfig{
		Provider:     p.Provider,
		APIKey:       p.APIKey,
		DefaultModel: p.DefaultModel,
		MaxRetries:   p.MaxRetries,
		TimeoutSecs:  p.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary parser provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// OCRConfig holds text recognition settings.
type OCRConfig struct {
	Language   string `mapstructure:"language"`
	DPI        int    `mapstructure:"dpi"`
	MaxPages   int    `mapstructure:"max_pages"`
	PSMPrimary int    `mapstructure:"psm_primary"`
	PSMRetry   int    `mapstructure:"psm_retry"`
	Whitelist  string `mapstructure:"whitelist"`
	Pdftoppm   string `mapstructure:"pdftoppm"`
	Tiffsplit  string `mapstructure:"tiffsplit"`
}

// PreprocessConfig holds image preprocessing settings.
type PreprocessConfig struct {
	Upscale   float64 `mapstructure:"upscale"`
	Contrast  float64 `mapstructure:"contrast"`
	Threshold int     `mapstructure:"threshold"`
	Grayscale bool    `mapstructure:"grayscale"`
	Sharpen   bool    `mapstructure:"sharpen"`
	Invert    bool    `mapstructure:"invert"`
}

// Load reads configuration from environment variables with the OCRV prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OCRV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Parser defaults (legacy flat)
	v.SetDefault("parser.provider", "claude")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("parser.max_retries", 2)
	v.SetDefault("parser.timeout_secs", 120)

	// Parser primary/secondary defaults
	v.SetDefault("parser.primary.provider", "")
	v.SetDefault("parser.primary.api_key", "")
	v.SetDefault("parser.primary.default_model", "")
	v.SetDefault("parser.primary.max_retries", 2)
	v.SetDefault("parser.primary.timeout_secs", 120)
	v.SetDefault("parser.secondary.provider", "")
	v.SetDefault("parser.secondary.api_key", "")
	v.SetDefault("parser.secondary.default_model", "")
	v.SetDefault("parser.secondary.max_retries", 2)
	v.SetDefault("parser.secondary.timeout_secs", 120)

	// OCR defaults
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.max_pages", 0)
	v.SetDefault("ocr.psm_primary", 6)
	v.SetDefault("ocr.psm_retry", 11)
	v.SetDefault("ocr.whitelist", "")
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.tiffsplit", "tiffsplit")

	// Preprocess defaults
	v.SetDefault("preprocess.upscale", 2.0)
	v.SetDefault("preprocess.contrast", 30.0)
	v.SetDefault("preprocess.threshold", 170)
	v.SetDefault("preprocess.grayscale", true)
	v.SetDefault("preprocess.sharpen", true)
	v.SetDefault("preprocess.invert", false)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "OCRV_SERVER_PORT",
		"server.read_timeout":  "OCRV_SERVER_READ_TIMEOUT",
		"server.write_timeout": "OCRV_SERVER_WRITE_TIMEOUT",
		"server.environment":   "OCRV_SERVER_ENVIRONMENT",
		"log.level":            "OCRV_LOG_LEVEL",
		"log.format":           "OCRV_LOG_FORMAT",
		"cors.allowed_origins": "OCRV_CORS_ALLOWED_ORIGINS",
		"parser.provider":      "OCRV_PARSER_PROVIDER",
		"parser.api_key":       "OCRV_PARSER_API_KEY",
		"parser.default_model": "OCRV_PARSER_DEFAULT_MODEL",
		"parser.max_retries":   "OCRV_PARSER_MAX_RETRIES",
		"parser.timeout_secs":  "OCRV_PARSER_TIMEOUT_SECS",
		"parser.primary.provider":        "OCRV_PARSER_PRIMARY_PROVIDER",
		"parser.primary.api_key":         "OCRV_PARSER_PRIMARY_API_KEY",
		"parser.primary.default_model":   "OCRV_PARSER_PRIMARY_DEFAULT_MODEL",
		"parser.primary.max_retries":     "OCRV_PARSER_PRIMARY_MAX_RETRIES",
		"parser.primary.timeout_secs":    "OCRV_PARSER_PRIMARY_TIMEOUT_SECS",
		"parser.secondary.provider":      "OCRV_PARSER_SECONDARY_PROVIDER",
		"parser.secondary.api_key":       "OCRV_PARSER_SECONDARY_API_KEY",
		"parser.secondary.default_model": "OCRV_PARSER_SECONDARY_DEFAULT_MODEL",
		"parser.secondary.max_retries":   "OCRV_PARSER_SECONDARY_MAX_RETRIES",
		"parser.secondary.timeout_secs":  "OCRV_PARSER_SECONDARY_TIMEOUT_SECS",
		"ocr.language":                   "OCRV_OCR_LANGUAGE",
		"ocr.dpi":                        "OCRV_OCR_DPI",
		"ocr.max_pages":                  "OCRV_OCR_MAX_PAGES",
		"ocr.psm_primary":                "OCRV_OCR_PSM_PRIMARY",
		"ocr.psm_retry":                  "OCRV_OCR_PSM_RETRY",
		"ocr.whitelist":                  "OCRV_OCR_WHITELIST",
		"ocr.pdftoppm":                   "OCRV_OCR_PDFTOPPM",
		"ocr.tiffsplit":                  "OCRV_OCR_TIFFSPLIT",
		"preprocess.upscale":             "OCRV_PREPROCESS_UPSCALE",
		"preprocess.contrast":            "OCRV_PREPROCESS_CONTRAST",
		"preprocess.threshold":           "OCRV_PREPROCESS_THRESHOLD",
		"preprocess.grayscale":           "OCRV_PREPROCESS_GRAYSCALE",
		"preprocess.sharpen":             "OCRV_PREPROCESS_SHARPEN",
		"preprocess.invert":              "OCRV_PREPROCESS_INVERT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if OCRV_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("OCRV_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Parser = ParserConfig{
		Provider:     v.GetString("parser.provider"),
		APIKey:       v.GetString("parser.api_key"),
		DefaultModel: v.GetString("parser.default_model"),
		MaxRetries:   v.GetInt("parser.max_retries"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
		Primary: ParserProviderConfig{
			Provider:     v.GetString("parser.primary.provider"),
			APIKey:       v.GetString("parser.primary.api_key"),
			DefaultModel: v.GetString("parser.primary.default_model"),
			MaxRetries:   v.GetInt("parser.primary.max_retries"),
			TimeoutSecs:  v.GetInt("parser.primary.timeout_secs"),
		},
		Secondary: ParserProviderConfig{
			Provider:     v.GetString("parser.secondary.provider"),
			APIKey:       v.GetString("parser.secondary.api_key"),
			DefaultModel: v.GetString("parser.secondary.default_model"),
			MaxRetries:   v.GetInt("parser.secondary.max_retries"),
			TimeoutSecs:  v.GetInt("parser.secondary.timeout_secs"),
		},
	}

	cfg.OCR = OCRConfig{
		Language:   v.GetString("ocr.language"),
		DPI:        v.GetInt("ocr.dpi"),
		MaxPages:   v.GetInt("ocr.max_pages"),
		PSMPrimary: v.GetInt("ocr.psm_primary"),
		PSMRetry:   v.GetInt("ocr.psm_retry"),
		Whitelist:  v.GetString("ocr.whitelist"),
		Pdftoppm:   v.GetString("ocr.pdftoppm"),
		Tiffsplit:  v.GetString("ocr.tiffsplit"),
	}

	cfg.Preprocess = PreprocessConfig{
		Upscale:   v.GetFloat64("preprocess.upscale"),
		Contrast:  v.GetFloat64("preprocess.contrast"),
		Threshold: v.GetInt("preprocess.threshold"),
		Grayscale: v.GetBool("preprocess.grayscale"),
		Sharpen:   v.GetBool("preprocess.sharpen"),
		Invert:    v.GetBool("preprocess.invert"),
	}

	return cfg, nil
}
