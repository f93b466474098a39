package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// ServerConfig defines HTTP server settings.
type ServerConfig struct {
	Port            string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// PipelineConfig defines the per-page processing parameters.
type PipelineConfig struct {
	RenderDPI         float64 // target raster resolution over the 72dpi page base
	MaxPixels         int     // hard cap on rendered pixel area per page
	BackgroundDPI     float64 // lower resolution used for overlay backgrounds
	LineYTolerancePx  float64 // vertical tolerance for line clustering, raster pixels
	TranslateMinChars int     // pages must exceed this many extracted chars to be translated
}

// OCRConfig defines recognition engine settings.
type OCRConfig struct {
	Languages []string
	PageSeg   int // tesseract page segmentation mode
}

// ProviderModels defines the model pair for a translation provider.
type ProviderModels struct {
	Primary   string
	Secondary string
}

// TranslateConfig defines providers, language pair and timeouts.
type TranslateConfig struct {
	PrimaryEngine   string // "openai"|"anthropic"
	SecondaryEngine string // "anthropic"|"openai"
	OpenAI          ProviderModels
	Anthropic       ProviderModels
	SourceLang      string
	TargetLang      string
	RequestTimeout  time.Duration
	PageTimeout     time.Duration
}

// OverlayConfig defines text reflow parameters in PDF points.
type OverlayConfig struct {
	FontFamily string
	FontSize   float64
	LineHeight float64
	Margin     float64
}

// CacheConfig defines job artifact retention.
type CacheConfig struct {
	TTL time.Duration
}

// StoreConfig defines the job status store backend.
type StoreConfig struct {
	RedisURL string // empty means in-memory
}

// StorageConfig defines optional S3 export of finished artifacts.
type StorageConfig struct {
	Bucket   string // empty disables export
	Prefix   string
	Password string // enables AES-GCM encryption at rest when set
}

// Config is the top-level configuration.
type Config struct {
	Logging   LoggingConfig
	Axiom     AxiomConfig
	Server    ServerConfig
	Pipeline  PipelineConfig
	OCR       OCRConfig
	Translate TranslateConfig
	Overlay   OverlayConfig
	Cache     CacheConfig
	Store     StoreConfig
	Storage   StorageConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/pdftranslator.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_pdftranslator",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.Server = ServerConfig{
		Port:            getEnv("PORT", "8080"),
		MaxUploadBytes:  int64(parseInt(getEnv("MAX_UPLOAD_MB", "64"), 64)) << 20,
		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
	}

	cfg.Pipeline = PipelineConfig{
		RenderDPI:         parseFloat(getEnv("RENDER_DPI", "380"), 380),
		MaxPixels:         parseInt(getEnv("RENDER_MAX_PIXELS", "25000000"), 25_000_000),
		BackgroundDPI:     parseFloat(getEnv("BACKGROUND_DPI", "150"), 150),
		LineYTolerancePx:  parseFloat(getEnv("LINE_Y_TOLERANCE_PX", "5"), 5),
		TranslateMinChars: parseInt(getEnv("TRANSLATE_MIN_CHARS", "10"), 10),
	}

	cfg.OCR = OCRConfig{
		Languages: splitList(getEnv("OCR_LANGUAGES", "jpn")),
		PageSeg:   parseInt(getEnv("OCR_PAGE_SEG_MODE", "3"), 3),
	}

	cfg.Translate = TranslateConfig{
		PrimaryEngine:   getEnv("PRIMARY_ENGINE", "openai"),
		SecondaryEngine: getEnv("SECONDARY_ENGINE", "anthropic"),
		OpenAI: ProviderModels{
			Primary:   getEnv("OPENAI_PRIMARY_MODEL", "gpt-4.1"),
			Secondary: getEnv("OPENAI_SECONDARY_MODEL", "gpt-4o"),
		},
		Anthropic: ProviderModels{
			Primary:   getEnv("ANTHROPIC_PRIMARY_MODEL", "claude-3-5-sonnet"),
			Secondary: getEnv("ANTHROPIC_SECONDARY_MODEL", "claude-3-haiku"),
		},
		SourceLang:     getEnv("TRANSLATE_SOURCE_LANG", "Japanese"),
		TargetLang:     getEnv("TRANSLATE_TARGET_LANG", "English"),
		RequestTimeout: parseDuration(getEnv("REQUEST_TIMEOUT", "60s"), 60*time.Second),
		PageTimeout:    parseDuration(getEnv("PAGE_TOTAL_TIMEOUT", "120s"), 120*time.Second),
	}

	cfg.Overlay = OverlayConfig{
		FontFamily: getEnv("OVERLAY_FONT", "Helvetica"),
		FontSize:   parseFloat(getEnv("OVERLAY_FONT_SIZE", "10"), 10),
		LineHeight: parseFloat(getEnv("OVERLAY_LINE_HEIGHT", "14"), 14),
		Margin:     parseFloat(getEnv("OVERLAY_MARGIN", "40"), 40),
	}

	cfg.Cache = CacheConfig{
		TTL: parseDuration(getEnv("JOB_CACHE_TTL", "30m"), 30*time.Minute),
	}

	cfg.Store = StoreConfig{
		RedisURL: getEnv("REDIS_URL", ""),
	}

	cfg.Storage = StorageConfig{
		Bucket:   getEnv("RESULT_S3_BUCKET", ""),
		Prefix:   getEnv("RESULT_S3_PREFIX", "translated"),
		Password: getEnv("RESULT_S3_PASSWORD", ""),
	}

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
