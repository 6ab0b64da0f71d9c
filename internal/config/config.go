// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"

	"optipress/internal/models"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Conversion defaults applied to newly added images. Existing
	// images keep the settings they were created with.
	DefaultFormat  models.Format
	DefaultQuality float64

	// ConvertWorkers is the number of conversion queue consumers.
	ConvertWorkers int

	// VipsConcurrency controls libvips worker threads (0 = auto).
	VipsConcurrency int

	// MaxUploadBytes caps a single upload request body.
	MaxUploadBytes int64

	// CaptionRPM rate-limits caption requests per client per minute.
	CaptionRPM int

	// AI provider settings. The active provider must have a key or
	// caption requests fail hard.
	AIProvider string // "gemini", "claude", "openai"

	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string

	ClaudeKey     string
	ClaudeModel   string
	ClaudeBaseURL string

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if values fail
// validation.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		AIProvider: envOrDefault("AI_PROVIDER", "gemini"),

		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),

		ClaudeKey:     os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:   envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-6"),
		ClaudeBaseURL: os.Getenv("CLAUDE_BASE_URL"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
	}

	format, err := models.ParseFormat(envOrDefault("DEFAULT_FORMAT", "webp"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_FORMAT: %w", err)
	}
	cfg.DefaultFormat = format

	quality, err := floatEnv("DEFAULT_QUALITY", 0.8)
	if err != nil {
		return nil, err
	}
	if quality <= 0 || quality > 1 {
		return nil, fmt.Errorf("DEFAULT_QUALITY %v out of range (0, 1]", quality)
	}
	cfg.DefaultQuality = quality

	if cfg.ConvertWorkers, err = intEnv("CONVERT_WORKERS", 2); err != nil {
		return nil, err
	}
	if cfg.ConvertWorkers < 1 {
		return nil, fmt.Errorf("CONVERT_WORKERS must be at least 1")
	}

	if cfg.VipsConcurrency, err = intEnv("VIPS_CONCURRENCY", 0); err != nil {
		return nil, err
	}

	maxUploadMB, err := intEnv("MAX_UPLOAD_MB", 50)
	if err != nil {
		return nil, err
	}
	if maxUploadMB < 1 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be at least 1")
	}
	cfg.MaxUploadBytes = int64(maxUploadMB) << 20

	if cfg.CaptionRPM, err = intEnv("CAPTION_RPM", 10); err != nil {
		return nil, err
	}
	if cfg.CaptionRPM < 1 {
		return nil, fmt.Errorf("CAPTION_RPM must be at least 1")
	}

	return cfg, nil
}

// DefaultSettings returns the conversion defaults as a settings value.
func (c *Config) DefaultSettings() models.Settings {
	return models.Settings{Format: c.DefaultFormat, Quality: c.DefaultQuality}
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// intEnv parses an integer environment variable with a fallback.
func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// floatEnv parses a float environment variable with a fallback.
func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
