package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Debug forces debug-level logging, which includes per-screen mount tracing.
	Debug bool

	// TemplatesDir loads templates from disk (hot reload in development).
	// Empty uses the templates embedded in the binary.
	TemplatesDir string

	// Simulated backend
	SubmitDelay time.Duration

	// Success screen
	ProgressTick    time.Duration
	RedirectAfter   time.Duration
	SuccessRedirect string

	// Live form/success-screen instances held in memory
	FormTTL      time.Duration
	MaxLiveForms int

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Debug:    getEnvBool("DEBUG", false),

		TemplatesDir: getEnv("TEMPLATES_DIR", ""),

		SubmitDelay: getEnvDuration("SUBMIT_DELAY", 1500*time.Millisecond),

		ProgressTick:    getEnvDuration("PROGRESS_TICK", 600*time.Millisecond),
		RedirectAfter:   getEnvDuration("REDIRECT_AFTER", 3*time.Second),
		SuccessRedirect: getEnv("SUCCESS_REDIRECT", "/dashboard"),

		FormTTL:      getEnvDuration("FORM_TTL", 15*time.Minute),
		MaxLiveForms: getEnvInt("MAX_LIVE_FORMS", 1000),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that timing and sizing values are usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	if c.SubmitDelay <= 0 {
		return fmt.Errorf("SUBMIT_DELAY must be positive, got: %s", c.SubmitDelay)
	}
	if c.ProgressTick <= 0 {
		return fmt.Errorf("PROGRESS_TICK must be positive, got: %s", c.ProgressTick)
	}
	if c.RedirectAfter <= 0 {
		return fmt.Errorf("REDIRECT_AFTER must be positive, got: %s", c.RedirectAfter)
	}
	if c.SuccessRedirect == "" || c.SuccessRedirect[0] != '/' {
		return fmt.Errorf("SUCCESS_REDIRECT must be a path starting with '/', got: %q", c.SuccessRedirect)
	}
	if c.FormTTL <= 0 {
		return fmt.Errorf("FORM_TTL must be positive, got: %s", c.FormTTL)
	}
	if c.MaxLiveForms <= 0 {
		return fmt.Errorf("MAX_LIVE_FORMS must be positive, got: %d", c.MaxLiveForms)
	}
	return nil
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
