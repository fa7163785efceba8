// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Spreadsheet document service
	GoogleCredentialsFile string `validate:"required"`
	SpreadsheetID         string
	SpreadsheetName       string `validate:"required_without=SpreadsheetID"`

	// Scrape source
	SiteOrigin        string        `validate:"required,url"`
	Nationality       string        `validate:"required"`
	FetchCooldown     time.Duration `validate:"gte=0"`
	NavigationTimeout time.Duration `validate:"gt=0"`
	BrowserBin        string
	BrowserHeadless   bool
	BrowserUserAgent  string

	// League definition (divisions, season numbering, worksheet names)
	LeagueConfigPath string
	League           League

	// Preview API server
	APIHost     string
	APIPort     int    `validate:"gt=0,lte=65535"`
	Environment string `validate:"oneof=development staging production"`

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int           `validate:"gt=0"`
	RateLimitWindow   time.Duration `validate:"gt=0"`

	// Cache
	CacheEnabled bool
	PreviewTTL   time.Duration `validate:"gt=0"`

	LogLevel string `validate:"oneof=debug info warn error"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		GoogleCredentialsFile: envOr("GOOGLE_CREDENTIALS_FILE", envOr("GOOGLE_APPLICATION_CREDENTIALS", "")),
		SpreadsheetID:         envOr("SPREADSHEET_ID", ""),
		SpreadsheetName:       envOr("SPREADSHEET_NAME", "UKCS Hub Sheet"),

		SiteOrigin:        envOr("SITE_ORIGIN", "https://play.esea.net"),
		Nationality:       envOr("NATIONALITY", "United Kingdom"),
		FetchCooldown:     envMillis("FETCH_COOLDOWN_MS", 1500),
		NavigationTimeout: time.Duration(envInt("NAVIGATION_TIMEOUT_SECONDS", 5)) * time.Second,
		BrowserBin:        envOr("BROWSER_BIN", ""),
		BrowserHeadless:   envBool("BROWSER_HEADLESS", true),
		BrowserUserAgent:  envOr("BROWSER_USER_AGENT", "cat"),

		LeagueConfigPath: envOr("LEAGUE_CONFIG", ""),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		PreviewTTL:   time.Duration(envInt("PREVIEW_TTL_MINUTES", 15)) * time.Minute,

		LogLevel: strings.ToLower(envOr("LOG_LEVEL", "info")),
	}

	league, err := LoadLeague(cfg.LeagueConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load league: %w", err)
	}
	cfg.League = league

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SlogLevel maps LogLevel onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
