// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL    string `env:"ADV_API_BASE_URL" envDefault:"http://localhost:5000/api"`
	DBPath        string `env:"ADV_DB_PATH" envDefault:"./data/advisors.db"`
	SessionSecret string `env:"ADV_SESSION_SECRET,required"`
	ServerHost    string `env:"ADV_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"ADV_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"ADV_ENV" envDefault:"development"`
	LogLevel      string `env:"ADV_LOG_LEVEL" envDefault:"info"`

	// SiteURL is the public base URL, used for sitemap and canonical
	// links. Defaults to the local server address.
	SiteURL string `env:"ADV_SITE_URL"`

	// Cache configuration
	RedisURL     string `env:"ADV_REDIS_URL"`                        // Optional Redis URL for distributed caching
	CachePrefix  string `env:"ADV_CACHE_PREFIX" envDefault:"adv:"`   // Redis key prefix
	CacheTTL     int    `env:"ADV_CACHE_TTL" envDefault:"300"`       // Page content cache TTL in seconds
	CacheMaxSize int    `env:"ADV_CACHE_MAX_SIZE" envDefault:"1000"` // Max memory cache entries

	// Cloudflare Turnstile configuration. The widget is rendered client-side
	// and the token is forwarded to the API, which performs verification.
	TurnstileSiteKey string `env:"ADV_TURNSTILE_SITE_KEY"`

	// EventRetentionDays controls how long local audit events are kept.
	EventRetentionDays int `env:"ADV_EVENT_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// TurnstileEnabled returns true if the Turnstile widget should be rendered.
func (c Config) TurnstileEnabled() bool {
	return c.TurnstileSiteKey != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("ADV_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("ADV_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("ADV_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return nil, fmt.Errorf("ADV_API_BASE_URL must be an absolute http(s) URL, got %q", cfg.APIBaseURL)
	}

	if cfg.SiteURL == "" {
		cfg.SiteURL = "http://" + cfg.ServerAddr()
	}
	cfg.SiteURL = strings.TrimSuffix(cfg.SiteURL, "/")

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
