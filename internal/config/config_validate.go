// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/bookshelf/internal/catalog"
	"github.com/tomtom215/bookshelf/internal/embedding"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateEmbedding(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateCatalog validates the catalog source settings
func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("BOOKS_DATA_PATH is required")
	}
	if c.Catalog.Format == "" {
		if _, ok := catalog.DetectFormat(c.Catalog.Path); !ok {
			return fmt.Errorf("CATALOG_FORMAT is required: cannot detect format of %s", c.Catalog.Path)
		}
		return nil
	}
	if !catalog.ValidFormat(c.Catalog.Format) {
		return fmt.Errorf("CATALOG_FORMAT must be one of: json, jsonl, yaml, csv, parquet, sqlite, duckdb")
	}
	return nil
}

// validateEmbedding validates the embedding model settings
func (c *Config) validateEmbedding() error {
	provider, _, err := embedding.ParseModelName(c.Embedding.Model)
	if err != nil {
		return fmt.Errorf("MODEL_NAME is invalid: %w", err)
	}

	if err := c.validateEmbeddingLimits(); err != nil {
		return err
	}

	if c.Embedding.BaseURL != "" {
		if err := validateHTTPURL(c.Embedding.BaseURL, "EMBEDDING_BASE_URL"); err != nil {
			return err
		}
	}

	if c.Embedding.CacheEnabled && strings.TrimSpace(c.Embedding.CachePath) == "" {
		return fmt.Errorf("EMBEDDING_CACHE_PATH is required when EMBEDDING_CACHE_ENABLED=true")
	}

	return c.validateEmbeddingAPIKey(provider)
}

// validateEmbeddingLimits validates batching and throttling bounds
func (c *Config) validateEmbeddingLimits() error {
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("EMBEDDING_DIMENSIONS must not be negative")
	}
	if c.Embedding.BatchSize < 1 {
		return fmt.Errorf("EMBEDDING_BATCH_SIZE must be at least 1")
	}
	if c.Embedding.MaxConcurrency < 1 {
		return fmt.Errorf("EMBEDDING_MAX_CONCURRENCY must be at least 1")
	}
	if c.Embedding.RateLimit < 0 {
		return fmt.Errorf("EMBEDDING_RATE_LIMIT must not be negative (0 disables it)")
	}
	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("EMBEDDING_TIMEOUT must be positive")
	}
	return nil
}

// validateEmbeddingAPIKey requires a key for hosted providers
func (c *Config) validateEmbeddingAPIKey(provider string) error {
	switch provider {
	case embedding.ProviderOpenAI, embedding.ProviderGemini:
	default:
		return nil
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("EMBEDDING_API_KEY is required for %s models", provider)
	}
	if containsPlaceholder(c.Embedding.APIKey) {
		return fmt.Errorf("EMBEDDING_API_KEY contains a placeholder value")
	}
	return nil
}

// validateRecommend validates query behaviour
func (c *Config) validateRecommend() error {
	if err := c.RecommenderConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS rejects empty origin entries
func (c *Config) validateCORS() error {
	for _, origin := range c.Security.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("CORS_ORIGINS must not contain empty entries")
		}
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS is open to any origin in production
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if err := c.validateRateLimitRequests(); err != nil {
		return err
	}
	return c.validateRateLimitWindow()
}

// validateRateLimitRequests validates the rate limit requests value
func (c *Config) validateRateLimitRequests() error {
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	return nil
}

// validateRateLimitWindow validates the rate limit window value
func (c *Config) validateRateLimitWindow() error {
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if err := c.validateLogLevel(); err != nil {
		return err
	}
	return c.validateLogFormat()
}

// validateLogLevel validates the log level configuration
func (c *Config) validateLogLevel() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	return nil
}

// validateLogFormat validates the log format configuration
func (c *Config) validateLogFormat() error {
	if c.Logging.Format == "" {
		return nil
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns are values people paste from example configs.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_API_KEY",
	"PLACEHOLDER",
}

// containsPlaceholder checks if a value contains common placeholder patterns
// that indicate the user forgot to set a real value.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
