// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package config loads Bookshelf configuration from defaults, an optional
// YAML file, an optional .env file and the process environment, in that
// order of increasing priority. The result is read once at startup.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/bookshelf/internal/catalog"
	"github.com/tomtom215/bookshelf/internal/embedding"
	"github.com/tomtom215/bookshelf/internal/logging"
	"github.com/tomtom215/bookshelf/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Recommend RecommendConfig `koanf:"recommend"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// AppConfig holds application identity settings.
type AppConfig struct {
	// Name is shown in the API docs and the app_info metric.
	// Default: Book Recommender API
	Name string `koanf:"name"`
}

// CatalogConfig describes where the book catalog is read from.
type CatalogConfig struct {
	// Path is the catalog file or database (BOOKS_DATA_PATH).
	// Default: data/books.json
	Path string `koanf:"path"`

	// Format overrides detection from the file extension.
	Format string `koanf:"format"`

	// Table is read from SQLite and DuckDB databases.
	// Default: books
	Table string `koanf:"table"`

	// SkipInvalid drops invalid records instead of refusing to start.
	SkipInvalid bool `koanf:"skip_invalid"`
}

// EmbeddingConfig selects and tunes the embedding model.
type EmbeddingConfig struct {
	// Model is "provider:model" or a bare Ollama model name (MODEL_NAME).
	// Default: all-MiniLM-L6-v2
	Model string `koanf:"model"`

	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`

	// Dimensions pins the expected vector length. 0 learns it from the model.
	Dimensions int `koanf:"dimensions"`

	BatchSize      int           `koanf:"batch_size"`
	MaxConcurrency int           `koanf:"max_concurrency"`
	RateLimit      float64       `koanf:"rate_limit"`
	Timeout        time.Duration `koanf:"timeout"`

	// CacheEnabled persists embeddings in BadgerDB at CachePath.
	CacheEnabled bool   `koanf:"cache_enabled"`
	CachePath    string `koanf:"cache_path"`
}

// RecommendConfig holds query behaviour.
type RecommendConfig struct {
	DefaultK         int           `koanf:"default_k"`
	MaxK             int           `koanf:"max_k"`
	RejectEmptyQuery bool          `koanf:"reject_empty_query"`
	ZeroScore        float64       `koanf:"zero_score"`
	CacheEnabled     bool          `koanf:"cache_enabled"`
	CacheTTL         time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries  int           `koanf:"cache_max_entries"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`

	// Environment mode: "development" or "production" (default: "development")
	Environment string `koanf:"environment"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load reads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// EmbeddingProviderConfig converts the embedding section for embedding.New.
func (c *Config) EmbeddingProviderConfig() embedding.Config {
	return embedding.Config{
		ModelName:      c.Embedding.Model,
		APIKey:         c.Embedding.APIKey,
		BaseURL:        c.Embedding.BaseURL,
		Dimensions:     c.Embedding.Dimensions,
		BatchSize:      c.Embedding.BatchSize,
		MaxConcurrency: c.Embedding.MaxConcurrency,
		RateLimit:      c.Embedding.RateLimit,
		Timeout:        c.Embedding.Timeout,
		CacheEnabled:   c.Embedding.CacheEnabled,
		CachePath:      c.Embedding.CachePath,
	}
}

// RecommenderConfig converts the relevant sections for recommend.New.
func (c *Config) RecommenderConfig() recommend.Config {
	return recommend.Config{
		ModelName:        c.Embedding.Model,
		DataPath:         c.Catalog.Path,
		SkipInvalid:      c.Catalog.SkipInvalid,
		RejectEmptyQuery: c.Recommend.RejectEmptyQuery,
		ZeroScore:        c.Recommend.ZeroScore,
		Limits: recommend.LimitsConfig{
			DefaultK: c.Recommend.DefaultK,
			MaxK:     c.Recommend.MaxK,
		},
		Cache: recommend.CacheConfig{
			Enabled:    c.Recommend.CacheEnabled,
			TTL:        c.Recommend.CacheTTL,
			MaxEntries: c.Recommend.CacheMaxEntries,
		},
	}
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}

// OpenCatalog opens the configured catalog source.
func (c *Config) OpenCatalog() (catalog.Source, error) {
	src, err := catalog.Open(c.Catalog.Path, c.Catalog.Format, c.Catalog.Table)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return src, nil
}
