// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bookshelf/config.yaml",
	"/etc/bookshelf/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the location of the .env file.
const DotEnvPathEnvVar = "DOTENV_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name: "Book Recommender API",
		},
		Catalog: CatalogConfig{
			Path:  "data/books.json",
			Table: "books",
		},
		Embedding: EmbeddingConfig{
			Model:          "all-MiniLM-L6-v2",
			BatchSize:      64,
			MaxConcurrency: 4,
			RateLimit:      0, // Unlimited
			Timeout:        30 * time.Second,
			CacheEnabled:   false,
			CachePath:      "data/embeddings",
		},
		Recommend: RecommendConfig{
			DefaultK:         5,
			MaxK:             100,
			RejectEmptyQuery: true,
			ZeroScore:        0,
			CacheEnabled:     false,
			CacheTTL:         5 * time.Minute,
			CacheMaxEntries:  10000,
		},
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration in layers:
//  1. struct defaults
//  2. YAML config file (optional)
//  3. .env file (optional, never overrides variables already set)
//  4. environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: .env values join the process environment
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// Layer 4: Load environment variables (highest priority)
	// MODEL_NAME -> embedding.model, BOOKS_DATA_PATH -> catalog.path
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadDotEnv reads .env (or DOTENV_PATH) into the process environment.
// A missing file is not an error; variables already set are kept.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's a string, split by comma
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"app_name": "app.name",

	// Catalog
	"books_data_path":      "catalog.path",
	"catalog_format":       "catalog.format",
	"catalog_table":        "catalog.table",
	"catalog_skip_invalid": "catalog.skip_invalid",

	// Embedding model
	"model_name":                "embedding.model",
	"embedding_api_key":         "embedding.api_key",
	"embedding_base_url":        "embedding.base_url",
	"embedding_dimensions":      "embedding.dimensions",
	"embedding_batch_size":      "embedding.batch_size",
	"embedding_max_concurrency": "embedding.max_concurrency",
	"embedding_rate_limit":      "embedding.rate_limit",
	"embedding_timeout":         "embedding.timeout",
	"embedding_cache_enabled":   "embedding.cache_enabled",
	"embedding_cache_path":      "embedding.cache_path",

	// Recommendations
	"recommend_default_k":          "recommend.default_k",
	"recommend_max_k":              "recommend.max_k",
	"recommend_reject_empty_query": "recommend.reject_empty_query",
	"recommend_zero_score":         "recommend.zero_score",
	"recommend_cache_enabled":      "recommend.cache_enabled",
	"recommend_cache_ttl":          "recommend.cache_ttl",
	"recommend_cache_max_entries":  "recommend.cache_max_entries",

	// Server
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"rate_limit_disabled": "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - MODEL_NAME -> embedding.model
//   - BOOKS_DATA_PATH -> catalog.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
