// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate runs the test in an empty directory with no config-related
// environment variables set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	keys := []string{ConfigPathEnvVar, DotEnvPathEnvVar}
	for k := range envMappings {
		keys = append(keys, strings.ToUpper(k))
	}
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Catalog.Path != "data/books.json" {
		t.Errorf("Catalog.Path = %q, want data/books.json", cfg.Catalog.Path)
	}
	if cfg.Embedding.Model != "all-MiniLM-L6-v2" {
		t.Errorf("Embedding.Model = %q, want all-MiniLM-L6-v2", cfg.Embedding.Model)
	}
	if cfg.Embedding.Timeout != 30*time.Second {
		t.Errorf("Embedding.Timeout = %v, want 30s", cfg.Embedding.Timeout)
	}
	if cfg.Recommend.DefaultK != 5 {
		t.Errorf("Recommend.DefaultK = %d, want 5", cfg.Recommend.DefaultK)
	}
	if !cfg.Recommend.RejectEmptyQuery {
		t.Error("Recommend.RejectEmptyQuery should be true by default")
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"MODEL_NAME", "embedding.model"},
		{"BOOKS_DATA_PATH", "catalog.path"},
		{"CATALOG_SKIP_INVALID", "catalog.skip_invalid"},
		{"EMBEDDING_API_KEY", "embedding.api_key"},
		{"EMBEDDING_CACHE_PATH", "embedding.cache_path"},
		{"RECOMMEND_DEFAULT_K", "recommend.default_k"},
		{"RECOMMEND_CACHE_TTL", "recommend.cache_ttl"},
		{"HTTP_PORT", "server.port"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},

		// Unmapped keys are skipped
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	t.Run("no config file exists", func(t *testing.T) {
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		writeFile(t, filepath.Join(dir, "config.yaml"), "app:\n  name: test\n")
		defer os.Remove(filepath.Join(dir, "config.yaml"))

		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(dir, "custom.yaml")
		writeFile(t, customPath, "app:\n  name: test\n")
		t.Setenv(ConfigPathEnvVar, customPath)

		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")

		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolate(t)

	t.Setenv("MODEL_NAME", "local:hash-128")
	t.Setenv("BOOKS_DATA_PATH", "/srv/books.csv")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_DEFAULT_K", "3")
	t.Setenv("EMBEDDING_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Embedding.Model != "local:hash-128" {
		t.Errorf("Embedding.Model = %q, want local:hash-128", cfg.Embedding.Model)
	}
	if cfg.Catalog.Path != "/srv/books.csv" {
		t.Errorf("Catalog.Path = %q, want /srv/books.csv", cfg.Catalog.Path)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.DefaultK != 3 {
		t.Errorf("Recommend.DefaultK = %d, want 3", cfg.Recommend.DefaultK)
	}
	if cfg.Embedding.Timeout != 5*time.Second {
		t.Errorf("Embedding.Timeout = %v, want 5s", cfg.Embedding.Timeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != want[0] || cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}

	// Defaults still apply for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Recommend.MaxK != 100 {
		t.Errorf("Recommend.MaxK = %d, want 100 (default)", cfg.Recommend.MaxK)
	}
}

// TestLoadWithKoanfConfigFile tests loading configuration from a YAML file
// and that environment variables win over it.
func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := isolate(t)

	configPath := filepath.Join(dir, "bookshelf.yaml")
	writeFile(t, configPath, `
catalog:
  path: "books.yaml"
  skip_invalid: true
embedding:
  model: "ollama:nomic-embed-text"
  base_url: "http://ollama:11434/v1"
server:
  port: 8888
logging:
  level: "warn"
`)
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "7000")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Catalog.Path != "books.yaml" || !cfg.Catalog.SkipInvalid {
		t.Errorf("Catalog = %+v, want books.yaml with skip_invalid", cfg.Catalog)
	}
	if cfg.Embedding.BaseURL != "http://ollama:11434/v1" {
		t.Errorf("Embedding.BaseURL = %q", cfg.Embedding.BaseURL)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 (env overrides file)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

// TestLoadWithKoanfDotEnv tests that .env fills unset variables only.
func TestLoadWithKoanfDotEnv(t *testing.T) {
	dir := isolate(t)

	writeFile(t, filepath.Join(dir, ".env"), "LOG_LEVEL=error\nHTTP_PORT=9100\n")
	t.Setenv("HTTP_PORT", "9200")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error from .env", cfg.Logging.Level)
	}
	if cfg.Server.Port != 9200 {
		t.Errorf("Server.Port = %d, want 9200 (process env wins)", cfg.Server.Port)
	}
}

// TestLoadWithKoanfValidation tests that invalid values are rejected
func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"invalid port", map[string]string{"HTTP_PORT": "70000"}, "HTTP_PORT"},
		{"invalid log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"openai without key", map[string]string{"MODEL_NAME": "openai:text-embedding-3-small"}, "EMBEDDING_API_KEY"},
		{"unknown catalog format", map[string]string{"BOOKS_DATA_PATH": "books.txt"}, "CATALOG_FORMAT"},
		{"max below default", map[string]string{"RECOMMEND_MAX_K": "2"}, "max_k"},
		{"bad base url", map[string]string{"EMBEDDING_BASE_URL": "ftp://host"}, "EMBEDDING_BASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
