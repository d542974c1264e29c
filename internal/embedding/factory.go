// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package embedding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Provider names accepted in the "provider:model" form of a model name.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// ollamaAliases maps sentence-transformers model names to their Ollama tags.
var ollamaAliases = map[string]string{
	"all-minilm-l6-v2":                       "all-minilm",
	"sentence-transformers/all-minilm-l6-v2": "all-minilm",
	"nomic-embed-text-v1.5":                  "nomic-embed-text",
	"mxbai-embed-large-v1":                   "mxbai-embed-large",
}

// Config selects and tunes an embedding provider.
type Config struct {
	// ModelName is "provider:model" or a bare model name, which runs on Ollama.
	ModelName string

	APIKey         string
	BaseURL        string
	Dimensions     int
	BatchSize      int
	MaxConcurrency int
	RateLimit      float64
	Timeout        time.Duration

	CacheEnabled bool
	CachePath    string
}

// ParseModelName splits a model name into provider and model.
//
//	"openai:text-embedding-3-small" -> openai, text-embedding-3-small
//	"local" or "hash"               -> local, hash-384
//	"local:hash-128"                -> local, hash-128
//	"all-MiniLM-L6-v2"              -> ollama, all-minilm
//
// Only the known provider names are treated as prefixes, so Ollama tags
// such as "all-minilm:33m" keep their colon.
func ParseModelName(name string) (provider, model string, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", errors.New("model name is empty")
	}

	switch strings.ToLower(name) {
	case "local", "hash":
		return ProviderLocal, fmt.Sprintf("hash-%d", DefaultHashDimensions), nil
	}

	if prefix, rest, ok := strings.Cut(name, ":"); ok {
		switch p := strings.ToLower(prefix); p {
		case ProviderLocal, ProviderOpenAI, ProviderOllama, ProviderGemini:
			if rest == "" {
				return "", "", fmt.Errorf("model name %q has no model after the provider", name)
			}
			if p == ProviderOllama {
				rest = ollamaModel(rest)
			}
			return p, rest, nil
		}
	}
	return ProviderOllama, ollamaModel(name), nil
}

func ollamaModel(name string) string {
	if alias, ok := ollamaAliases[strings.ToLower(name)]; ok {
		return alias
	}
	return name
}

// parseHashModel reads the dimensionality from "hash" or "hash-N".
func parseHashModel(model string) (int, error) {
	if model == "hash" {
		return DefaultHashDimensions, nil
	}
	n, ok := strings.CutPrefix(model, "hash-")
	if !ok {
		return 0, fmt.Errorf("unknown local model %q (want hash or hash-N)", model)
	}
	dims, err := strconv.Atoi(n)
	if err != nil || dims <= 0 {
		return 0, fmt.Errorf("invalid dimensions in local model %q", model)
	}
	return dims, nil
}

// New builds the provider named by cfg.ModelName. Remote providers are
// probed before New returns, so any returned error is a *ModelUnavailableError.
func New(ctx context.Context, cfg Config, logger zerolog.Logger) (Provider, error) {
	provider, model, err := ParseModelName(cfg.ModelName)
	if err != nil {
		return nil, &ModelUnavailableError{Model: cfg.ModelName, Err: err}
	}

	opts := RemoteOptions{
		Dimensions:     cfg.Dimensions,
		BatchSize:      cfg.BatchSize,
		MaxConcurrency: cfg.MaxConcurrency,
		RateLimit:      cfg.RateLimit,
		Timeout:        cfg.Timeout,
		Logger:         logger,
	}

	var p Provider
	switch provider {
	case ProviderLocal:
		dims, err := parseHashModel(model)
		if err != nil {
			return nil, &ModelUnavailableError{Model: cfg.ModelName, Err: err}
		}
		p, err = NewHashProvider(dims)
		if err != nil {
			return nil, err
		}
	case ProviderOpenAI, ProviderOllama:
		p, err = NewOpenAI(ctx, provider, OpenAIConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      model,
			Dimensions: cfg.Dimensions,
		}, opts)
		if err != nil {
			return nil, err
		}
	case ProviderGemini:
		p, err = NewGemini(ctx, GeminiConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      model,
			Dimensions: cfg.Dimensions,
		}, opts)
		if err != nil {
			return nil, err
		}
	}

	logger.Info().Str("model", p.Model()).Int("dimensions", p.Dimensions()).Msg("Embedding provider initialized")

	if !cfg.CacheEnabled {
		return p, nil
	}
	store, err := OpenBadgerStore(cfg.CachePath)
	if err != nil {
		_ = p.Close()
		return nil, &ModelUnavailableError{Model: p.Model(), Err: fmt.Errorf("embedding cache: %w", err)}
	}
	logger.Info().Str("path", cfg.CachePath).Msg("Embedding cache opened")
	return NewCachedProvider(p, store, logger), nil
}
