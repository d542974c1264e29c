// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOllamaBaseURL is the OpenAI-compatible endpoint of a local Ollama server.
const DefaultOllamaBaseURL = "http://localhost:11434/v1"

// openAIBackend talks to any server implementing the OpenAI embeddings API.
// Ollama exposes the same API under /v1, so both providers share it.
type openAIBackend struct {
	client     *openai.Client
	name       string
	modelName  string
	dimensions int
}

// OpenAIConfig configures an OpenAI-compatible backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string

	// Dimensions asks models that support truncation (text-embedding-3-*)
	// for shorter vectors. Zero leaves the model default.
	Dimensions int

	HTTPClient *http.Client
}

func newOpenAIBackend(provider string, cfg OpenAIConfig) (*openAIBackend, error) {
	if cfg.Model == "" {
		return nil, errors.New("model name is required")
	}
	if provider == ProviderOpenAI && cfg.APIKey == "" {
		return nil, errors.New("an API key is required for OpenAI")
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		// Ollama ignores the key but the client always sends one.
		apiKey = "ollama"
	}

	clientCfg := openai.DefaultConfig(apiKey)
	switch {
	case cfg.BaseURL != "":
		clientCfg.BaseURL = cfg.BaseURL
	case provider == ProviderOllama:
		clientCfg.BaseURL = DefaultOllamaBaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	b := &openAIBackend{
		client:    openai.NewClientWithConfig(clientCfg),
		name:      provider,
		modelName: cfg.Model,
	}
	if provider == ProviderOpenAI {
		b.dimensions = cfg.Dimensions
	}
	return b, nil
}

func (b *openAIBackend) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := b.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input:      texts,
		Model:      openai.EmbeddingModel(b.modelName),
		Dimensions: b.dimensions,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	// The API tags each result with its input index; order is not promised.
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) || out[d.Index] != nil {
			return nil, fmt.Errorf("invalid embedding index %d", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func (b *openAIBackend) provider() string { return b.name }

func (b *openAIBackend) model() string { return b.modelName }

func (b *openAIBackend) close() error { return nil }

// NewOpenAI connects to an OpenAI-compatible embeddings API and probes it.
// provider is ProviderOpenAI or ProviderOllama.
func NewOpenAI(ctx context.Context, provider string, cfg OpenAIConfig, opts RemoteOptions) (Provider, error) {
	b, err := newOpenAIBackend(provider, cfg)
	if err != nil {
		return nil, &ModelUnavailableError{Model: provider + ":" + cfg.Model, Err: err}
	}
	return newRemoteProvider(ctx, b, opts)
}
