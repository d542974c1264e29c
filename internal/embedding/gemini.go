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

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini embeddings backend.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string

	// Dimensions requests a reduced output dimensionality. Zero leaves the model default.
	Dimensions int

	HTTPClient *http.Client
}

type geminiBackend struct {
	client     *genai.Client
	modelName  string
	dimensions int
}

func newGeminiBackend(ctx context.Context, cfg GeminiConfig) (*geminiBackend, error) {
	if cfg.Model == "" {
		return nil, errors.New("model name is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("an API key is required for Gemini")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiBackend{client: client, modelName: cfg.Model, dimensions: cfg.Dimensions}, nil
}

func (b *geminiBackend) embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	embedCfg := &genai.EmbedContentConfig{}
	if b.dimensions > 0 {
		dims := int32(b.dimensions)
		embedCfg.OutputDimensionality = &dims
	}

	result, err := b.client.Models.EmbedContent(ctx, b.modelName, contents, embedCfg)
	if err != nil {
		return nil, err
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	out := make([][]float32, len(texts))
	for i, e := range result.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("empty embedding vector at %d", i)
		}
		out[i] = e.Values
	}
	return out, nil
}

func (b *geminiBackend) provider() string { return ProviderGemini }

func (b *geminiBackend) model() string { return b.modelName }

func (b *geminiBackend) close() error { return nil }

// NewGemini connects to the Gemini embeddings API and probes it.
func NewGemini(ctx context.Context, cfg GeminiConfig, opts RemoteOptions) (Provider, error) {
	b, err := newGeminiBackend(ctx, cfg)
	if err != nil {
		return nil, &ModelUnavailableError{Model: ProviderGemini + ":" + cfg.Model, Err: err}
	}
	return newRemoteProvider(ctx, b, opts)
}
