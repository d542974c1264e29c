// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package embedding

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseModelName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{"all-MiniLM-L6-v2", ProviderOllama, "all-minilm", false},
		{"sentence-transformers/all-MiniLM-L6-v2", ProviderOllama, "all-minilm", false},
		{"nomic-embed-text", ProviderOllama, "nomic-embed-text", false},
		{"all-minilm:33m", ProviderOllama, "all-minilm:33m", false},
		{"ollama:all-minilm:33m", ProviderOllama, "all-minilm:33m", false},
		{"ollama:all-MiniLM-L6-v2", ProviderOllama, "all-minilm", false},
		{"openai:text-embedding-3-small", ProviderOpenAI, "text-embedding-3-small", false},
		{"OpenAI:text-embedding-3-large", ProviderOpenAI, "text-embedding-3-large", false},
		{"gemini:text-embedding-004", ProviderGemini, "text-embedding-004", false},
		{"local", ProviderLocal, "hash-384", false},
		{"hash", ProviderLocal, "hash-384", false},
		{"local:hash-64", ProviderLocal, "hash-64", false},
		{"  ", "", "", true},
		{"openai:", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			provider, model, err := ParseModelName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModelName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if provider != tt.wantProvider || model != tt.wantModel {
				t.Errorf("ParseModelName(%q) = %q, %q, want %q, %q", tt.name, provider, model, tt.wantProvider, tt.wantModel)
			}
		})
	}
}

func TestParseHashModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		model   string
		want    int
		wantErr bool
	}{
		{"hash", DefaultHashDimensions, false},
		{"hash-128", 128, false},
		{"hash-0", 0, true},
		{"hash-abc", 0, true},
		{"minilm", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			t.Parallel()
			got, err := parseHashModel(tt.model)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("parseHashModel(%q) = %d, %v", tt.model, got, err)
			}
		})
	}
}

func TestNew_Local(t *testing.T) {
	t.Parallel()

	p, err := New(context.Background(), Config{ModelName: "local:hash-32"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = p.Close() }()

	if p.Dimensions() != 32 {
		t.Errorf("Dimensions() = %d, want 32", p.Dimensions())
	}
	if _, ok := p.(*HashProvider); !ok {
		t.Errorf("New() returned %T, want *HashProvider", p)
	}
}

func TestNew_WithCache(t *testing.T) {
	t.Parallel()

	p, err := New(context.Background(), Config{
		ModelName:    "local",
		CacheEnabled: true,
		CachePath:    filepath.Join(t.TempDir(), "embeddings"),
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = p.Close() }()

	if _, ok := p.(*CachedProvider); !ok {
		t.Fatalf("New() returned %T, want *CachedProvider", p)
	}
	if _, err := p.Embed(context.Background(), "hello"); err != nil {
		t.Errorf("Embed() error = %v", err)
	}
}

func TestNew_Unavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty name", Config{}},
		{"bad local model", Config{ModelName: "local:minilm"}},
		{"openai without key", Config{ModelName: "openai:text-embedding-3-small"}},
		{"gemini without key", Config{ModelName: "gemini:text-embedding-004"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(context.Background(), tt.cfg, zerolog.Nop())
			if !errors.Is(err, ErrModelUnavailable) {
				t.Errorf("New() error = %v, want ErrModelUnavailable", err)
			}
		})
	}
}
