// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package embedding turns text into fixed-length vectors.
//
// Every Provider guarantees:
//   - EmbedBatch returns, element for element and in input order, what Embed
//     returns for each text on its own.
//   - Blank text maps to the zero vector and never fails.
//   - All vectors from one provider instance share Dimensions().
//   - Methods are safe for concurrent use.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider produces embeddings for text.
type Provider interface {
	// Embed returns the embedding of a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds many texts at once. Results are index-aligned with texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of every vector this provider produces.
	Dimensions() int

	// Model identifies the model, including its provider, e.g. "local:hash-384".
	// Cached vectors are only reused for the same Model.
	Model() string

	// Close releases resources held by the provider.
	Close() error
}

// Sentinel errors for errors.Is checks.
var (
	ErrModelUnavailable = errors.New("embedding model unavailable")
	ErrEmbedding        = errors.New("embedding failed")

	// ErrProviderUnavailable marks calls rejected because the backend circuit is open.
	ErrProviderUnavailable = errors.New("embedding provider temporarily unavailable")
)

// ModelUnavailableError reports a model that cannot be initialized.
// It is fatal at startup and never retried.
type ModelUnavailableError struct {
	Model string
	Err   error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("embedding model %q unavailable", e.Model)
	}
	return fmt.Sprintf("embedding model %q unavailable: %v", e.Model, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrModelUnavailable) match any *ModelUnavailableError.
func (e *ModelUnavailableError) Is(target error) bool { return target == ErrModelUnavailable }

// EmbeddingError reports a text that could not be embedded.
type EmbeddingError struct {
	Model string
	// Index is the position of the offending text in the batch, or -1 for the whole call.
	Index int
	Err   error
}

func (e *EmbeddingError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("embed with %q: text %d: %v", e.Model, e.Index, e.Err)
	}
	return fmt.Sprintf("embed with %q: %v", e.Model, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrEmbedding) match any *EmbeddingError.
func (e *EmbeddingError) Is(target error) bool { return target == ErrEmbedding }

// IsBlank reports whether text embeds to the zero vector without consulting a model.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Zero returns a zero vector of the given length.
func Zero(dims int) []float32 {
	return make([]float32, dims)
}

// embedOne implements Embed on top of EmbedBatch.
func embedOne(ctx context.Context, p Provider, text string) ([]float32, error) {
	vecs, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		var embErr *EmbeddingError
		if errors.As(err, &embErr) && embErr.Index == 0 {
			embErr.Index = -1
		}
		return nil, err
	}
	return vecs[0], nil
}
