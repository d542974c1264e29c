// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/tomtom215/bookshelf/internal/metrics"
)

// DefaultHashDimensions matches the output size of all-MiniLM-L6-v2 so that
// the local model can stand in for it without changing index shape.
const DefaultHashDimensions = 384

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "is": {}, "are": {},
	"was": {}, "by": {}, "as": {}, "from": {}, "it": {}, "its": {}, "this": {},
	"that": {},
}

// HashProvider is an in-process embedding model based on feature hashing.
// Each word contributes a whole-word feature and its character trigrams, so
// inflections such as "whales" and "whale" land close together. Vectors are
// L2-normalized.
//
// HashProvider needs no network or model files, is deterministic, and is
// reentrant, so it is the default for tests and offline use.
type HashProvider struct {
	dims int
}

// NewHashProvider returns a hash model producing dims-length vectors.
func NewHashProvider(dims int) (*HashProvider, error) {
	if dims <= 0 {
		return nil, &ModelUnavailableError{
			Model: fmt.Sprintf("local:hash-%d", dims),
			Err:   fmt.Errorf("dimensions must be positive"),
		}
	}
	return &HashProvider{dims: dims}, nil
}

func (h *HashProvider) Dimensions() int { return h.dims }

func (h *HashProvider) Model() string { return fmt.Sprintf("local:hash-%d", h.dims) }

func (h *HashProvider) Close() error { return nil }

func (h *HashProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return embedOne(ctx, h, text)
}

func (h *HashProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !utf8.ValidString(text) {
			err := &EmbeddingError{Model: h.Model(), Index: i, Err: errors.New("text is not valid UTF-8")}
			metrics.RecordEmbeddingCall("local", len(texts), time.Since(start), err)
			return nil, err
		}
		out[i] = h.vector(text)
	}
	metrics.RecordEmbeddingCall("local", len(texts), time.Since(start), nil)
	return out, nil
}

func (h *HashProvider) vector(text string) []float32 {
	vec := make([]float32, h.dims)
	for _, word := range tokenize(text) {
		h.add(vec, "w:"+word, 1.0)
		padded := []rune("#" + word + "#")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(vec, "g:"+string(padded[i:i+3]), 0.5)
		}
	}
	normalize(vec)
	return vec
}

func (h *HashProvider) add(vec []float32, feature string, weight float32) {
	sum := xxhash.Sum64String(feature)
	idx := sum % uint64(h.dims)
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// tokenize lowercases text and splits it on anything that is not a letter
// or digit, dropping common stopwords.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := fields[:0]
	for _, f := range fields {
		if _, skip := stopwords[f]; skip {
			continue
		}
		words = append(words, f)
	}
	return words
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) * inv)
	}
}
