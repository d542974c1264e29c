// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package recommend answers free-text queries with the most similar books.
//
// A Recommender is built once: it loads the catalog, embeds every book
// description in one batch and indexes the vectors. Construction either
// returns a ready Recommender or an error; nothing is exposed half-built.
// Afterwards all state is read-only and queries may run concurrently.
package recommend

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookshelf/internal/cache"
	"github.com/tomtom215/bookshelf/internal/catalog"
	"github.com/tomtom215/bookshelf/internal/embedding"
	"github.com/tomtom215/bookshelf/internal/index"
	"github.com/tomtom215/bookshelf/internal/logging"
	"github.com/tomtom215/bookshelf/internal/metrics"
)

// Recommendation is a ranked book with its similarity to the query.
type Recommendation struct {
	Book     catalog.Book `json:"book"`
	Score    float64      `json:"score"`
	Position int          `json:"position"`
}

// Recommender ranks catalog books against query text.
type Recommender struct {
	config   Config
	catalog  *catalog.Catalog
	index    *index.Index
	provider embedding.Provider
	results  *cache.LRU[[]index.Match]
	logger   zerolog.Logger
	builtAt  time.Time
}

// New loads src, embeds every description with provider and indexes the
// result. Any error is fatal: the returned Recommender is nil.
//
// The provider is used for queries afterwards and stays owned by the caller.
//
//nolint:gocritic // hugeParam: cfg is copied on purpose so it cannot change later
func New(ctx context.Context, src catalog.Source, provider embedding.Provider, cfg Config, logger zerolog.Logger) (*Recommender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger = logger.With().Str("component", "recommend").Logger()
	start := time.Now()

	cat, err := catalog.LoadFrom(ctx, src, catalog.Options{SkipInvalid: cfg.SkipInvalid, Logger: logger})
	if err != nil {
		return nil, err
	}

	vectors, err := provider.EmbedBatch(ctx, cat.Descriptions())
	if err != nil {
		return nil, fmt.Errorf("embed catalog: %w", err)
	}
	if len(vectors) != cat.Len() {
		return nil, fmt.Errorf("embed catalog: provider returned %d embeddings for %d books", len(vectors), cat.Len())
	}

	ix, err := index.Build(vectors, index.WithZeroScore(cfg.ZeroScore))
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if ix.Dimensions() != provider.Dimensions() {
		return nil, &index.DimensionMismatchError{Position: 0, Expected: provider.Dimensions(), Actual: ix.Dimensions()}
	}

	r := &Recommender{
		config:   cfg,
		catalog:  cat,
		index:    ix,
		provider: provider,
		logger:   logger,
		builtAt:  time.Now(),
	}
	if cfg.Cache.Enabled {
		r.results = cache.NewLRU[[]index.Match](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}

	elapsed := time.Since(start)
	metrics.RecordIndexBuilt(cat.Len(), ix.Dimensions(), elapsed)
	logger.Info().
		Str("source", cat.Source()).
		Str("model", provider.Model()).
		Int("books", cat.Len()).
		Int("dimensions", ix.Dimensions()).
		Dur("duration", elapsed).
		Msg("Recommender ready")

	return r, nil
}

// GetRecommendations returns up to k books ranked by similarity to text.
// k <= 0 yields no books; k beyond the catalog size yields the whole catalog.
func (r *Recommender) GetRecommendations(ctx context.Context, text string, k int) ([]catalog.Book, error) {
	recs, err := r.Recommend(ctx, text, k)
	if err != nil {
		return nil, err
	}
	books := make([]catalog.Book, len(recs))
	for i, rec := range recs {
		books[i] = rec.Book
	}
	return books, nil
}

// Recommend is GetRecommendations with scores.
func (r *Recommender) Recommend(ctx context.Context, text string, k int) (recs []Recommendation, err error) {
	start := time.Now()
	logger := r.logger.With().Str("request_id", logging.RequestIDFromContext(ctx)).Logger()
	defer func() {
		outcome := Outcome(err)
		metrics.RecordRecommendation(outcome, time.Since(start))
		if err != nil {
			logger.Warn().Err(err).Str("outcome", outcome).Int("k", k).Msg("Recommendation failed")
			return
		}
		logger.Debug().Int("k", k).Int("returned", len(recs)).Dur("duration", time.Since(start)).Msg("Recommendation complete")
	}()

	if r.config.RejectEmptyQuery && embedding.IsBlank(text) {
		return nil, &InvalidQueryError{Reason: "text must not be empty"}
	}
	if k <= 0 {
		return []Recommendation{}, nil
	}

	matches, err := r.rank(ctx, text, k)
	if err != nil {
		return nil, err
	}

	recs = make([]Recommendation, len(matches))
	for i, m := range matches {
		recs[i] = Recommendation{Book: r.catalog.At(m.Position), Score: m.Score, Position: m.Position}
	}
	return recs, nil
}

func (r *Recommender) rank(ctx context.Context, text string, k int) ([]index.Match, error) {
	var key string
	if r.results != nil {
		key = strconv.Itoa(k) + "\x00" + text
		if matches, ok := r.results.Get(key); ok {
			metrics.RecommendCacheHits.Inc()
			return matches, nil
		}
		metrics.RecommendCacheMisses.Inc()
	}

	vec, err := r.provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	matches, err := r.index.Query(vec, k)
	if err != nil {
		return nil, err
	}

	if r.results != nil {
		r.results.Add(key, matches)
	}
	return matches, nil
}

// DefaultK returns the configured default number of results.
func (r *Recommender) DefaultK() int { return r.config.Limits.DefaultK }

// MaxK returns the largest k callers should request.
func (r *Recommender) MaxK() int { return r.config.Limits.MaxK }

// Catalog returns the loaded catalog.
func (r *Recommender) Catalog() *catalog.Catalog { return r.catalog }

// Model returns the embedding model identity.
func (r *Recommender) Model() string { return r.provider.Model() }

// Dimensions returns the embedding dimensionality of the index.
func (r *Recommender) Dimensions() int { return r.index.Dimensions() }

// BuiltAt returns when construction finished.
func (r *Recommender) BuiltAt() time.Time { return r.builtAt }
