// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package recommend

import (
	"fmt"
	"time"
)

// Config contains the recommender settings. It is read once by New and
// copied; later changes to the caller's value have no effect.
type Config struct {
	// ModelName identifies the embedding model, e.g. "all-MiniLM-L6-v2".
	// Informational here: the provider passed to New is already built.
	ModelName string `json:"model_name"`

	// DataPath is the catalog location the source was opened from.
	DataPath string `json:"data_path"`

	// SkipInvalid drops catalog records that fail validation instead of
	// failing construction.
	SkipInvalid bool `json:"skip_invalid"`

	// RejectEmptyQuery makes blank query text an InvalidQueryError. When
	// false, blank text is scored as the zero vector.
	// Default: true.
	RejectEmptyQuery bool `json:"reject_empty_query"`

	// ZeroScore is the similarity assigned when either vector has zero magnitude.
	// Default: 0.
	ZeroScore float64 `json:"zero_score"`

	// Limits contains request limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// LimitsConfig contains request limits.
type LimitsConfig struct {
	// DefaultK is the number of recommendations returned when the caller
	// does not choose.
	// Default: 5.
	DefaultK int `json:"default_k"`

	// MaxK is the largest k the HTTP layer accepts.
	// Default: 100.
	MaxK int `json:"max_k"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled controls whether ranked results are cached by (text, k).
	// Default: false.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached results.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		ModelName:        "all-MiniLM-L6-v2",
		DataPath:         "data/books.json",
		RejectEmptyQuery: true,
		Limits: LimitsConfig{
			DefaultK: 5,
			MaxK:     100,
		},
		Cache: CacheConfig{
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocritic // hugeParam: Config is validated once at startup
func (c Config) Validate() error {
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k (%d) must be >= limits.default_k (%d)", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.ZeroScore < -1 || c.ZeroScore > 1 {
		return fmt.Errorf("zero_score must be within [-1, 1], got %f", c.ZeroScore)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}
	return nil
}
