// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tomtom215/bookshelf/internal/catalog"
	"github.com/tomtom215/bookshelf/internal/recommend"
)

// Recommender is the engine surface the handlers use.
// *recommend.Recommender implements it.
type Recommender interface {
	Recommend(ctx context.Context, text string, k int) ([]recommend.Recommendation, error)
	DefaultK() int
	MaxK() int
	Catalog() *catalog.Catalog
	Model() string
	Dimensions() int
	BuiltAt() time.Time
}

// HandlerConfig holds the HTTP-level settings of the handlers.
type HandlerConfig struct {
	// DefaultPageSize is used by /api/v1/books when limit is omitted.
	DefaultPageSize int

	// MaxPageSize caps the books listing limit.
	MaxPageSize int
}

// DefaultHandlerConfig returns the handler defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{DefaultPageSize: 20, MaxPageSize: 100}
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and readiness
//   - handlers_health.go: health and readiness probes
//   - handlers_recommend.go: recommendations
//   - handlers_books.go: catalog browsing
//
// The recommender is installed once it is built, which lets the server
// answer liveness probes while a large catalog is still being embedded.
type Handler struct {
	config      HandlerConfig
	recommender atomic.Pointer[recommenderBox]
	startTime   time.Time
}

// recommenderBox lets an interface value live in an atomic.Pointer.
type recommenderBox struct {
	Recommender
}

// NewHandler creates a handler with no recommender installed.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultHandlerConfig().DefaultPageSize
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	return &Handler{config: cfg, startTime: time.Now()}
}

// SetRecommender installs the recommender and marks the service ready.
func (h *Handler) SetRecommender(r Recommender) {
	if r == nil {
		h.recommender.Store(nil)
		return
	}
	h.recommender.Store(&recommenderBox{r})
}

// Ready reports whether a recommender has been installed.
func (h *Handler) Ready() bool {
	return h.recommender.Load() != nil
}

func (h *Handler) engine() (Recommender, error) {
	box := h.recommender.Load()
	if box == nil {
		return nil, ErrNotReady
	}
	return box.Recommender, nil
}
