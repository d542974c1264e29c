// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/tomtom215/bookshelf/internal/api"
	"github.com/tomtom215/bookshelf/internal/config"
	"github.com/tomtom215/bookshelf/internal/embedding"
	"github.com/tomtom215/bookshelf/internal/logging"
	"github.com/tomtom215/bookshelf/internal/recommend"
	"github.com/tomtom215/bookshelf/internal/supervisor"
	"github.com/tomtom215/bookshelf/internal/supervisor/services"
)

// shutdownTimeout bounds the HTTP drain on shutdown.
const shutdownTimeout = 10 * time.Second

// app holds the wired server components.
type app struct {
	cfg     *config.Config
	handler *api.Handler
	server  *http.Server
	tree    *supervisor.SupervisorTree
	build   *services.BuildService[*recommend.Recommender]

	mu       sync.Mutex
	provider embedding.Provider
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{
		cfg:     cfg,
		handler: api.NewHandler(api.DefaultHandlerConfig()),
	}

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mwConfig.RequestTimeout = cfg.Server.Timeout

	router := api.NewRouter(a.handler, api.NewChiMiddleware(mwConfig))
	a.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Leave room for the handler timeout to produce a response.
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return nil, fmt.Errorf("create supervisor tree: %w", err)
	}
	a.tree = tree

	a.build = services.NewBuildService(
		a.buildRecommender,
		a.install,
		services.BuildServiceConfig{Name: "recommender-build"},
		logging.WithComponent("supervisor"),
	)
	tree.AddEngineService(a.build)
	tree.AddAPIService(services.NewHTTPServerService(a.server, shutdownTimeout).WithLogger(logging.Logger()))

	return a, nil
}

// buildRecommender opens the catalog and the embedding model and builds
// the index. On failure nothing is kept open.
func (a *app) buildRecommender(ctx context.Context) (*recommend.Recommender, error) {
	src, err := a.cfg.OpenCatalog()
	if err != nil {
		return nil, err
	}

	provider, err := embedding.New(ctx, a.cfg.EmbeddingProviderConfig(), logging.WithComponent("embedding"))
	if err != nil {
		return nil, err
	}

	rec, err := recommend.New(ctx, src, provider, a.cfg.RecommenderConfig(), logging.WithComponent("recommend"))
	if err != nil {
		if cerr := provider.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Error closing embedding provider")
		}
		return nil, err
	}

	a.mu.Lock()
	a.provider = provider
	a.mu.Unlock()
	return rec, nil
}

func (a *app) install(rec *recommend.Recommender) {
	a.handler.SetRecommender(rec)
	logging.Info().
		Int("books", rec.Catalog().Len()).
		Str("model", rec.Model()).
		Msg("Recommender installed, serving requests")
}

// run serves until ctx is canceled or the recommender build fails.
func (a *app) run(ctx context.Context) error {
	logging.Info().Str("addr", a.server.Addr).Msg("Starting supervisor tree")
	err := <-a.tree.ServeBackground(ctx)

	if unstopped, _ := a.tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	a.close()

	if buildErr := a.build.Err(); buildErr != nil {
		return fmt.Errorf("build recommender: %w", buildErr)
	}
	if err != nil && !errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}

func (a *app) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.provider == nil {
		return
	}
	if err := a.provider.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing embedding provider")
	}
	a.provider = nil
}
