// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/bookshelf/docs" // Import generated swagger docs
	"github.com/tomtom215/bookshelf/internal/config"
	"github.com/tomtom215/bookshelf/internal/logging"
	"github.com/tomtom215/bookshelf/internal/metrics"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LogConfig())

	logging.Info().
		Str("version", version).
		Str("model", cfg.Embedding.Model).
		Str("catalog", cfg.Catalog.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Bookshelf")

	metrics.AppInfo.WithLabelValues(version, cfg.Embedding.Model).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}

	if err := a.run(ctx); err != nil {
		logging.Error().Err(err).Msg("Bookshelf stopped with an error")
		stop()
		os.Exit(1)
	}

	logging.Info().Msg("Application stopped gracefully")
}
