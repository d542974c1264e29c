// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// BuildServiceConfig holds configuration for a BuildService.
type BuildServiceConfig struct {
	// Name identifies the service in supervisor events.
	// Default: "build"
	Name string

	// Timeout bounds the build. Zero means no limit beyond the Serve context.
	Timeout time.Duration
}

// BuildService builds a value once and hands it to install.
//
// Success ends with suture.ErrDoNotRestart. A failed build ends with
// suture.ErrTerminateSupervisorTree and the cause is kept for Err.
// A build interrupted by shutdown returns the context error and installs
// nothing.
type BuildService[T any] struct {
	build   func(context.Context) (T, error)
	install func(T)
	config  BuildServiceConfig
	logger  zerolog.Logger

	once sync.Once
	done chan struct{}
	mu   sync.Mutex
	err  error
}

// NewBuildService creates a one-shot build service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuildService[T any](build func(context.Context) (T, error), install func(T), cfg BuildServiceConfig, logger zerolog.Logger) *BuildService[T] {
	if cfg.Name == "" {
		cfg.Name = "build"
	}
	return &BuildService[T]{
		build:   build,
		install: install,
		config:  cfg,
		logger:  logger.With().Str("service", cfg.Name).Logger(),
		done:    make(chan struct{}),
	}
}

// Serve implements suture.Service.
func (s *BuildService[T]) Serve(ctx context.Context) error {
	buildCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		buildCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Info().Msg("build starting")

	v, err := s.build(buildCtx)
	if err != nil {
		if ctx.Err() != nil {
			s.logger.Info().Msg("build interrupted by shutdown")
			return ctx.Err()
		}
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("build failed")
		s.finish(err)
		return suture.ErrTerminateSupervisorTree
	}

	s.install(v)
	s.logger.Info().Dur("duration", time.Since(start)).Msg("build complete")
	s.finish(nil)
	return suture.ErrDoNotRestart
}

func (s *BuildService[T]) finish(err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		close(s.done)
	})
}

// Done is closed once the build has succeeded or failed.
func (s *BuildService[T]) Done() <-chan struct{} {
	return s.done
}

// Err returns the build failure, or nil.
func (s *BuildService[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// String returns the service name for logging.
func (s *BuildService[T]) String() string {
	return s.config.Name
}
