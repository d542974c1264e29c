// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultShutdownTimeout bounds the drain of in-flight requests.
const DefaultShutdownTimeout = 10 * time.Second

// HTTPServerService serves an *http.Server under a supervisor.
//
// The listener is bound before the server is reported as listening, so a
// taken port fails Serve at once and Addr is the real address even for
// ":0". Cancelling the Serve context drains in-flight requests through
// Shutdown; connections still open after the shutdown timeout are closed.
//
//	server := &http.Server{Addr: ":8000", Handler: router}
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
type HTTPServerService struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          zerolog.Logger
	name            string

	mu        sync.Mutex
	addr      string
	listening chan struct{}
	once      sync.Once
}

// NewHTTPServerService wraps server. A non-positive shutdownTimeout means
// DefaultShutdownTimeout.
func NewHTTPServerService(server *http.Server, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		logger:          zerolog.Nop(),
		name:            "http-server",
		listening:       make(chan struct{}),
	}
}

// WithLogger sets the logger used for lifecycle messages.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (h *HTTPServerService) WithLogger(logger zerolog.Logger) *HTTPServerService {
	h.logger = logger.With().Str("service", h.name).Logger()
	return h
}

// Listening is closed once the listener has been bound the first time.
func (h *HTTPServerService) Listening() <-chan struct{} {
	return h.listening
}

// Addr returns the bound listen address, or "" before the first bind.
func (h *HTTPServerService) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.addr
}

// Serve implements suture.Service.
//
// It returns ctx.Err() after a graceful shutdown and nil when the server
// was closed by someone else.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	addr := h.server.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("http server listen on %s: %w", addr, err)
	}

	h.mu.Lock()
	h.addr = ln.Addr().String()
	h.mu.Unlock()
	h.once.Do(func() { close(h.listening) })
	h.logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)

	case <-ctx.Done():
		return h.shutdown(ctx, errCh)
	}
}

func (h *HTTPServerService) shutdown(ctx context.Context, errCh <-chan error) error {
	h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("HTTP server shutting down")

	// ctx is already canceled; the drain gets its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	err := h.server.Shutdown(shutdownCtx)
	<-errCh
	if err != nil {
		if closeErr := h.server.Close(); closeErr != nil {
			h.logger.Warn().Err(closeErr).Msg("HTTP server close failed")
		}
		h.logger.Warn().Err(err).Msg("HTTP server forced closed after shutdown timeout")
		return fmt.Errorf("http server shutdown: %w", err)
	}

	h.logger.Info().Msg("HTTP server stopped")
	return ctx.Err()
}

// String implements fmt.Stringer; suture names the service with it.
func (h *HTTPServerService) String() string {
	return h.name
}
