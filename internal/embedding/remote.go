// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bookshelf/internal/metrics"
)

const probeText = "dimension probe"

// backend is one remote embedding API. It sees only non-blank, valid UTF-8
// texts and at most RemoteOptions.BatchSize of them per call.
type backend interface {
	embed(ctx context.Context, texts []string) ([][]float32, error)
	provider() string
	model() string
	close() error
}

// RemoteOptions tunes calls to a remote embedding API.
type RemoteOptions struct {
	// Dimensions is the expected vector length. Zero means learn it from a probe call.
	Dimensions int

	// BatchSize caps texts per backend call.
	BatchSize int

	// MaxConcurrency caps backend calls in flight across all callers.
	MaxConcurrency int

	// RateLimit caps backend calls per second. Zero disables limiting.
	RateLimit float64

	// Timeout bounds a single backend call.
	Timeout time.Duration

	Logger zerolog.Logger
}

// DefaultRemoteOptions returns the options used when none are configured.
func DefaultRemoteOptions() RemoteOptions {
	return RemoteOptions{
		BatchSize:      64,
		MaxConcurrency: 4,
		RateLimit:      0,
		Timeout:        30 * time.Second,
		Logger:         zerolog.Nop(),
	}
}

// remoteProvider adapts a backend to Provider. It handles blank texts
// locally, splits work into batches, and protects the backend with a
// semaphore, a rate limiter and a circuit breaker.
type remoteProvider struct {
	backend backend
	dims    int
	opts    RemoteOptions
	sem     *semaphore.Weighted
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[][]float32]
	logger  zerolog.Logger
}

func newRemoteProvider(ctx context.Context, b backend, opts RemoteOptions) (*remoteProvider, error) {
	defaults := DefaultRemoteOptions()
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaults.BatchSize
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = defaults.MaxConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	p := &remoteProvider{
		backend: b,
		opts:    opts,
		sem:     semaphore.NewWeighted(int64(opts.MaxConcurrency)),
		limiter: rate.NewLimiter(limit, opts.MaxConcurrency),
		logger:  opts.Logger.With().Str("component", "embedding").Str("provider", b.provider()).Logger(),
	}
	p.cb = newBreaker(b.provider()+"-embeddings", p.logger)

	if err := p.probe(ctx); err != nil {
		_ = b.close()
		return nil, err
	}
	return p, nil
}

// probe makes one real call so that a bad model, key or endpoint fails at
// startup instead of on the first request.
func (p *remoteProvider) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	start := time.Now()
	vecs, err := p.backend.embed(ctx, []string{probeText})
	metrics.RecordEmbeddingCall(p.backend.provider(), 1, time.Since(start), err)
	if err != nil {
		return &ModelUnavailableError{Model: p.Model(), Err: err}
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return &ModelUnavailableError{Model: p.Model(), Err: errors.New("probe returned no embedding")}
	}

	got := len(vecs[0])
	if p.opts.Dimensions > 0 && got != p.opts.Dimensions {
		return &ModelUnavailableError{
			Model: p.Model(),
			Err:   fmt.Errorf("model returned %d dimensions, configured %d", got, p.opts.Dimensions),
		}
	}
	p.dims = got

	p.logger.Info().Str("model", p.Model()).Int("dimensions", got).Msg("Embedding model ready")
	return nil
}

func (p *remoteProvider) Dimensions() int { return p.dims }

func (p *remoteProvider) Model() string { return p.backend.provider() + ":" + p.backend.model() }

func (p *remoteProvider) Close() error { return p.backend.close() }

func (p *remoteProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return embedOne(ctx, p, text)
}

func (p *remoteProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	// Positions of texts that actually need the backend.
	pending := make([]int, 0, len(texts))
	for i, text := range texts {
		if !utf8.ValidString(text) {
			return nil, &EmbeddingError{Model: p.Model(), Index: i, Err: errors.New("text is not valid UTF-8")}
		}
		if IsBlank(text) {
			out[i] = Zero(p.dims)
			continue
		}
		pending = append(pending, i)
	}

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(pending); lo += p.opts.BatchSize {
		hi := min(lo+p.opts.BatchSize, len(pending))
		chunk := pending[lo:hi]

		g.Go(func() error {
			batch := make([]string, len(chunk))
			for j, pos := range chunk {
				batch[j] = texts[pos]
			}
			vecs, err := p.call(gctx, batch)
			if err != nil {
				return err
			}
			for j, pos := range chunk {
				out[pos] = vecs[j]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// call sends one batch to the backend and checks the shape of the reply.
func (p *remoteProvider) call(ctx context.Context, batch []string) ([][]float32, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vecs, err := p.cb.Execute(func() ([][]float32, error) {
		callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()

		start := time.Now()
		vecs, err := p.backend.embed(callCtx, batch)
		metrics.RecordEmbeddingCall(p.backend.provider(), len(batch), time.Since(start), err)
		return vecs, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			p.logger.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, &EmbeddingError{Model: p.Model(), Index: -1, Err: fmt.Errorf("%w: %w", ErrProviderUnavailable, err)}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &EmbeddingError{Model: p.Model(), Index: -1, Err: err}
	}

	if len(vecs) != len(batch) {
		return nil, &EmbeddingError{
			Model: p.Model(),
			Index: -1,
			Err:   fmt.Errorf("backend returned %d embeddings for %d texts", len(vecs), len(batch)),
		}
	}
	for j, v := range vecs {
		if len(v) != p.dims {
			return nil, &EmbeddingError{
				Model: p.Model(),
				Index: -1,
				Err:   fmt.Errorf("embedding %d has %d dimensions, want %d", j, len(v), p.dims),
			}
		}
	}
	return vecs, nil
}

// newBreaker opens after a 60% failure rate over at least 10 calls and
// probes again after two minutes.
func newBreaker(name string, logger zerolog.Logger) *gobreaker.CircuitBreaker[[][]float32] {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[[][]float32](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// Cancellation is the caller's doing, not the backend's.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
