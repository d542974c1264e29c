// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/bookshelf/internal/embedding"
	"github.com/tomtom215/bookshelf/internal/index"
	"github.com/tomtom215/bookshelf/internal/logging"
	"github.com/tomtom215/bookshelf/internal/recommend"
)

// ErrNotReady is returned while the recommender is still being built.
var ErrNotReady = errors.New("recommender is not ready")

// errorStatus maps engine errors to an HTTP status, error code and a
// message that is safe to show to clients.
func errorStatus(err error) (status int, code, message string) {
	var invalid *recommend.InvalidQueryError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, ErrCodeInvalidQuery, invalid.Error()
	case errors.Is(err, ErrNotReady):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommender is still starting"
	case errors.Is(err, embedding.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Embedding provider is temporarily unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request timed out"
	case errors.Is(err, embedding.ErrEmbedding):
		return http.StatusUnprocessableEntity, ErrCodeEmbeddingFailed, "Query text could not be embedded"
	case errors.Is(err, index.ErrDimensionMismatch):
		return http.StatusInternalServerError, ErrCodeDimensionMismatch, "Embedding model does not match the index"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "Failed to generate recommendations"
	}
}

// respondEngineError logs err and writes the mapped error response.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := logEngineError(r, err)
	NewResponseWriter(w, r).Error(status, code, message)
}

// logEngineError logs err and returns its client-facing mapping.
func logEngineError(r *http.Request, err error) (status int, code, message string) {
	status, code, message = errorStatus(err)

	event := logging.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logging.Ctx(r.Context()).Error()
	}
	event.Str("error", sanitizeLogValue(err.Error())).Str("code", code).Int("status", status).Msg("API error")
	return status, code, message
}
