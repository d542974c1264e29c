// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package recommend

import (
	"context"
	"errors"

	"github.com/tomtom215/bookshelf/internal/embedding"
	"github.com/tomtom215/bookshelf/internal/index"
)

// ErrInvalidQuery is matched by every *InvalidQueryError.
var ErrInvalidQuery = errors.New("invalid query")

// InvalidQueryError reports query text that cannot be answered meaningfully.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string { return "invalid query: " + e.Reason }

// Is makes errors.Is(err, ErrInvalidQuery) match.
func (e *InvalidQueryError) Is(target error) bool { return target == ErrInvalidQuery }

// Outcome labels used for metrics and logs.
const (
	OutcomeSuccess           = "success"
	OutcomeInvalidQuery      = "invalid_query"
	OutcomeEmbeddingError    = "embedding_error"
	OutcomeDimensionMismatch = "dimension_mismatch"
	OutcomeCanceled          = "canceled"
	OutcomeError             = "error"
)

// Outcome classifies err into one of the Outcome labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrInvalidQuery):
		return OutcomeInvalidQuery
	case errors.Is(err, index.ErrDimensionMismatch):
		return OutcomeDimensionMismatch
	case errors.Is(err, embedding.ErrEmbedding):
		return OutcomeEmbeddingError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}
