// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// failFunc writes an error response in the format of the calling endpoint.
type failFunc func(status int, code, message string, details interface{})

// ErrorDetail is the error body of POST /recommend. It matches the
// {"detail": "..."} shape existing clients of that endpoint parse.
type ErrorDetail struct {
	Detail string `json:"detail" example:"text must not be empty"`
}

// Recommend handles POST /api/v1/recommend.
//
// @Summary Recommend books for a free-text query
// @Description Embeds the query text and returns the k most similar books, best first.
// @Description k defaults to the configured default and may not exceed the configured maximum.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "Query"
// @Success 200 {object} APIResponse{data=RecommendResponse} "Ranked books"
// @Failure 400 {object} APIResponse "Invalid body, empty text or k out of range"
// @Failure 413 {object} APIResponse "Request body too large"
// @Failure 422 {object} APIResponse "Query text could not be embedded"
// @Failure 503 {object} APIResponse "Service starting or provider unavailable"
// @Router /api/v1/recommend [post]
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	books, ok := h.recommend(w, r, rw.ErrorWithDetails)
	if !ok {
		return
	}
	rw.Success(RecommendResponse{Recommendations: books})
}

// RecommendLegacy handles POST /recommend. It answers with the bare
// {"recommendations": [...]} object instead of the API envelope.
//
// @Summary Recommend books (unversioned)
// @Description Same ranking as /api/v1/recommend without the response envelope.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "Query"
// @Success 200 {object} RecommendResponse "Ranked books"
// @Failure 400 {object} ErrorDetail "Invalid body, empty text or k out of range"
// @Failure 413 {object} ErrorDetail "Request body too large"
// @Failure 422 {object} ErrorDetail "Query text could not be embedded"
// @Failure 503 {object} ErrorDetail "Service starting or provider unavailable"
// @Router /recommend [post]
func (h *Handler) RecommendLegacy(w http.ResponseWriter, r *http.Request) {
	fail := func(status int, _, message string, _ interface{}) {
		writeRawJSON(w, r, status, ErrorDetail{Detail: message})
	}
	books, ok := h.recommend(w, r, fail)
	if !ok {
		return
	}
	writeRawJSON(w, r, http.StatusOK, RecommendResponse{Recommendations: books})
}

// recommend decodes and validates the request and ranks the catalog.
// On failure it reports through fail and returns false.
func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, fail failFunc) ([]ScoredBook, bool) {
	var req RecommendRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		if errors.Is(err, ErrBodyTooLarge) {
			fail(http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, err.Error(), nil)
		} else {
			fail(http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		}
		return nil, false
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		fail(http.StatusBadRequest, ErrCodeValidationFailed, apiErr.Message, apiErr.Details)
		return nil, false
	}

	engine, err := h.engine()
	if err != nil {
		status, code, message := logEngineError(r, err)
		fail(status, code, message, nil)
		return nil, false
	}

	k := engine.DefaultK()
	if req.K != nil {
		k = *req.K
	}
	if k > engine.MaxK() {
		fail(http.StatusBadRequest, ErrCodeValidationFailed,
			fmt.Sprintf("k must be less than or equal to %d", engine.MaxK()),
			map[string]interface{}{"field": "k", "tag": "lte"})
		return nil, false
	}

	recs, err := engine.Recommend(r.Context(), req.Text, k)
	if err != nil {
		status, code, message := logEngineError(r, err)
		fail(status, code, message, nil)
		return nil, false
	}

	books := make([]ScoredBook, len(recs))
	for i, rec := range recs {
		books[i] = ScoredBook{Book: rec.Book, Score: rec.Score}
	}
	return books, true
}
