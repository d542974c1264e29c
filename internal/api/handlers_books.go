// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/bookshelf/internal/catalog"
)

// Books handles GET /api/v1/books.
//
// @Summary List catalog books
// @Tags Catalog
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Items to skip" default(0)
// @Success 200 {object} APIResponse{data=[]catalog.Book} "Books in catalog order"
// @Failure 400 {object} APIResponse "Invalid pagination"
// @Failure 503 {object} APIResponse "Service starting"
// @Router /api/v1/books [get]
func (h *Handler) Books(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, okLimit := getIntParam(r, "limit", h.config.DefaultPageSize)
	offset, okOffset := getIntParam(r, "offset", 0)
	if !okLimit || !okOffset {
		rw.BadRequest("limit and offset must be integers")
		return
	}
	req := BooksRequest{Limit: limit, Offset: offset}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}
	req.Limit = min(req.Limit, h.config.MaxPageSize)

	engine, err := h.engine()
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	all := engine.Catalog().Books()
	start := min(req.Offset, len(all))
	end := min(start+req.Limit, len(all))
	page := all[start:end]
	if page == nil {
		page = []catalog.Book{}
	}

	rw.SuccessWithPagination(page, &PaginationMeta{
		Total:   len(all),
		Count:   len(page),
		Offset:  req.Offset,
		Limit:   req.Limit,
		HasMore: end < len(all),
	})
}

// Book handles GET /api/v1/books/{id}.
//
// @Summary Get one book
// @Tags Catalog
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} APIResponse{data=catalog.Book} "The book"
// @Failure 404 {object} APIResponse "No such book"
// @Failure 503 {object} APIResponse "Service starting"
// @Router /api/v1/books/{id} [get]
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	engine, err := h.engine()
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	book, _, ok := engine.Catalog().Lookup(id)
	if !ok {
		NewResponseWriter(w, r).NotFound("book not found")
		return
	}
	NewResponseWriter(w, r).Success(book)
}
