// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import "github.com/tomtom215/bookshelf/internal/catalog"

// maxQueryLength bounds the query text accepted over HTTP.
const maxQueryLength = 4096

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	// Text is the free-text description of what the reader wants.
	Text string `json:"text" validate:"max=4096" example:"a story about hunting whales"`

	// K is the number of books to return. Defaults to the configured default.
	K *int `json:"k,omitempty" validate:"omitempty,gte=0" example:"5"`
}

// RecommendResponse is the data of a successful recommendation.
type RecommendResponse struct {
	Recommendations []ScoredBook `json:"recommendations"`
}

// ScoredBook is a recommended book with its similarity to the query.
type ScoredBook struct {
	catalog.Book
	Score float64 `json:"score"`
}

// BooksRequest holds validated catalog listing parameters.
type BooksRequest struct {
	Limit  int `validate:"min=1,max=1000"`
	Offset int `validate:"min=0"`
}

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status string `json:"status" example:"healthy"`
}

// ReadyStatus is the payload of GET /health/ready.
type ReadyStatus struct {
	Ready      bool    `json:"ready"`
	Books      int     `json:"books,omitempty"`
	Model      string  `json:"model,omitempty"`
	Dimensions int     `json:"dimensions,omitempty"`
	BuiltAt    string  `json:"built_at,omitempty"`
	Uptime     float64 `json:"uptime"`
}
