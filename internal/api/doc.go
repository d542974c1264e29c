// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

/*
Package api exposes the recommender over HTTP.

Routes:

	POST /recommend            {"text": "...", "k": 5} -> {"recommendations": [...]}
	POST /api/v1/recommend     same ranking in the envelope, gzip capable
	GET  /api/v1/books         catalog listing (limit, offset)
	GET  /api/v1/books/{id}    one book
	GET  /health               {"status": "healthy"}
	GET  /health/live          liveness probe
	GET  /health/ready         readiness probe, 503 until the index is built
	GET  /metrics              Prometheus
	GET  /swagger/*            API documentation

Responses under /api/v1 and /health/{live,ready} use the APIResponse
envelope. POST /recommend and GET /health keep the bare shapes older
clients parse; /recommend reports errors as {"detail": "..."}.
Errors map to statuses as follows:

	malformed body           400 BAD_REQUEST
	body over 64 KiB         413 PAYLOAD_TOO_LARGE
	InvalidQueryError        400 INVALID_QUERY
	EmbeddingError           422 EMBEDDING_FAILED
	DimensionMismatchError   500 DIMENSION_MISMATCH
	open circuit, timeout    503 SERVICE_UNAVAILABLE
*/
package api
