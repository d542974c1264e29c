// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// @title Book Recommender API
// @version 1.0
// @description Semantic book recommendations. Describe what you want to read and get the closest books from the catalog.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description
// @description ## Error Responses
// @description
// @description Envelope endpoints report errors as:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {"code": "INVALID_QUERY", "message": "text must not be empty", "request_id": "..."},
// @description   "meta": {"timestamp": "2026-01-01T00:00:00Z", "request_id": "..."}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/bookshelf/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /
// @schemes http https
//
// @tag.name Recommendations
// @tag.description Ranked book recommendations for free-text queries
//
// @tag.name Catalog
// @tag.description Browse the loaded catalog
//
// @tag.name Health
// @tag.description Liveness and readiness probes
package main
