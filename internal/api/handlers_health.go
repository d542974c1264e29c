// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package api

import (
	"net/http"
	"time"
)

// Health handles GET /health.
//
// @Summary Service health
// @Description Returns {"status": "healthy"} once the recommender is built, 503 with "starting" before that.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthStatus "Service is healthy"
// @Failure 503 {object} HealthStatus "Service is starting"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.Ready() {
		writeRawJSON(w, r, http.StatusServiceUnavailable, HealthStatus{Status: "starting"})
		return
	}
	writeRawJSON(w, r, http.StatusOK, HealthStatus{Status: "healthy"})
}

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of readiness.
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 OK only once the catalog is embedded and indexed.
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=ReadyStatus} "Service is ready"
// @Failure 503 {object} APIResponse{data=ReadyStatus} "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := ReadyStatus{Uptime: time.Since(h.startTime).Seconds()}

	engine, err := h.engine()
	if err != nil {
		NewResponseWriter(w, r).SuccessWithMeta(http.StatusServiceUnavailable, status, nil)
		return
	}

	status.Ready = true
	status.Books = engine.Catalog().Len()
	status.Model = engine.Model()
	status.Dimensions = engine.Dimensions()
	status.BuiltAt = engine.BuiltAt().UTC().Format(time.RFC3339)
	NewResponseWriter(w, r).Success(status)
}
