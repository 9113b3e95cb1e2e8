// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/beautyflow/internal/models"
)

// healthCheckTimeout bounds dependency checks in health probes.
const healthCheckTimeout = 2 * time.Second

// Health handles GET /api/v1/health
//
// @Summary Get system health status
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	health := h.collectHealth(r.Context())

	health.Status = "healthy"
	if !health.DatabaseConnected || !health.PipelineReady {
		health.Status = "degraded"
	}
	respondSuccess(w, r, http.StatusOK, health, start)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only once a pipeline has been built; 503 otherwise.
//
// @Summary Kubernetes readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	health := h.collectHealth(r.Context())

	statusCode := http.StatusOK
	health.Status = "ready"
	if !health.PipelineReady {
		statusCode = http.StatusServiceUnavailable
		health.Status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: health.Status,
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

func (h *Handler) collectHealth(ctx context.Context) models.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	health := models.HealthStatus{
		PipelineReady:   h.engine.Ready(),
		PipelineVersion: h.engine.Version(),
		Uptime:          time.Since(h.startTime).Seconds(),
	}
	if h.db != nil {
		health.DatabaseConnected = h.db.Ping(ctx) == nil
	}
	if h.sessions != nil {
		if n, err := h.sessions.Count(ctx); err == nil {
			health.ActiveSessions = n
		}
	}
	return health
}
