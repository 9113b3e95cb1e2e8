// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/models"
)

// ClusterProfiles handles GET /api/v1/clusters/profiles.
// Returns the most frequent answer per attribute for every non-empty cluster.
//
// @Summary Inspect cluster profiles
// @Tags Clusters
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ClusterProfiles}
// @Failure 503 {object} models.APIResponse "PIPELINE_NOT_READY"
// @Router /clusters/profiles [get]
func (h *Handler) ClusterProfiles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	pipeline, err := h.engine.Pipeline()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.ClusterProfiles{
		Version:  h.engine.Version(),
		Stats:    pipeline.Stats(),
		Profiles: pipeline.Profiles(),
	}, start)
}

// ClusterRebuild handles POST /api/v1/clusters/rebuild.
// Rebuilds the pipeline from the profile store and swaps it in atomically.
// Sessions in flight keep answering against whichever pipeline is current.
//
// @Summary Rebuild the recommendation pipeline
// @Tags Clusters
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.RebuildResult}
// @Failure 409 {object} models.APIResponse "BUILD_IN_PROGRESS"
// @Failure 503 {object} models.APIResponse "DATA_UNAVAILABLE"
// @Router /clusters/rebuild [post]
func (h *Handler) ClusterRebuild(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// The engine bounds the build with its own timeout.
	if err := h.engine.Build(context.WithoutCancel(r.Context())); err != nil {
		respondDomainError(w, r, err)
		return
	}

	pipeline, err := h.engine.Pipeline()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	version := h.engine.Version()
	logging.Ctx(r.Context()).Info().Int64("version", version).Msg("Pipeline rebuilt on request")

	respondSuccess(w, r, http.StatusOK, models.RebuildResult{
		Version:    version,
		DurationMS: time.Since(start).Milliseconds(),
		Stats:      pipeline.Stats(),
	}, start)
}
