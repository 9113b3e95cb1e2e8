// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/beautyflow/internal/recommend"
	"github.com/tomtom215/beautyflow/internal/session"
)

// Error codes for API responses
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeSessionNotFound  = "SESSION_NOT_FOUND"
	ErrCodeInvalidState     = "INVALID_STATE"
	ErrCodeBuildInProgress  = "BUILD_IN_PROGRESS"
	ErrCodeConfiguration    = "CONFIGURATION_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeDataUnavailable  = "DATA_UNAVAILABLE"
	ErrCodePipelineNotReady = "PIPELINE_NOT_READY"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
)

// errorMapping is the HTTP rendition of a domain error.
type errorMapping struct {
	status  int
	code    string
	message string
}

// mapError translates domain sentinels into status, code and client message.
// Order matters: a not-ready error wrapping data-unavailable reports the
// more specific cause first.
func mapError(err error) errorMapping {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return errorMapping{http.StatusNotFound, ErrCodeSessionNotFound, "Session not found or expired"}
	case errors.Is(err, recommend.ErrInvalidState):
		return errorMapping{http.StatusConflict, ErrCodeInvalidState, "Questionnaire already complete"}
	case errors.Is(err, recommend.ErrBuildInProgress):
		return errorMapping{http.StatusConflict, ErrCodeBuildInProgress, "A pipeline build is already running"}
	case errors.Is(err, recommend.ErrDataUnavailable):
		return errorMapping{http.StatusServiceUnavailable, ErrCodeDataUnavailable, "Profile data is unavailable"}
	case errors.Is(err, recommend.ErrNotReady):
		return errorMapping{http.StatusServiceUnavailable, ErrCodePipelineNotReady, "Recommendation pipeline is not built yet"}
	case errors.Is(err, recommend.ErrConfiguration):
		return errorMapping{http.StatusInternalServerError, ErrCodeConfiguration, "Recommendation pipeline is misconfigured"}
	case errors.Is(err, context.DeadlineExceeded):
		return errorMapping{http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out"}
	default:
		return errorMapping{http.StatusInternalServerError, ErrCodeInternal, "Internal server error"}
	}
}
