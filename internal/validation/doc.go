// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built lazily and shared. Messages use the
// json names of the request fields, and errors convert to the API's
// VALIDATION_ERROR shape through ToAPIError.
//
// Custom tags:
//   - nocontrol: string contains no control characters besides \n, \r and \t
//
// Example:
//
//	type ChatMessageRequest struct {
//	    SessionID string            `json:"session_id" validate:"omitempty,uuid"`
//	    Answers   map[string]string `json:"answers" validate:"omitempty,dive,keys,max=64,nocontrol,endkeys"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
