// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import "errors"

// Sentinel errors. Concrete failures wrap one of these; match with errors.Is.
var (
	// ErrConfiguration reports an invalid build parameter, such as a cluster
	// count larger than the population. Fatal at build time.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidState reports a conversation operation against a completed session.
	ErrInvalidState = errors.New("invalid state")

	// ErrDataUnavailable reports that the profile store or catalog returned no rows.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInternalConsistency reports a violated clustering or table invariant.
	ErrInternalConsistency = errors.New("internal consistency error")

	// ErrNotReady is returned when no pipeline has been built yet.
	ErrNotReady = errors.New("recommendation pipeline not built")

	// ErrBuildInProgress is returned when a build is requested while another runs.
	ErrBuildInProgress = errors.New("pipeline build already in progress")
)
