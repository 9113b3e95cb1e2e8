// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

/*
Package services provides suture.Service wrappers for beautyflow components.

Each wrapper implements suture's Service interface and fmt.Stringer:

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService adapts the ListenAndServe/Shutdown lifecycle of the chat
API server. SessionCleanupService sweeps expired questionnaire sessions on
a ticker and runs badger value log GC when the store supports it.

The domain event consumer (events.Consumer) already satisfies suture.Service
and is added to the tree directly.
*/
package services
