// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package config

import "github.com/tomtom215/beautyflow/internal/recommend"

// EngineConfig maps the recommend section onto the engine configuration.
// A zero BuildTimeout keeps the engine default.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	ec := recommend.DefaultConfig()
	ec.Clusters = r.Clusters
	ec.Seed = r.Seed
	ec.MaxIterations = r.MaxIterations
	ec.PerCategory = r.PerCategory
	ec.ShortlistCap = r.ShortlistCap
	if r.BuildTimeout > 0 {
		ec.BuildTimeout = r.BuildTimeout
	}
	return ec
}
