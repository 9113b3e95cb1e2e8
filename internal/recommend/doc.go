// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

// Package recommend implements the clustering-based product recommender and
// the conversational questionnaire that feeds it.
//
// # Architecture
//
// A Pipeline is built once from the respondent population and the catalog:
//
//   - Encoder: one-hot encoding of the fixed preference attributes.
//     Categories unseen at fit time encode to an all-zero block.
//   - Clusterer: seeded k-means (k-means++ initialization) over the
//     encoded population. Predict reuses the learned centroids.
//   - RecommendationTable: per-cluster shortlist, filtered by the price
//     bands of the budget tiers observed in the cluster and ranked by
//     category purchase frequency.
//
// The Conversation walks a fixed question sequence. Session state is a
// value passed in and returned by Advance; the final answer triggers the
// lookup against the current pipeline.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), source, logger)
//	if err := engine.Build(ctx); err != nil {
//	    // abort startup
//	}
//
//	conv := recommend.NewConversation(nil, engine)
//	session, turn := conv.Start()
//	session, turn, err = conv.Advance(session, "Hydratation")
//
// # Thread Safety
//
// Pipelines are immutable. The Engine swaps a freshly built pipeline in
// atomically; builds are single-flight and a failed build leaves the
// previous pipeline serving.
package recommend
