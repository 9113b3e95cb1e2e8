// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

/*
Package api provides the HTTP interface of Beautyflow on the Chi router.

# Endpoints

Conversation:
  - GET|POST /api/v1/chat/start: create a session, return the first question
  - POST /api/v1/chat/message: answer the current question
  - GET /api/v1/chat/questions: the full questionnaire with answer options

Clusters:
  - GET /api/v1/clusters/profiles: per-cluster attribute modes and build stats
  - POST /api/v1/clusters/rebuild: rebuild the pipeline from the profile store

Health and metrics:
  - GET /api/v1/health, /api/v1/health/live, /api/v1/health/ready
  - GET /metrics (Prometheus)

# Sessions

A chat message either names a stored session:

	{"session_id": "0f8fad5b-d9cb-469f-a165-70867728950e", "answer": "Grasse"}

or carries the state itself for a stateless round trip:

	{"step": 4, "answers": {"interest": "Oui", ...}, "answer": "Grasse"}

In stateless mode the response echoes the updated answers so the client can
send them back with the next message.

# Response Format

Every response uses the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "query_time_ms": 2}}

Errors set status to "error" and fill error.code with one of the codes in
errors.go.

# Middleware

Global: request id with logging context, RealIP, Recoverer, CORS and
Prometheus request metrics. Chat routes are rate limited per client IP with
go-chi/httprate; the rebuild route has a stricter budget.
*/
package api
