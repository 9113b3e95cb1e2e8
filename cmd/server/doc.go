// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

/*
Package main is the entry point for the beautyflow server.

beautyflow profiles beauty shoppers through a short French questionnaire,
assigns each respondent to a k-means preference cluster learned from the
survey population in DuckDB, and answers with a budget-filtered shortlist
of products popular in that cluster.

# Startup Order

 1. Configuration: koanf layers (defaults, config.yaml, environment)
 2. Logging: zerolog, with a slog bridge for suture and watermill
 3. Database: DuckDB users and products tables, seeded from CSV when empty
 4. Events: in-process watermill bus (EVENTS_ENABLED)
 5. Recommendation engine: circuit-broken DuckDB source, build hooks for
    metrics and pipeline.built events, optional build on startup
 6. Session store: memory or badger
 7. HTTP API: chi router with CORS, rate limiting and Prometheus metrics

# Supervisor Tree

	RootSupervisor ("beautyflow")
	├── DataSupervisor ("data-layer")
	│   └── SessionCleanupService
	├── MessagingSupervisor ("messaging-layer")
	│   └── events.Consumer (if EVENTS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
HTTP_SHUTDOWN_TIMEOUT, then the event bus, session store and database
are closed in that order.

# Example

	export DUCKDB_PATH=./data/beautyflow.duckdb
	export SEED_USERS_CSV=./data/users.csv
	export SEED_PRODUCTS_CSV=./data/products.csv
	export SESSION_STORE=memory
	./beautyflow

	curl -s -X POST localhost:8080/api/v1/chat/start
*/
package main
