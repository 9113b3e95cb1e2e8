// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

/*
Package config provides centralized configuration management for Beautyflow.

Configuration is loaded by LoadWithKoanf in three layers, later layers
overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/beautyflow/config.yaml)
 3. Environment variables

# Environment Variables

HTTP Server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - CORS_ORIGINS: comma-separated allowed origins
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Profile store (DuckDB):
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS, DUCKDB_QUERY_TIMEOUT
  - SEED_USERS_CSV, SEED_PRODUCTS_CSV: seed empty tables from CSV exports

Recommendation pipeline:
  - RECOMMEND_CLUSTERS (default 5), RECOMMEND_SEED (default 42)
  - RECOMMEND_MAX_ITERATIONS, RECOMMEND_PER_CATEGORY, RECOMMEND_SHORTLIST_CAP
  - RECOMMEND_BUILD_TIMEOUT, RECOMMEND_BUILD_ON_STARTUP

Conversation sessions:
  - SESSION_STORE: memory, badger or redis (default badger)
  - SESSION_STORE_PATH (badger), SESSION_REDIS_URL (redis)
  - SESSION_TTL, SESSION_CLEANUP_INTERVAL

Events:
  - EVENTS_ENABLED, EVENTS_BUFFER_SIZE

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
