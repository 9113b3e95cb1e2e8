// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Session   SessionConfig   `koanf:"session"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// RateLimitReqs is the per-IP request budget for chat endpoints within RateLimitWindow.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DatabaseConfig holds the DuckDB profile store settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // Number of DuckDB threads (0 = use NumCPU)

	// UsersCSV and ProductsCSV seed empty tables on startup when set.
	UsersCSV    string `koanf:"users_csv"`
	ProductsCSV string `koanf:"products_csv"`

	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// RecommendConfig holds pipeline construction settings.
type RecommendConfig struct {
	Clusters      int           `koanf:"clusters"`
	Seed          int64         `koanf:"seed"`
	MaxIterations int           `koanf:"max_iterations"`
	PerCategory   int           `koanf:"per_category"`
	ShortlistCap  int           `koanf:"shortlist_cap"`
	BuildTimeout  time.Duration `koanf:"build_timeout"`

	// BuildOnStartup builds the pipeline before the HTTP server starts.
	// When false the first chat completion builds it lazily.
	BuildOnStartup bool `koanf:"build_on_startup"`
}

// SessionConfig holds conversation session storage settings.
type SessionConfig struct {
	// Store is "memory", "badger" or "redis".
	Store string `koanf:"store"`

	// Path is the badger directory.
	Path string `koanf:"path"`

	// RedisURL is a redis:// URL used when Store is "redis".
	RedisURL string `koanf:"redis_url"`

	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// EventsConfig holds in-process domain event settings.
type EventsConfig struct {
	Enabled    bool  `koanf:"enabled"`
	BufferSize int64 `koanf:"buffer_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}
