// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import (
	"fmt"
	"time"
)

// Defaults for pipeline construction.
const (
	DefaultClusters      = 5
	DefaultSeed          = 42
	DefaultMaxIterations = 300
	DefaultPerCategory   = 2
	DefaultShortlistCap  = 5
	DefaultBuildTimeout  = 2 * time.Minute
)

// Config contains all configuration for building the recommendation pipeline.
type Config struct {
	// Clusters is the number of preference clusters (K). Must be >= 2.
	Clusters int `json:"clusters"`

	// Seed is the random seed for k-means initialization.
	// If zero, DefaultSeed is used.
	Seed int64 `json:"seed"`

	// MaxIterations bounds the k-means refinement loop.
	MaxIterations int `json:"max_iterations"`

	// PerCategory is the maximum number of products taken from one category.
	PerCategory int `json:"per_category"`

	// ShortlistCap is the maximum number of products per cluster.
	ShortlistCap int `json:"shortlist_cap"`

	// BuildTimeout bounds the data loading phase of a build.
	BuildTimeout time.Duration `json:"build_timeout"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Clusters:      DefaultClusters,
		Seed:          DefaultSeed,
		MaxIterations: DefaultMaxIterations,
		PerCategory:   DefaultPerCategory,
		ShortlistCap:  DefaultShortlistCap,
		BuildTimeout:  DefaultBuildTimeout,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Clusters < 2 {
		return fmt.Errorf("%w: clusters must be >= 2, got %d", ErrConfiguration, c.Clusters)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations must be positive", ErrConfiguration)
	}
	if c.PerCategory <= 0 {
		return fmt.Errorf("%w: per_category must be positive", ErrConfiguration)
	}
	if c.ShortlistCap <= 0 {
		return fmt.Errorf("%w: shortlist_cap must be positive", ErrConfiguration)
	}
	if c.BuildTimeout <= 0 {
		return fmt.Errorf("%w: build_timeout must be positive", ErrConfiguration)
	}
	return nil
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// TableOptions derives the table builder options.
func (c *Config) TableOptions() TableOptions {
	return TableOptions{
		PerCategory: c.PerCategory,
		Cap:         c.ShortlistCap,
	}
}
