// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tomtom215/beautyflow/internal/config"
	"github.com/tomtom215/beautyflow/internal/database"
	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/recommend"
)

// cliOptions holds the persistent flags and the config they resolve to.
type cliOptions struct {
	configPath string
	dbPath     string
	clusters   int
	noColor    bool
	verbose    bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "beautyflowctl",
		Short: "Offline tooling for the beautyflow recommender",
		Long: `beautyflowctl seeds the DuckDB profile store from CSV exports, builds the
clustering pipeline in process and prints its clusters, shortlists and
recommendations. It reads the same config file and environment as the server.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.load,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path (overrides "+config.ConfigPathEnvVar+")")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "DuckDB file (overrides DUCKDB_PATH)")
	root.PersistentFlags().IntVarP(&opts.clusters, "clusters", "k", 0, "number of clusters (overrides RECOMMEND_CLUSTERS)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline progress to stderr")

	root.AddCommand(
		newSeedCmd(opts),
		newBuildCmd(opts),
		newProfilesCmd(opts),
		newRecommendCmd(opts),
		newQuestionsCmd(),
	)
	return root
}

// load resolves configuration and logging before any subcommand runs.
func (o *cliOptions) load(cmd *cobra.Command, _ []string) error {
	if o.noColor {
		color.NoColor = true
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console", Timestamp: true, Output: cmd.ErrOrStderr()})

	if o.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, o.configPath); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.clusters > 0 {
		cfg.Recommend.Clusters = o.clusters
	}
	o.cfg = cfg
	return nil
}

// openDB opens the profile store named by the resolved config.
func (o *cliOptions) openDB() (*database.DB, error) {
	db, err := database.New(&o.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// buildPipeline loads the population from db and builds a pipeline once.
func (o *cliOptions) buildPipeline(ctx context.Context, db *database.DB) (*recommend.Pipeline, error) {
	engine, err := recommend.NewEngine(o.cfg.Recommend.EngineConfig(), db, logging.Logger())
	if err != nil {
		return nil, err
	}
	if err := engine.Build(ctx); err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	return engine.Pipeline()
}

// closeDB closes db and reports the error on stderr.
func closeDB(cmd *cobra.Command, db *database.DB) {
	if err := db.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "close database: %v\n", err)
	}
}
