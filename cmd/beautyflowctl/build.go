// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package main

import (
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/beautyflow/internal/recommend"
)

func newBuildCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the pipeline once and print its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer closeDB(cmd, db)

			p, err := opts.buildPipeline(cmd.Context(), db)
			if err != nil {
				return err
			}
			printStats(cmd, p.Stats())
			return nil
		},
	}
}

func printStats(cmd *cobra.Command, stats recommend.Stats) {
	out := cmd.OutOrStdout()
	success(out, "Pipeline built at %s", stats.BuiltAt.Format(time.RFC3339))
	table(out, []string{"POPULATION", "PRODUCTS", "CLUSTERS", "FEATURES"}, [][]string{{
		strconv.Itoa(stats.Population),
		strconv.Itoa(stats.Products),
		strconv.Itoa(stats.Clusters),
		strconv.Itoa(stats.FeatureWidth),
	}})

	section(out, "Cluster sizes")
	clusters := make([]int, 0, len(stats.ClusterSizes))
	for c := range stats.ClusterSizes {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)
	rows := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		rows = append(rows, []string{strconv.Itoa(c), strconv.Itoa(stats.ClusterSizes[c])})
	}
	table(out, []string{"CLUSTER", "USERS"}, rows)
}
