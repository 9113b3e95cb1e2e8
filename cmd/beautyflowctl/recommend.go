// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/beautyflow/internal/recommend"
)

func newRecommendCmd(opts *cliOptions) *cobra.Command {
	var answers []string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend products for a set of questionnaire answers",
		Long: `recommend builds the pipeline and predicts the cluster for the given
answers. Keys are the question keys printed by "beautyflowctl questions";
unanswered questions count as unknown.`,
		Example: `  beautyflowctl recommend -a skin_type=Sèche -a budget=Faible`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := parseAnswers(answers)
			if err != nil {
				return err
			}

			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer closeDB(cmd, db)

			p, err := opts.buildPipeline(cmd.Context(), db)
			if err != nil {
				return err
			}
			products, cluster, err := p.Recommend(parsed)
			if err != nil {
				return err
			}

			section(cmd.OutOrStdout(), "Cluster %d", cluster)
			printProducts(cmd, products)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&answers, "answer", "a", nil, "answer as key=value (repeatable)")
	return cmd
}

// parseAnswers turns key=value pairs into an answer map. Keys must name a
// questionnaire step; later pairs override earlier ones.
func parseAnswers(pairs []string) (map[string]string, error) {
	known := make(map[string]bool)
	for _, q := range recommend.DefaultQuestions() {
		known[q.Key] = true
	}

	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid answer %q: want key=value", pair)
		}
		if !known[key] {
			return nil, fmt.Errorf("unknown question key %q (valid: %s)", key, strings.Join(sortedKeys(known), ", "))
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
