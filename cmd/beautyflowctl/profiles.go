// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package main

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/beautyflow/internal/recommend"
)

func newProfilesCmd(opts *cliOptions) *cobra.Command {
	var shortlists bool

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Print the dominant answers of every cluster",
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

			out := cmd.OutOrStdout()
			profiles := p.Profiles()
			clusters := make([]int, 0, len(profiles))
			for c := range profiles {
				clusters = append(clusters, c)
			}
			sort.Ints(clusters)

			for _, c := range clusters {
				section(out, "Cluster %d", c)
				rows := make([][]string, 0, len(recommend.Attributes)+1)
				for _, a := range recommend.Attributes {
					rows = append(rows, []string{string(a), profiles[c][string(a)]})
				}
				rows = append(rows, []string{recommend.BudgetKey, profiles[c][recommend.BudgetKey]})
				table(out, []string{"ATTRIBUTE", "MODE"}, rows)

				if shortlists {
					products, _ := p.Shortlist(c)
					printProducts(cmd, products)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&shortlists, "shortlists", false, "also print each cluster's product shortlist")
	return cmd
}

func printProducts(cmd *cobra.Command, products []recommend.Product) {
	out := cmd.OutOrStdout()
	if len(products) == 0 {
		muted(out, "No products match this cluster.")
		return
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Brand,
			strconv.FormatInt(p.CategoryID, 10),
			strconv.FormatFloat(p.UnitPrice, 'f', 2, 64),
		})
	}
	table(out, []string{"ID", "NAME", "BRAND", "CATEGORY", "PRICE"}, rows)
}
