// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSeedCmd(opts *cliOptions) *cobra.Command {
	var users, products string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load user and product CSV exports into empty tables",
		Long: `seed copies the CSV exports into the DuckDB profile store. Tables that
already hold rows are skipped, so running it twice is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if users != "" {
				opts.cfg.Database.UsersCSV = users
			}
			if products != "" {
				opts.cfg.Database.ProductsCSV = products
			}
			if opts.cfg.Database.UsersCSV == "" && opts.cfg.Database.ProductsCSV == "" {
				return fmt.Errorf("nothing to seed: pass --users or --products")
			}

			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer closeDB(cmd, db)

			res, err := db.SeedFromCSV(cmd.Context())
			if err != nil {
				return err
			}
			userCount, productCount, err := db.Counts(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Seeded %s", opts.cfg.Database.Path)
			table(out, []string{"TABLE", "LOADED", "TOTAL"}, [][]string{
				{"users", strconv.FormatInt(res.Users, 10), strconv.FormatInt(userCount, 10)},
				{"products", strconv.FormatInt(res.Products, 10), strconv.FormatInt(productCount, 10)},
			})
			if res.Users == 0 && res.Products == 0 {
				muted(out, "Tables were already populated; nothing was loaded.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&users, "users", "", "users CSV export (overrides SEED_USERS_CSV)")
	cmd.Flags().StringVar(&products, "products", "", "products CSV export (overrides SEED_PRODUCTS_CSV)")
	return cmd
}
