// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

/*
Package database is the DuckDB profile store.

It holds two tables: users (one row per questionnaire respondent, with
eleven preference answers, a budget label and a comma-separated purchase
history) and products (the catalog). DB implements recommend.ProfileSource;
BreakerSource wraps any ProfileSource in a circuit breaker.

Empty tables can be seeded from CSV exports on startup:

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	if _, err := db.SeedFromCSV(ctx); err != nil {
		return err
	}
*/
package database
