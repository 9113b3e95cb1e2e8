// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package database

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tomtom215/beautyflow/internal/logging"
)

// SeedResult reports rows loaded by SeedFromCSV.
type SeedResult struct {
	Users    int64
	Products int64
}

// SeedFromCSV loads the configured CSV exports into tables that are still
// empty. Tables that already hold rows are left untouched, so the call is
// safe on every startup. CSV headers must use the table column names;
// missing optional columns are left NULL.
func (db *DB) SeedFromCSV(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	n, err := db.seedTable(ctx, usersTable, db.cfg.UsersCSV)
	if err != nil {
		return res, err
	}
	res.Users = n

	n, err = db.seedTable(ctx, productsTable, db.cfg.ProductsCSV)
	if err != nil {
		return res, err
	}
	res.Products = n

	return res, nil
}

func (db *DB) seedTable(ctx context.Context, table, path string) (int64, error) {
	if strings.TrimSpace(path) == "" {
		return 0, nil
	}

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	var existing int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&existing); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	if existing > 0 {
		logging.Debug().Str("table", table).Int64("rows", existing).Msg("Table already populated, skipping CSV seed")
		return 0, nil
	}

	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("seed file for %s: %w", table, err)
	}

	// Table functions do not accept bound parameters for the file name.
	query := fmt.Sprintf(
		"INSERT INTO %s BY NAME SELECT * FROM read_csv_auto(%s, header = true, all_varchar = true)",
		table, quoteLiteral(path),
	)
	result, err := db.conn.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to seed %s from %s: %w", table, path, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read seeded row count: %w", err)
	}

	logging.Info().Str("table", table).Str("path", path).Int64("rows", rows).Msg("Seeded table from CSV")
	return rows, nil
}

// quoteLiteral renders s as a single-quoted SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
