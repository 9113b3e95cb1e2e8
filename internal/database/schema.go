// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package database

import (
	"context"
	"fmt"
)

// Table names.
const (
	usersTable    = "users"
	productsTable = "products"
)

// usersColumns lists the users table columns in load order. The eleven
// preference columns match recommend.Attributes.
var usersColumns = []string{
	"id",
	"interest",
	"cosmetic_objective",
	"skin_concern",
	"cosmetic_preference",
	"skin_type",
	"hair_type",
	"local_brands_used",
	"international_preference",
	"local_vs_international",
	"purchase_channel",
	"purchase_criterion",
	"budget",
	"purchase_history",
}

var productsColumns = []string{"id", "name", "brand", "category_id", "unit_price"}

// Preference columns are nullable: a NULL answer is treated as unknown.
// purchase_history holds comma-separated product ids.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		interest VARCHAR,
		cosmetic_objective VARCHAR,
		skin_concern VARCHAR,
		cosmetic_preference VARCHAR,
		skin_type VARCHAR,
		hair_type VARCHAR,
		local_brands_used VARCHAR,
		international_preference VARCHAR,
		local_vs_international VARCHAR,
		purchase_channel VARCHAR,
		purchase_criterion VARCHAR,
		budget VARCHAR,
		purchase_history VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		brand VARCHAR,
		category_id BIGINT NOT NULL,
		unit_price DOUBLE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
