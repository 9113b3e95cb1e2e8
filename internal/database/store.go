// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/metrics"
	"github.com/tomtom215/beautyflow/internal/recommend"
)

var _ recommend.ProfileSource = (*DB)(nil)

// LoadUsers returns every respondent profile ordered by id.
// An empty table yields an error wrapping recommend.ErrDataUnavailable.
func (db *DB) LoadUsers(ctx context.Context) (users []recommend.UserProfile, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("load", usersTable, time.Since(start), err) }()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	query := "SELECT " + strings.Join(usersColumns, ", ") + " FROM " + usersTable + " ORDER BY id"
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer closeWithLog(rows, "users rows")

	for rows.Next() {
		u, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("users table is empty: %w", recommend.ErrDataUnavailable)
	}
	return users, nil
}

func scanUser(rows *sql.Rows) (recommend.UserProfile, error) {
	var (
		u       recommend.UserProfile
		answers [11]sql.NullString
		budget  sql.NullString
		history sql.NullString
	)

	dest := make([]any, 0, len(usersColumns))
	dest = append(dest, &u.ID)
	for i := range answers {
		dest = append(dest, &answers[i])
	}
	dest = append(dest, &budget, &history)

	if err := rows.Scan(dest...); err != nil {
		return u, fmt.Errorf("failed to scan user row: %w", err)
	}

	for i, attr := range recommend.Attributes {
		u.Preferences.Set(attr, strings.TrimSpace(answers[i].String))
	}
	u.Budget = recommend.ParseBudgetTier(budget.String)
	u.PurchaseHistory = parsePurchaseHistory(u.ID, history.String)
	return u, nil
}

// parsePurchaseHistory splits a comma-separated id list. Tokens that are not
// integers are skipped.
func parsePurchaseHistory(userID int64, raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			logging.Debug().Int64("user_id", userID).Str("token", p).Msg("Skipping malformed purchase history entry")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// LoadProducts returns the catalog ordered by id.
// An empty table yields an error wrapping recommend.ErrDataUnavailable.
func (db *DB) LoadProducts(ctx context.Context) (products []recommend.Product, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("load", productsTable, time.Since(start), err) }()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	query := "SELECT " + strings.Join(productsColumns, ", ") + " FROM " + productsTable + " ORDER BY id"
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer closeWithLog(rows, "products rows")

	for rows.Next() {
		var (
			p     recommend.Product
			brand sql.NullString
		)
		if err = rows.Scan(&p.ID, &p.Name, &brand, &p.CategoryID, &p.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		p.Brand = brand.String
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("products table is empty: %w", recommend.ErrDataUnavailable)
	}
	return products, nil
}

// InsertUsers upserts respondent profiles in one transaction.
func (db *DB) InsertUsers(ctx context.Context, users []recommend.UserProfile) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(usersColumns)), ", ")
	query := "INSERT OR REPLACE INTO " + usersTable + " (" + strings.Join(usersColumns, ", ") + ") VALUES (" + placeholders + ")"

	return db.inTx(ctx, query, len(users), func(stmt *sql.Stmt, i int) error {
		u := users[i]
		args := make([]any, 0, len(usersColumns))
		args = append(args, u.ID)
		for _, attr := range recommend.Attributes {
			args = append(args, nullable(u.Preferences.Value(attr)))
		}
		args = append(args, nullable(string(u.Budget)), nullable(formatPurchaseHistory(u.PurchaseHistory)))
		_, err := stmt.ExecContext(ctx, args...)
		return err
	})
}

// InsertProducts upserts catalog rows in one transaction.
func (db *DB) InsertProducts(ctx context.Context, products []recommend.Product) error {
	query := "INSERT OR REPLACE INTO " + productsTable + " (" + strings.Join(productsColumns, ", ") + ") VALUES (?, ?, ?, ?, ?)"

	return db.inTx(ctx, query, len(products), func(stmt *sql.Stmt, i int) error {
		p := products[i]
		_, err := stmt.ExecContext(ctx, p.ID, p.Name, nullable(p.Brand), p.CategoryID, p.UnitPrice)
		return err
	})
}

// Counts returns the number of rows in the users and products tables.
func (db *DB) Counts(ctx context.Context) (users, products int64, err error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+usersTable).Scan(&users); err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+productsTable).Scan(&products); err != nil {
		return 0, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return users, products, nil
}

func (db *DB) inTx(ctx context.Context, query string, n int, exec func(stmt *sql.Stmt, i int) error) error {
	if n == 0 {
		return nil
	}

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeWithLog(stmt, "insert statement")

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func formatPurchaseHistory(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
