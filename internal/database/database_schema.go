// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

/*
database_schema.go - Database Schema Management

Tables:
  - orders: source-of-truth transactional records, written by the upstream
    order system and read-only here
  - user_profiles: source-of-truth buyer profiles, read-only here
  - analytics_orders: denormalized analytics records, one per successful
    order, written only by the rebuild pipeline
  - analytics_meta: rebuild watermark, one row per pipeline name

Index Strategy:
Indexes mirror the query paths of the facet engine (created_at + product +
normalized location, reservation_date + product, user_created_at, buyer_id)
and of the rebuild selection (doc_type + status + created_at).
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// tableCreationQueries returns the table and index creation SQL statements.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			doc_type TEXT NOT NULL,
			status TEXT NOT NULL,
			buyer_id TEXT,
			products_id TEXT,
			reservation_date TEXT,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS user_profiles (
			id TEXT PRIMARY KEY,
			doc_type TEXT NOT NULL,
			title TEXT,
			username TEXT,
			email TEXT,
			phone_number TEXT,
			phone TEXT,
			city TEXT,
			state TEXT,
			birth_date TEXT,
			birth_date_ts TIMESTAMP,
			created_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS analytics_orders (
			id TEXT PRIMARY KEY,
			buyer_id TEXT,
			products_id TEXT,
			reservation_date TEXT,
			created_at TIMESTAMP NOT NULL,
			user_created_at TIMESTAMP,
			birth_date_normalized TIMESTAMP,
			user_city TEXT,
			user_state TEXT,
			user_city_norm TEXT NOT NULL,
			user_state_norm TEXT NOT NULL,
			user_name TEXT,
			user_email TEXT,
			user_phone TEXT,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS analytics_meta (
			pipeline TEXT PRIMARY KEY,
			last_run TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_orders_selection
			ON orders (doc_type, status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer
			ON orders (buyer_id)`,

		`CREATE INDEX IF NOT EXISTS idx_analytics_created
			ON analytics_orders (created_at, products_id, user_state_norm, user_city_norm)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_reservation
			ON analytics_orders (reservation_date, products_id)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_user_created
			ON analytics_orders (user_created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_analytics_buyer
			ON analytics_orders (buyer_id)`,
	}
}
