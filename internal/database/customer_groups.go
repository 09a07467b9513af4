// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/clientus/internal/metrics"
	"github.com/tomtom215/clientus/internal/models"
)

// GroupCustomers collapses the matching analytics records to one row per
// distinct buyer: order count, first/last order timestamps, the distinct
// product-id set, and first-seen profile fields. Records with a NULL
// buyer_id are excluded.
//
// The facet engine consumes this grouped set once and fans out into its
// independent facet passes, so the join/group work is never repeated per
// facet. first() picks whichever row the scan visits first; deterministic
// for a stored table but unspecified across rebuilds.
func (db *DB) GroupCustomers(ctx context.Context, filter CustomerFilter) ([]models.CustomerGroup, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	clauses, args := buildFilterConditions(filter, false)
	clauses = append(clauses, "buyer_id IS NOT NULL")

	query := fmt.Sprintf(`
	SELECT
		buyer_id,
		COUNT(*) AS order_count,
		MIN(created_at) AS first_order_date,
		MAX(created_at) AS last_order_date,
		COALESCE(STRING_AGG(DISTINCT products_id, ','), '') AS product_ids,
		FIRST(user_city),
		FIRST(user_state),
		FIRST(user_city_norm),
		FIRST(user_state_norm),
		FIRST(birth_date_normalized),
		FIRST(user_created_at),
		FIRST(user_name),
		FIRST(user_email),
		FIRST(user_phone)
	FROM analytics_orders%s
	GROUP BY buyer_id`, whereSQL(clauses))

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("group_customers", "analytics_orders", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer groups: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.CustomerGroup
	for rows.Next() {
		var (
			g                        models.CustomerGroup
			firstOrder, lastOrder    time.Time
			productIDs               string
			city, state              sql.NullString
			birthDate, userCreatedAt sql.NullTime
			name, email, phone       sql.NullString
		)
		if err := rows.Scan(
			&g.BuyerID, &g.OrderCount, &firstOrder, &lastOrder, &productIDs,
			&city, &state, &g.UserCityNorm, &g.UserStateNorm,
			&birthDate, &userCreatedAt,
			&name, &email, &phone,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer group: %w", err)
		}

		g.FirstOrderDate = firstOrder.UTC()
		g.LastOrderDate = lastOrder.UTC()
		g.ProductIDs = splitProductIDs(productIDs)
		g.UserCity = strPtr(city)
		g.UserState = strPtr(state)
		g.BirthDateNormalized = timePtr(birthDate)
		g.UserCreatedAt = timePtr(userCreatedAt)
		g.UserName = strPtr(name)
		g.UserEmail = strPtr(email)
		g.UserPhone = strPtr(phone)

		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customer groups: %w", err)
	}
	return out, nil
}

// splitProductIDs unpacks the STRING_AGG product set, dropping empties.
func splitProductIDs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
