// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/clientus/internal/metrics"
	"github.com/tomtom215/clientus/internal/models"
)

// OrdersByYearMonth rolls the matching analytics records up by calendar
// month of created_at: total orders plus distinct buyers per month, in
// chronological order. The window always applies to created_at regardless
// of the date field the caller's facet query uses, so the monthly series
// stays an order-volume view rather than a reservation or signup view.
func (db *DB) OrdersByYearMonth(ctx context.Context, filter CustomerFilter) ([]models.MonthlyOrders, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	clauses, args := buildFilterConditions(filter, true)
	clauses = append(clauses, "created_at IS NOT NULL")

	query := fmt.Sprintf(`
	SELECT
		CAST(EXTRACT(YEAR FROM created_at) AS INTEGER) AS yr,
		CAST(EXTRACT(MONTH FROM created_at) AS INTEGER) AS mo,
		COUNT(*) AS total_orders,
		COUNT(DISTINCT buyer_id) AS unique_customers
	FROM analytics_orders%s
	GROUP BY yr, mo
	ORDER BY yr, mo`, whereSQL(clauses))

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("orders_by_month", "analytics_orders", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly orders: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.MonthlyOrders
	for rows.Next() {
		var m models.MonthlyOrders
		if err := rows.Scan(&m.Year, &m.Month, &m.Orders, &m.Customers); err != nil {
			return nil, fmt.Errorf("failed to scan monthly orders: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly orders: %w", err)
	}
	return out, nil
}
