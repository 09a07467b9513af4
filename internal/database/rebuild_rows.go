// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/clientus/internal/metrics"
	"github.com/tomtom215/clientus/internal/models"
)

// SelectRebuildRows returns every qualifying order (doc_type "order", status
// "success", created on or after since when a bound is given) left-outer
// joined to its buyer profile. Orders without a matching profile are kept
// with nil profile fields; the rebuild pipeline normalizes them to the
// default labels.
func (db *DB) SelectRebuildRows(ctx context.Context, since *time.Time) ([]models.RebuildRow, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
	SELECT
		o.id, o.buyer_id, o.products_id, o.reservation_date, o.created_at,
		u.title, u.username, u.email, u.phone_number, u.phone,
		u.city, u.state, u.birth_date, u.birth_date_ts, u.created_at
	FROM orders o
	LEFT JOIN user_profiles u
		ON u.id = o.buyer_id AND u.doc_type = 'user'
	WHERE o.doc_type = 'order' AND o.status = 'success'`

	var args []interface{}
	if since != nil {
		query += " AND o.created_at >= ?"
		args = append(args, since.UTC())
	}
	query += " ORDER BY o.created_at"

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select_rebuild_rows", "orders", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query rebuild rows: %w", err)
	}
	defer closeQuietly(rows)

	var out []models.RebuildRow
	for rows.Next() {
		var (
			r                                      models.RebuildRow
			buyerID, productsID, reservationDate   sql.NullString
			title, username, email, phoneNo, phone sql.NullString
			city, state, birthDate                 sql.NullString
			birthDateTS, userCreatedAt             sql.NullTime
		)
		if err := rows.Scan(
			&r.OrderID, &buyerID, &productsID, &reservationDate, &r.CreatedAt,
			&title, &username, &email, &phoneNo, &phone,
			&city, &state, &birthDate, &birthDateTS, &userCreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rebuild row: %w", err)
		}

		r.CreatedAt = r.CreatedAt.UTC()
		r.BuyerID = strPtr(buyerID)
		r.ProductsID = strPtr(productsID)
		r.ReservationDate = strPtr(reservationDate)
		r.UserTitle = strPtr(title)
		r.UserUsername = strPtr(username)
		r.UserEmail = strPtr(email)
		r.UserPhoneNumber = strPtr(phoneNo)
		r.UserPhone = strPtr(phone)
		r.UserCity = strPtr(city)
		r.UserState = strPtr(state)
		r.UserBirthDate = strPtr(birthDate)
		r.UserBirthDateTS = timePtr(birthDateTS)
		r.UserCreatedAt = timePtr(userCreatedAt)

		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rebuild rows: %w", err)
	}
	return out, nil
}
