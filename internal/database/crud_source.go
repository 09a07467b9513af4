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

// InsertOrder writes one source order record. The upstream order system owns
// this table; Clientus itself only writes it from ingestion tooling and
// tests.
func (db *DB) InsertOrder(ctx context.Context, o *models.Order) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO orders (id, doc_type, status, buyer_id, products_id, reservation_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			doc_type = excluded.doc_type,
			status = excluded.status,
			buyer_id = excluded.buyer_id,
			products_id = excluded.products_id,
			reservation_date = excluded.reservation_date,
			created_at = excluded.created_at`,
		o.ID, o.DocType, o.Status,
		nullableStr(o.BuyerID), nullableStr(o.ProductsID), nullableStr(o.ReservationDate),
		o.CreatedAt.UTC(),
	)
	metrics.RecordDBQuery("insert", "orders", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
	}
	return nil
}

// InsertUserProfile writes one source buyer profile record.
func (db *DB) InsertUserProfile(ctx context.Context, u *models.UserProfile) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO user_profiles (id, doc_type, title, username, email, phone_number, phone,
			city, state, birth_date, birth_date_ts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			doc_type = excluded.doc_type,
			title = excluded.title,
			username = excluded.username,
			email = excluded.email,
			phone_number = excluded.phone_number,
			phone = excluded.phone,
			city = excluded.city,
			state = excluded.state,
			birth_date = excluded.birth_date,
			birth_date_ts = excluded.birth_date_ts,
			created_at = excluded.created_at`,
		u.ID, u.DocType,
		nullableStr(u.Title), nullableStr(u.Username), nullableStr(u.Email),
		nullableStr(u.PhoneNumber), nullableStr(u.Phone),
		nullableStr(u.City), nullableStr(u.State),
		nullableStr(u.BirthDate), nullableTime(u.BirthDateTS), nullableTime(u.CreatedAt),
	)
	metrics.RecordDBQuery("insert", "user_profiles", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert user profile %s: %w", u.ID, err)
	}
	return nil
}
