// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/clientus/internal/metrics"
	"github.com/tomtom215/clientus/internal/models"
)

// upsertAnalyticsOrderSQL replaces every column on conflict so a re-run of
// the same rebuild window converges to identical stored state.
const upsertAnalyticsOrderSQL = `
	INSERT INTO analytics_orders (
		id, buyer_id, products_id, reservation_date, created_at,
		user_created_at, birth_date_normalized,
		user_city, user_state, user_city_norm, user_state_norm,
		user_name, user_email, user_phone, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		buyer_id = excluded.buyer_id,
		products_id = excluded.products_id,
		reservation_date = excluded.reservation_date,
		created_at = excluded.created_at,
		user_created_at = excluded.user_created_at,
		birth_date_normalized = excluded.birth_date_normalized,
		user_city = excluded.user_city,
		user_state = excluded.user_state,
		user_city_norm = excluded.user_city_norm,
		user_state_norm = excluded.user_state_norm,
		user_name = excluded.user_name,
		user_email = excluded.user_email,
		user_phone = excluded.user_phone,
		updated_at = excluded.updated_at`

// UpsertAnalyticsOrders writes the given analytics records in a single
// transaction, inserting new ids and fully replacing existing ones.
func (db *DB) UpsertAnalyticsOrders(ctx context.Context, records []models.AnalyticsOrder) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := db.upsertAnalyticsOrders(ctx, records)
	metrics.RecordDBQuery("upsert", "analytics_orders", time.Since(start), err)
	return err
}

func (db *DB) upsertAnalyticsOrders(ctx context.Context, records []models.AnalyticsOrder) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertAnalyticsOrderSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare analytics upsert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range records {
		r := &records[i]
		if _, err := stmt.ExecContext(ctx,
			r.ID,
			nullableStr(r.BuyerID), nullableStr(r.ProductsID), nullableStr(r.ReservationDate),
			r.CreatedAt.UTC(),
			nullableTime(r.UserCreatedAt), nullableTime(r.BirthDateNormalized),
			nullableStr(r.UserCity), nullableStr(r.UserState),
			r.UserCityNorm, r.UserStateNorm,
			nullableStr(r.UserName), nullableStr(r.UserEmail), nullableStr(r.UserPhone),
			r.UpdatedAt.UTC(),
		); err != nil {
			return fmt.Errorf("failed to upsert analytics order %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit analytics upsert: %w", err)
	}
	return nil
}

// CountAnalyticsOrders returns the total number of analytics records.
func (db *DB) CountAnalyticsOrders(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM analytics_orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count analytics orders: %w", err)
	}
	return count, nil
}

// GetAnalyticsOrder fetches one analytics record by order id, or nil when
// absent. Used by ingestion tooling and tests to verify materialized state.
func (db *DB) GetAnalyticsOrder(ctx context.Context, id string) (*models.AnalyticsOrder, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx, `
		SELECT id, buyer_id, products_id, reservation_date, created_at,
			user_created_at, birth_date_normalized,
			user_city, user_state, user_city_norm, user_state_norm,
			user_name, user_email, user_phone, updated_at
		FROM analytics_orders WHERE id = ?`, id)

	var (
		rec                                  models.AnalyticsOrder
		buyerID, productsID, reservationDate sql.NullString
		city, state, name, email, phone      sql.NullString
		userCreatedAt, birthDate             sql.NullTime
	)
	err := row.Scan(
		&rec.ID, &buyerID, &productsID, &reservationDate, &rec.CreatedAt,
		&userCreatedAt, &birthDate,
		&city, &state, &rec.UserCityNorm, &rec.UserStateNorm,
		&name, &email, &phone, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analytics order %s: %w", id, err)
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	rec.BuyerID = strPtr(buyerID)
	rec.ProductsID = strPtr(productsID)
	rec.ReservationDate = strPtr(reservationDate)
	rec.UserCity = strPtr(city)
	rec.UserState = strPtr(state)
	rec.UserCreatedAt = timePtr(userCreatedAt)
	rec.BirthDateNormalized = timePtr(birthDate)
	rec.UserName = strPtr(name)
	rec.UserEmail = strPtr(email)
	rec.UserPhone = strPtr(phone)
	return &rec, nil
}
