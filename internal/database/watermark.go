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
)

// GetWatermark returns the last successful rebuild time for the named
// pipeline, or nil when no run has completed yet.
//
// The watermark is read-then-written non-atomically across a rebuild run;
// concurrent rebuilds must be serialized by the caller. The analytics upserts
// are idempotent, so a racy watermark costs reprocessing, not correctness.
func (db *DB) GetWatermark(ctx context.Context, pipeline string) (*time.Time, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var lastRun time.Time
	err := db.conn.QueryRowContext(ctx,
		`SELECT last_run FROM analytics_meta WHERE pipeline = ?`, pipeline,
	).Scan(&lastRun)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read watermark for %s: %w", pipeline, err)
	}
	lastRun = lastRun.UTC()
	return &lastRun, nil
}

// SetWatermark records the last successful rebuild time for the named
// pipeline, inserting or replacing the singleton row.
func (db *DB) SetWatermark(ctx context.Context, pipeline string, lastRun time.Time) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO analytics_meta (pipeline, last_run, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (pipeline) DO UPDATE SET
			last_run = excluded.last_run,
			updated_at = excluded.updated_at`,
		pipeline, lastRun.UTC(), now,
	)
	metrics.RecordDBQuery("upsert", "analytics_meta", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to set watermark for %s: %w", pipeline, err)
	}
	return nil
}
