// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

// Package rebuild implements the ETL stage: it joins successful orders to
// their buyer profiles, normalizes the inconsistent profile fields, and
// materializes the result into the analytics table with idempotent upserts.
//
// Runs are incremental by default, scoped by a per-pipeline watermark; a full
// run re-reads everything. Upserts fully replace on conflict, so re-running
// any window converges to the same stored state.
package rebuild

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/clientus/internal/logging"
	"github.com/tomtom215/clientus/internal/metrics"
	"github.com/tomtom215/clientus/internal/models"
	"github.com/tomtom215/clientus/internal/normalize"
)

// Sentinel errors surfaced to the API layer.
var (
	// ErrUnauthorized means the supplied token did not match the configured
	// job token, or no token is configured at all.
	ErrUnauthorized = errors.New("rebuild: unauthorized")

	// ErrInvalidSince means an explicit since override was supplied but did
	// not parse as a date or timestamp.
	ErrInvalidSince = errors.New("rebuild: invalid since value")

	// ErrRebuildFailed wraps store errors that aborted a run.
	ErrRebuildFailed = errors.New("rebuild: run failed")
)

// Run modes.
const (
	ModeIncremental = "incremental"
	ModeFull        = "full"
)

// Store is the slice of the analytics store the pipeline writes through.
type Store interface {
	SelectRebuildRows(ctx context.Context, since *time.Time) ([]models.RebuildRow, error)
	UpsertAnalyticsOrders(ctx context.Context, records []models.AnalyticsOrder) error
}

// WatermarkStore persists the last successful run time per pipeline name.
type WatermarkStore interface {
	GetWatermark(ctx context.Context, pipeline string) (*time.Time, error)
	SetWatermark(ctx context.Context, pipeline string, lastRun time.Time) error
}

// Request describes one rebuild invocation.
type Request struct {
	// Full disables the incremental lower bound entirely.
	Full bool

	// Since optionally overrides the watermark: a bare YYYY-MM-DD date
	// (taken as UTC midnight) or an RFC3339 timestamp. Ignored in full mode.
	Since string

	// Token must match the configured job token.
	Token string
}

// Result reports what a completed run did.
type Result struct {
	Mode string

	// Since is the lower bound actually applied, nil for an unbounded run.
	Since *time.Time

	// Rows is the number of analytics records written.
	Rows int
}

// Pipeline orchestrates rebuild runs. Callers must serialize concurrent runs;
// the watermark read/write is not atomic across a run.
type Pipeline struct {
	store    Store
	marks    WatermarkStore
	token    string
	pipeline string
	now      func() time.Time
}

// New creates a rebuild pipeline. jobToken empty means every run is rejected;
// pipeline names the watermark row.
func New(store Store, marks WatermarkStore, jobToken, pipeline string) *Pipeline {
	return &Pipeline{
		store:    store,
		marks:    marks,
		token:    jobToken,
		pipeline: pipeline,
		now:      time.Now,
	}
}

// Run executes one rebuild. On success the watermark advances to the
// wall-clock time captured at the start of the run, not the newest order
// timestamp, so orders written while the run was in flight are picked up by
// the next incremental window instead of being skipped.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if err := p.authorize(req.Token); err != nil {
		return Result{}, err
	}

	startedAt := p.now().UTC()
	mode := ModeIncremental
	if req.Full {
		mode = ModeFull
	}

	since, err := p.resolveSince(ctx, req)
	if err != nil {
		return Result{}, err
	}

	result, err := p.run(ctx, mode, since, startedAt)
	metrics.RecordRebuild(mode, time.Since(startedAt), result.Rows, err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("mode", mode).Msg("Rebuild run failed")
		return Result{}, err
	}

	logging.Ctx(ctx).Info().
		Str("mode", mode).
		Int("rows", result.Rows).
		Dur("duration", time.Since(startedAt)).
		Msg("Rebuild run completed")
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, mode string, since *time.Time, startedAt time.Time) (Result, error) {
	rows, err := p.store.SelectRebuildRows(ctx, since)
	if err != nil {
		return Result{}, fmt.Errorf("%w: selecting source rows: %w", ErrRebuildFailed, err)
	}

	records := make([]models.AnalyticsOrder, 0, len(rows))
	for i := range rows {
		records = append(records, transformRow(&rows[i], startedAt))
	}

	if err := p.store.UpsertAnalyticsOrders(ctx, records); err != nil {
		return Result{}, fmt.Errorf("%w: writing analytics records: %w", ErrRebuildFailed, err)
	}

	if err := p.marks.SetWatermark(ctx, p.pipeline, startedAt); err != nil {
		return Result{}, fmt.Errorf("%w: advancing watermark: %w", ErrRebuildFailed, err)
	}

	return Result{Mode: mode, Since: since, Rows: len(records)}, nil
}

// authorize rejects runs unless the token matches the configured secret. An
// unset secret closes the endpoint rather than opening it.
func (p *Pipeline) authorize(token string) error {
	if p.token == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(p.token)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// resolveSince picks the run's lower bound: none for full mode, the parsed
// override when given, else the stored watermark (absent watermark means an
// unbounded run).
func (p *Pipeline) resolveSince(ctx context.Context, req Request) (*time.Time, error) {
	if req.Full {
		return nil, nil
	}
	if req.Since != "" {
		t, err := parseSince(req.Since)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	mark, err := p.marks.GetWatermark(ctx, p.pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: reading watermark: %w", ErrRebuildFailed, err)
	}
	return mark, nil
}

// parseSince accepts a bare calendar date (UTC midnight) or an RFC3339
// timestamp, with a space-separated variant tolerated.
func parseSince(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSince, s)
}

// transformRow maps one joined source row to its analytics record: city and
// state normalized with their default labels, the birth date collapsed to a
// single nullable date, display name as title-else-username and phone as
// phoneNumber-else-phone.
func transformRow(r *models.RebuildRow, updatedAt time.Time) models.AnalyticsOrder {
	return models.AnalyticsOrder{
		ID:                  r.OrderID,
		BuyerID:             r.BuyerID,
		ProductsID:          r.ProductsID,
		ReservationDate:     r.ReservationDate,
		CreatedAt:           r.CreatedAt.UTC(),
		UserCreatedAt:       r.UserCreatedAt,
		BirthDateNormalized: normalize.BirthDate(r.UserBirthDateTS, r.UserBirthDate).TimePtr(),
		UserCity:            r.UserCity,
		UserState:           r.UserState,
		UserCityNorm:        normalize.Location(r.UserCity, normalize.NoCityLabel),
		UserStateNorm:       normalize.Location(r.UserState, normalize.NoStateLabel),
		UserName:            coalesce(r.UserTitle, r.UserUsername),
		UserEmail:           r.UserEmail,
		UserPhone:           coalesce(r.UserPhoneNumber, r.UserPhone),
		UpdatedAt:           updatedAt,
	}
}

// coalesce returns the first non-nil, non-empty string pointer.
func coalesce(ptrs ...*string) *string {
	for _, p := range ptrs {
		if p != nil && *p != "" {
			return p
		}
	}
	return nil
}
