// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

// Package api provides the HTTP surface: a chi router over the rebuild
// pipeline and the facet query engine, with standardized JSON envelopes and
// structured error codes.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/clientus/internal/analytics"
	"github.com/tomtom215/clientus/internal/models"
	"github.com/tomtom215/clientus/internal/rebuild"
)

// Error codes returned in the response envelope.
const (
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeRebuildFailed   = "REBUILD_FAILED"
	ErrCodeQueryFailed     = "QUERY_FAILED"
	ErrCodeNotFound        = "NOT_FOUND"
)

// rebuildTokenHeader is the header alternative to the ?token query parameter.
const rebuildTokenHeader = "X-Analytics-Token"

// QueryEngine builds customer reports.
type QueryEngine interface {
	Query(ctx context.Context, req analytics.Request) (*models.CustomerReport, error)
}

// Rebuilder runs the analytics rebuild pipeline.
type Rebuilder interface {
	Run(ctx context.Context, req rebuild.Request) (rebuild.Result, error)
}

// Pinger reports store liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	engine  QueryEngine
	rebuild Rebuilder
	db      Pinger
	version string
	started time.Time
}

// NewHandler creates the HTTP handler set.
func NewHandler(engine QueryEngine, rebuilder Rebuilder, db Pinger, version string) *Handler {
	return &Handler{
		engine:  engine,
		rebuild: rebuilder,
		db:      db,
		version: version,
		started: time.Now(),
	}
}

// Health reports process liveness and store readiness. The database check
// degrades the status rather than hiding the response.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	overall := "ok"
	dbStatus := "up"
	status := http.StatusOK
	if err := h.db.Ping(r.Context()); err != nil {
		overall = "degraded"
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	payload := map[string]interface{}{
		"status":         overall,
		"version":        h.version,
		"database":       dbStatus,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   payload,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// CustomerAnalytics serves the faceted customer report.
func (h *Handler) CustomerAnalytics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	// "estado" is the legacy alias for the state parameter.
	state := q.Get("state")
	if state == "" {
		state = q.Get("estado")
	}

	req := analytics.Request{
		StartDate:        q.Get("startDate"),
		EndDate:          q.Get("endDate"),
		DateField:        q.Get("dateField"),
		State:            state,
		City:             q.Get("city"),
		Cities:           splitListParam(q["cities"]),
		Products:         splitListParam(append(q["product"], q["products"]...)),
		ProductIDs:       splitListParam(q["productIds"]),
		IncludeCustomers: parseBoolParam(q.Get("includeCustomers")),
		Page:             parseIntParam(q.Get("page")),
		Limit:            parseIntParam(q.Get("limit")),
		Top:              parseIntParam(q.Get("top")),
	}

	report, err := h.engine.Query(r.Context(), req)
	if err != nil {
		h.respondQueryError(w, err)
		return
	}
	respondSuccess(w, report, start)
}

func (h *Handler) respondQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidDate), errors.Is(err, analytics.ErrInvalidDateField):
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeQueryFailed,
			"failed to build customer report", err)
	}
}

// Rebuild triggers a pipeline run. The token arrives via ?token= or the
// X-Analytics-Token header; callers never learn whether a token is configured.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	token := q.Get("token")
	if token == "" {
		token = r.Header.Get(rebuildTokenHeader)
	}

	req := rebuild.Request{
		Full:  parseBoolParam(q.Get("full")),
		Since: q.Get("since"),
		Token: token,
	}

	result, err := h.rebuild.Run(r.Context(), req)
	if err != nil {
		h.respondRebuildError(w, err)
		return
	}

	respondSuccess(w, models.RebuildResult{
		OK:    true,
		Mode:  result.Mode,
		Since: result.Since,
		Rows:  result.Rows,
	}, start)
}

func (h *Handler) respondRebuildError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rebuild.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or missing token", nil)
	case errors.Is(err, rebuild.ErrInvalidSince):
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeRebuildFailed,
			"rebuild run failed", err)
	}
}

// NotFound is the router's fallback, kept in the standard envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, ErrCodeNotFound, "resource not found", nil)
}
