// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/clientus/internal/analytics"
	"github.com/tomtom215/clientus/internal/models"
	"github.com/tomtom215/clientus/internal/rebuild"
)

type fakeEngine struct {
	report  *models.CustomerReport
	err     error
	lastReq analytics.Request
}

func (f *fakeEngine) Query(_ context.Context, req analytics.Request) (*models.CustomerReport, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.report != nil {
		return f.report, nil
	}
	return &models.CustomerReport{}, nil
}

type fakeRebuilder struct {
	result  rebuild.Result
	err     error
	lastReq rebuild.Request
}

func (f *fakeRebuilder) Run(_ context.Context, req rebuild.Request) (rebuild.Result, error) {
	f.lastReq = req
	return f.result, f.err
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

func newTestHandler(engine *fakeEngine, rebuilder *fakeRebuilder, pinger *fakePinger) *Handler {
	if engine == nil {
		engine = &fakeEngine{}
	}
	if rebuilder == nil {
		rebuilder = &fakeRebuilder{}
	}
	if pinger == nil {
		pinger = &fakePinger{}
	}
	return NewHandler(engine, rebuilder, pinger, "test")
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return resp
}

func TestHealth(t *testing.T) {
	h := newTestHandler(nil, nil, nil)
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Status != "success" {
		t.Errorf("Expected success envelope, got %+v", resp)
	}
}

func TestHealthDegraded(t *testing.T) {
	h := newTestHandler(nil, nil, &fakePinger{err: errors.New("db closed")})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 when the database is down, got %d", rec.Code)
	}
}

func TestCustomerAnalyticsParamParsing(t *testing.T) {
	engine := &fakeEngine{}
	h := newTestHandler(engine, nil, nil)

	url := "/api/v1/customers/analytics?startDate=2024-01-01&endDate=2024-02-01" +
		"&dateField=createdAt&state=SP&city=Santos&cities=rio,campinas" +
		"&product=navio&products=boulevard,porto&productIds=p-1,p-2" +
		"&includeCustomers=true&page=2&limit=25&top=10"
	rec := httptest.NewRecorder()
	h.CustomerAnalytics(rec, httptest.NewRequest(http.MethodGet, url, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req := engine.lastReq
	if req.StartDate != "2024-01-01" || req.EndDate != "2024-02-01" || req.DateField != "createdAt" {
		t.Errorf("Unexpected window params: %+v", req)
	}
	if req.State != "SP" || req.City != "Santos" {
		t.Errorf("Unexpected location params: %+v", req)
	}
	if len(req.Cities) != 2 || req.Cities[0] != "rio" || req.Cities[1] != "campinas" {
		t.Errorf("Expected cities [rio campinas], got %v", req.Cities)
	}
	if len(req.Products) != 3 {
		t.Errorf("Expected product+products merged to 3 aliases, got %v", req.Products)
	}
	if len(req.ProductIDs) != 2 {
		t.Errorf("Expected 2 explicit ids, got %v", req.ProductIDs)
	}
	if !req.IncludeCustomers || req.Page != 2 || req.Limit != 25 || req.Top != 10 {
		t.Errorf("Unexpected listing params: %+v", req)
	}
}

func TestCustomerAnalyticsEstadoAlias(t *testing.T) {
	engine := &fakeEngine{}
	h := newTestHandler(engine, nil, nil)

	rec := httptest.NewRecorder()
	h.CustomerAnalytics(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/customers/analytics?estado=RJ", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if engine.lastReq.State != "RJ" {
		t.Errorf("Expected estado alias to populate state, got %q", engine.lastReq.State)
	}

	// An explicit state parameter wins over the alias.
	rec = httptest.NewRecorder()
	h.CustomerAnalytics(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/customers/analytics?state=SP&estado=RJ", nil))
	if engine.lastReq.State != "SP" {
		t.Errorf("Expected state to win over estado, got %q", engine.lastReq.State)
	}
}

func TestCustomerAnalyticsErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"invalid date", analytics.ErrInvalidDate, http.StatusBadRequest, ErrCodeInvalidArgument},
		{"invalid date field", analytics.ErrInvalidDateField, http.StatusBadRequest, ErrCodeInvalidArgument},
		{"store failure", analytics.ErrQueryFailed, http.StatusInternalServerError, ErrCodeQueryFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeEngine{err: tt.err}, nil, nil)
			rec := httptest.NewRecorder()
			h.CustomerAnalytics(rec, httptest.NewRequest(http.MethodGet, "/api/v1/customers/analytics", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("Expected %d, got %d", tt.wantCode, rec.Code)
			}
			resp := decodeResponse(t, rec)
			if resp.Error == nil || resp.Error.Code != tt.wantErr {
				t.Errorf("Expected error code %s, got %+v", tt.wantErr, resp.Error)
			}
		})
	}
}

func TestRebuildTokenSources(t *testing.T) {
	rb := &fakeRebuilder{result: rebuild.Result{Mode: rebuild.ModeIncremental, Rows: 3}}
	h := newTestHandler(nil, rb, nil)

	// Query parameter.
	rec := httptest.NewRecorder()
	h.Rebuild(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/rebuild?token=s3cret", nil))
	if rb.lastReq.Token != "s3cret" {
		t.Errorf("Expected token from query param, got %q", rb.lastReq.Token)
	}

	// Header fallback.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/rebuild", nil)
	req.Header.Set("X-Analytics-Token", "h3ader")
	rec = httptest.NewRecorder()
	h.Rebuild(rec, req)
	if rb.lastReq.Token != "h3ader" {
		t.Errorf("Expected token from header, got %q", rb.lastReq.Token)
	}

	// Query parameter wins over the header.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/analytics/rebuild?token=s3cret", nil)
	req.Header.Set("X-Analytics-Token", "h3ader")
	rec = httptest.NewRecorder()
	h.Rebuild(rec, req)
	if rb.lastReq.Token != "s3cret" {
		t.Errorf("Expected query param precedence, got %q", rb.lastReq.Token)
	}
}

func TestRebuildParams(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rb := &fakeRebuilder{result: rebuild.Result{Mode: rebuild.ModeFull, Since: &since, Rows: 42}}
	h := newTestHandler(nil, rb, nil)

	rec := httptest.NewRecorder()
	h.Rebuild(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/analytics/rebuild?token=t&full=1&since=2024-03-01", nil))

	if !rb.lastReq.Full || rb.lastReq.Since != "2024-03-01" {
		t.Errorf("Unexpected rebuild request: %+v", rb.lastReq)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	resp := decodeResponse(t, rec)
	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("Failed to re-marshal data: %v", err)
	}
	var result models.RebuildResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to decode rebuild result: %v", err)
	}
	if !result.OK || result.Mode != rebuild.ModeFull || result.Rows != 42 {
		t.Errorf("Unexpected rebuild result: %+v", result)
	}
}

func TestRebuildErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"unauthorized", rebuild.ErrUnauthorized, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"invalid since", rebuild.ErrInvalidSince, http.StatusBadRequest, ErrCodeInvalidArgument},
		{"run failure", rebuild.ErrRebuildFailed, http.StatusInternalServerError, ErrCodeRebuildFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(nil, &fakeRebuilder{err: tt.err}, nil)
			rec := httptest.NewRecorder()
			h.Rebuild(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/rebuild", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("Expected %d, got %d", tt.wantCode, rec.Code)
			}
			resp := decodeResponse(t, rec)
			if resp.Error == nil || resp.Error.Code != tt.wantErr {
				t.Errorf("Expected error code %s, got %+v", tt.wantErr, resp.Error)
			}
		})
	}
}

func TestRespondJSONSetsETag(t *testing.T) {
	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusOK, &models.APIResponse{Status: "success"})

	if rec.Header().Get("ETag") == "" {
		t.Error("Expected ETag header")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
}

func TestSplitListParam(t *testing.T) {
	got := splitListParam([]string{"a,b", " c ", "", ",d,"})
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
			break
		}
	}
}

func TestParseBoolParam(t *testing.T) {
	for _, truthy := range []string{"1", "true", "TRUE", "yes", " True "} {
		if !parseBoolParam(truthy) {
			t.Errorf("Expected %q to be truthy", truthy)
		}
	}
	for _, falsy := range []string{"", "0", "false", "no", "maybe"} {
		if parseBoolParam(falsy) {
			t.Errorf("Expected %q to be falsy", falsy)
		}
	}
}
