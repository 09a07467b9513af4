// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/clientus/internal/database"
	"github.com/tomtom215/clientus/internal/products"
)

var testNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func testResolver() *products.Resolver {
	return products.NewResolver(map[string][]string{
		"navio":     {"p-nav-1", "p-nav-2"},
		"boulevard": {"p-blv-1"},
	})
}

func TestNormalizeDefaults(t *testing.T) {
	p, err := Request{}.normalize(testNow, testResolver())
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	// Default window: first of the current UTC month through today.
	if p.filter.StartDate != "2024-06-01" || p.filter.EndDate != "2024-06-15" {
		t.Errorf("Expected default window 2024-06-01..2024-06-15, got %s..%s",
			p.filter.StartDate, p.filter.EndDate)
	}
	if p.filter.DateField != database.DateFieldUserCreatedAt {
		t.Errorf("Expected default date field userCreatedAt, got %s", p.filter.DateField)
	}
	if p.page != 1 || p.limit != 50 || p.top != 200 {
		t.Errorf("Expected defaults page=1 limit=50 top=200, got %d/%d/%d", p.page, p.limit, p.top)
	}
	if p.filter.StateNorm != "" || p.filter.CityNorm != "" || len(p.filter.CitiesNorm) != 0 {
		t.Errorf("Expected no location filters by default, got %+v", p.filter)
	}
	if p.echo.State != nil || p.echo.City != nil {
		t.Errorf("Expected nil echoed state/city, got %+v", p.echo)
	}
}

func TestNormalizePartialWindowDefaultsMissingBound(t *testing.T) {
	p, err := Request{StartDate: "2024-01-01"}.normalize(testNow, testResolver())
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if p.filter.StartDate != "2024-01-01" || p.filter.EndDate != "2024-06-15" {
		t.Errorf("Expected missing end bound to default to today, got %s..%s",
			p.filter.StartDate, p.filter.EndDate)
	}

	p, err = Request{EndDate: "2024-06-10"}.normalize(testNow, testResolver())
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if p.filter.StartDate != "2024-06-01" || p.filter.EndDate != "2024-06-10" {
		t.Errorf("Expected missing start bound to default to first of month, got %s..%s",
			p.filter.StartDate, p.filter.EndDate)
	}
}

func TestNormalizeInvalidDates(t *testing.T) {
	for _, bad := range []string{"15/06/2024", "2024-13-01", "yesterday"} {
		_, err := Request{StartDate: bad}.normalize(testNow, testResolver())
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("StartDate %q: expected ErrInvalidDate, got %v", bad, err)
		}
		_, err = Request{EndDate: bad}.normalize(testNow, testResolver())
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("EndDate %q: expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestNormalizeDateField(t *testing.T) {
	for _, valid := range []string{"createdAt", "reservationDate", "userCreatedAt"} {
		p, err := Request{DateField: valid}.normalize(testNow, testResolver())
		if err != nil {
			t.Fatalf("DateField %q rejected: %v", valid, err)
		}
		if string(p.filter.DateField) != valid {
			t.Errorf("Expected date field %q, got %s", valid, p.filter.DateField)
		}
	}

	// Matching ignores case.
	for _, mixed := range []string{"createdat", "CREATEDAT", "CreatedAt"} {
		p, err := Request{DateField: mixed}.normalize(testNow, testResolver())
		if err != nil {
			t.Fatalf("DateField %q rejected: %v", mixed, err)
		}
		if p.filter.DateField != database.DateFieldCreatedAt {
			t.Errorf("DateField %q: expected createdAt, got %s", mixed, p.filter.DateField)
		}
	}

	_, err := Request{DateField: "updatedAt"}.normalize(testNow, testResolver())
	if !errors.Is(err, ErrInvalidDateField) {
		t.Errorf("Expected ErrInvalidDateField, got %v", err)
	}
}

func TestNormalizeStateTodosMeansNoFilter(t *testing.T) {
	for _, s := range []string{"todos", "TODOS", " Todos "} {
		p, err := Request{State: s}.normalize(testNow, testResolver())
		if err != nil {
			t.Fatalf("normalize failed: %v", err)
		}
		if p.filter.StateNorm != "" {
			t.Errorf("State %q: expected no filter, got %q", s, p.filter.StateNorm)
		}
	}

	p, err := Request{State: " sp "}.normalize(testNow, testResolver())
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if p.filter.StateNorm != "SP" {
		t.Errorf("Expected uppercased SP, got %q", p.filter.StateNorm)
	}
	if p.echo.State == nil || *p.echo.State != "SP" {
		t.Errorf("Expected echoed state SP, got %v", p.echo.State)
	}
}

func TestNormalizeCityPrecedence(t *testing.T) {
	p, err := Request{City: "santos", Cities: []string{"rio", "campinas"}}.normalize(testNow, testResolver())
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if p.filter.CityNorm != "SANTOS" {
		t.Errorf("Expected city SANTOS, got %q", p.filter.CityNorm)
	}
	if len(p.filter.CitiesNorm) != 0 {
		t.Errorf("Exact city must suppress the cities list, got %v", p.filter.CitiesNorm)
	}

	p, err = Request{Cities: []string{" rio ", "", "campinas"}}.normalize(testNow, testResolver())
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(p.filter.CitiesNorm) != 2 || p.filter.CitiesNorm[0] != "RIO" || p.filter.CitiesNorm[1] != "CAMPINAS" {
		t.Errorf("Expected [RIO CAMPINAS], got %v", p.filter.CitiesNorm)
	}
}

func TestNormalizeProductResolution(t *testing.T) {
	p, err := Request{
		Products:   []string{"Navio"},
		ProductIDs: []string{"p-extra", "p-nav-1"},
	}.normalize(testNow, testResolver())
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	ids := make(map[string]bool, len(p.filter.ProductIDs))
	for _, id := range p.filter.ProductIDs {
		ids[id] = true
	}
	if len(ids) != 3 || !ids["p-nav-1"] || !ids["p-nav-2"] || !ids["p-extra"] {
		t.Errorf("Expected deduplicated union of alias ids and explicit ids, got %v", p.filter.ProductIDs)
	}
}

func TestNormalizeClamps(t *testing.T) {
	tests := []struct {
		name                string
		req                 Request
		page, limit, topVal int
	}{
		{"zero values get defaults", Request{}, 1, 50, 200},
		{"negative page clamps to 1", Request{Page: -3}, 1, 50, 200},
		{"limit above max", Request{Limit: 9999}, 1, 200, 200},
		{"limit below min", Request{Limit: -1}, 1, 1, 200},
		{"top above max", Request{Top: 9999}, 1, 50, 500},
		{"in-range passthrough", Request{Page: 4, Limit: 25, Top: 10}, 4, 25, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.req.normalize(testNow, testResolver())
			if err != nil {
				t.Fatalf("normalize failed: %v", err)
			}
			if p.page != tt.page || p.limit != tt.limit || p.top != tt.topVal {
				t.Errorf("Expected %d/%d/%d, got %d/%d/%d",
					tt.page, tt.limit, tt.topVal, p.page, p.limit, p.top)
			}
		})
	}
}
