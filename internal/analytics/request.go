// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/clientus/internal/database"
	"github.com/tomtom215/clientus/internal/models"
	"github.com/tomtom215/clientus/internal/products"
)

// Sentinel errors surfaced to the API layer before any store access.
var (
	ErrInvalidDate      = errors.New("analytics: invalid date")
	ErrInvalidDateField = errors.New("analytics: invalid date field")
)

// AllStatesValue in the state parameter means "no state filter".
const AllStatesValue = "todos"

// Listing bounds.
const (
	defaultPage  = 1
	defaultLimit = 50
	maxLimit     = 200
	defaultTop   = 200
	maxTop       = 500
)

// Request carries the raw caller-supplied query parameters. Zero values mean
// "not supplied"; Query applies the defaults and clamps.
type Request struct {
	StartDate string
	EndDate   string
	DateField string

	State  string
	City   string
	Cities []string

	// Products are alias names; ProductIDs are explicit identifiers. The
	// two resolve to one deduplicated id set.
	Products   []string
	ProductIDs []string

	IncludeCustomers bool
	Page             int
	Limit            int
	Top              int
}

// params is the validated, defaulted form of a Request.
type params struct {
	filter database.CustomerFilter
	echo   models.FilterEcho

	includeCustomers bool
	page             int
	limit            int
	top              int
}

// normalize validates the request and applies defaults: a missing start date
// becomes the first day of the current UTC month and a missing end date
// becomes today, state
// "todos" drops the state filter, an exact city wins over a cities list, and
// paging values are clamped to their allowed ranges.
func (r Request) normalize(now time.Time, resolver *products.Resolver) (params, error) {
	var p params

	dateField, err := parseDateField(r.DateField)
	if err != nil {
		return p, err
	}

	startDate, endDate, err := resolveWindow(r.StartDate, r.EndDate, now)
	if err != nil {
		return p, err
	}

	p.filter = database.CustomerFilter{
		DateField: dateField,
		StartDate: startDate,
		EndDate:   endDate,
	}

	state := strings.TrimSpace(r.State)
	if state != "" && !strings.EqualFold(state, AllStatesValue) {
		p.filter.StateNorm = strings.ToUpper(state)
	}

	if city := strings.TrimSpace(r.City); city != "" {
		p.filter.CityNorm = strings.ToUpper(city)
	} else {
		for _, c := range r.Cities {
			if c = strings.TrimSpace(c); c != "" {
				p.filter.CitiesNorm = append(p.filter.CitiesNorm, strings.ToUpper(c))
			}
		}
	}

	p.filter.ProductIDs = resolver.Resolve(r.Products, r.ProductIDs)

	p.includeCustomers = r.IncludeCustomers
	p.page = clampMin(r.Page, defaultPage, 1)
	p.limit = clamp(r.Limit, defaultLimit, 1, maxLimit)
	p.top = clamp(r.Top, defaultTop, 1, maxTop)

	p.echo = models.FilterEcho{
		StartDate:  startDate,
		EndDate:    endDate,
		DateField:  string(dateField),
		ProductIDs: p.filter.ProductIDs,
		Cities:     p.filter.CitiesNorm,
	}
	if p.filter.StateNorm != "" {
		p.echo.State = &p.filter.StateNorm
	}
	if p.filter.CityNorm != "" {
		p.echo.City = &p.filter.CityNorm
	}

	return p, nil
}

// parseDateField validates the dateField parameter, defaulting to the buyer
// signup timestamp. Matching is case-insensitive.
func parseDateField(s string) (database.DateField, error) {
	switch strings.ToLower(s) {
	case "":
		return database.DateFieldUserCreatedAt, nil
	case strings.ToLower(string(database.DateFieldCreatedAt)):
		return database.DateFieldCreatedAt, nil
	case strings.ToLower(string(database.DateFieldReservationDate)):
		return database.DateFieldReservationDate, nil
	case strings.ToLower(string(database.DateFieldUserCreatedAt)):
		return database.DateFieldUserCreatedAt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDateField, s)
	}
}

// resolveWindow validates the supplied date bounds and fills in any missing
// one: an absent start defaults to the first day of the current UTC month and
// an absent end defaults to today.
func resolveWindow(startDate, endDate string, now time.Time) (string, string, error) {
	if err := validDate(startDate); err != nil {
		return "", "", err
	}
	if err := validDate(endDate); err != nil {
		return "", "", err
	}
	n := now.UTC()
	if startDate == "" {
		first := time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, time.UTC)
		startDate = first.Format("2006-01-02")
	}
	if endDate == "" {
		endDate = n.Format("2006-01-02")
	}
	return startDate, endDate, nil
}

func validDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.ParseInLocation("2006-01-02", s, time.UTC); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return nil
}

func clampMin(v, def, min int) int {
	if v == 0 {
		return def
	}
	if v < min {
		return min
	}
	return v
}

func clamp(v, def, min, max int) int {
	if v == 0 {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
