// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

// Package analytics implements the faceted query stage: one grouped customer
// scan fans out into independent facet passes (overview, city, state, age,
// purchase frequency, signup months, products) plus an optional paginated
// customer listing, alongside a separate monthly order rollup over the
// ungrouped records.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/clientus/internal/database"
	"github.com/tomtom215/clientus/internal/logging"
	"github.com/tomtom215/clientus/internal/models"
	"github.com/tomtom215/clientus/internal/products"
)

// ErrQueryFailed wraps store errors encountered while building a report.
var ErrQueryFailed = errors.New("analytics: query failed")

// Store is the slice of the analytics store the engine reads.
type Store interface {
	GroupCustomers(ctx context.Context, filter database.CustomerFilter) ([]models.CustomerGroup, error)
	OrdersByYearMonth(ctx context.Context, filter database.CustomerFilter) ([]models.MonthlyOrders, error)
}

// Engine builds customer reports. Stateless; safe for concurrent use.
type Engine struct {
	store    Store
	products *products.Resolver
	now      func() time.Time
}

// New creates a query engine over the given store and alias resolver.
func New(store Store, resolver *products.Resolver) *Engine {
	return &Engine{store: store, products: resolver, now: time.Now}
}

// Query validates the request, runs the grouped customer scan and the monthly
// order rollup, and assembles the full report. Validation failures surface as
// ErrInvalidDate/ErrInvalidDateField before any store access.
func (e *Engine) Query(ctx context.Context, req Request) (*models.CustomerReport, error) {
	now := e.now().UTC()

	p, err := req.normalize(now, e.products)
	if err != nil {
		return nil, err
	}

	groups, err := e.store.GroupCustomers(ctx, p.filter)
	if err != nil {
		return nil, fmt.Errorf("%w: grouping customers: %w", ErrQueryFailed, err)
	}

	monthlyOrders, err := e.store.OrdersByYearMonth(ctx, p.filter)
	if err != nil {
		return nil, fmt.Errorf("%w: monthly order rollup: %w", ErrQueryFailed, err)
	}

	customers := deriveCustomers(groups, now)

	report := &models.CustomerReport{
		Filters:              p.echo,
		Overview:             overviewFacet(customers),
		ByCity:               byCityFacet(customers, p.top),
		ByState:              byStateFacet(customers),
		AgeRanges:            ageRangesFacet(customers),
		PurchaseFrequency:    purchaseFrequencyFacet(customers),
		CustomersByYearMonth: customersByYearMonthFacet(customers),
		OrdersByYearMonth:    monthlyOrders,
		ProductsBreakdown:    productsBreakdownFacet(customers, e.products),
	}

	if p.includeCustomers {
		cards, pagination := customerListing(customers, p.page, p.limit, e.products)
		report.Customers = cards
		report.Pagination = &pagination
	}

	logging.Ctx(ctx).Debug().
		Int("customers", report.Overview.Customers).
		Int("orders", report.Overview.TotalOrders).
		Str("date_field", p.echo.DateField).
		Msg("Customer report built")
	return report, nil
}
