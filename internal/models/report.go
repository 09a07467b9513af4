// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package models

import "time"

// FilterEcho mirrors the effective filter state back to the caller so
// dashboards can render which constraints produced the report.
type FilterEcho struct {
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	DateField  string   `json:"dateField"`
	State      *string  `json:"state"`
	City       *string  `json:"city"`
	Cities     []string `json:"cities"`
	ProductIDs []string `json:"productIds"`
}

// Overview summarizes the grouped customer set.
type Overview struct {
	Customers            int     `json:"customers"`
	TotalOrders          int     `json:"totalOrders"`
	AvgOrdersPerCustomer float64 `json:"avgOrdersPerCustomer"`
}

// CityStat is one byCity facet row: customer count and average order count
// per (normalized city, normalized state) pair.
type CityStat struct {
	City      string  `json:"city"`
	State     string  `json:"state"`
	Customers int     `json:"customers"`
	AvgOrders float64 `json:"avgOrders"`
}

// StateStat is one byState facet row.
type StateStat struct {
	State     string  `json:"state"`
	Customers int     `json:"customers"`
	AvgOrders float64 `json:"avgOrders"`
}

// RangeCount is one bucketed facet row, used by both the ageRanges and
// purchaseFrequency facets.
type RangeCount struct {
	Range     string `json:"range"`
	Customers int    `json:"customers"`
}

// MonthlyCustomers is one customersByYearMonth facet row: distinct customers
// whose profile was created in the given calendar month.
type MonthlyCustomers struct {
	Year      int `json:"year"`
	Month     int `json:"month"`
	Customers int `json:"customers"`
}

// MonthlyOrders is one ordersByYearMonth row, computed over the unaggregated
// matching records: order count and distinct-buyer count per calendar month
// of order creation. Deliberately separate from MonthlyCustomers, which has
// a different granularity.
type MonthlyOrders struct {
	Year      int `json:"year"`
	Month     int `json:"month"`
	Orders    int `json:"orders"`
	Customers int `json:"customers"`
}

// ProductStat is one productsBreakdown row: customers counted once per
// distinct product they bought, annotated with the resolved alias label.
type ProductStat struct {
	ProductID    string `json:"productId"`
	Customers    int    `json:"customers"`
	ProductLabel string `json:"productLabel"`
}

// CustomerCard is the flat per-customer projection returned when the caller
// requests the paginated listing.
type CustomerCard struct {
	CustomerID     string     `json:"customerId"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	BirthDate      *time.Time `json:"birthDate"`
	AgeYears       *int       `json:"ageYears"`
	AgeRange       string     `json:"ageRange"`
	OrderCount     int        `json:"orderCount"`
	FirstOrderDate time.Time  `json:"firstOrderDate"`
	LastOrderDate  time.Time  `json:"lastOrderDate"`
	ProductsIDs    []string   `json:"productsIds"`
	Products       []string   `json:"products"`
}

// Pagination describes the customer listing slice. TotalPages is
// ceil(Total/Limit) and the customers array never exceeds Limit entries.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// CustomerReport bundles the echoed filter state, the seven facets, the
// independent monthly order rollup, and (when requested) the paginated
// customer listing.
type CustomerReport struct {
	Filters              FilterEcho         `json:"filters"`
	Overview             Overview           `json:"overview"`
	ByCity               []CityStat         `json:"byCity"`
	ByState              []StateStat        `json:"byState"`
	AgeRanges            []RangeCount       `json:"ageRanges"`
	PurchaseFrequency    []RangeCount       `json:"purchaseFrequency"`
	CustomersByYearMonth []MonthlyCustomers `json:"customersByYearMonth"`
	OrdersByYearMonth    []MonthlyOrders    `json:"ordersByYearMonth"`
	ProductsBreakdown    []ProductStat      `json:"productsBreakdown"`
	Pagination           *Pagination        `json:"pagination,omitempty"`
	Customers            []CustomerCard     `json:"customers,omitempty"`
}
