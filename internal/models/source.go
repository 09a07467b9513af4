// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package models

import "time"

// Order is a source-of-truth transactional record written by the upstream
// order-taking system. Orders are immutable once created; Clientus only ever
// reads them.
//
// DocType discriminates record kinds in the shared source table; only rows
// with DocType "order" and Status "success" feed the analytics rebuild.
type Order struct {
	ID              string
	DocType         string
	Status          string
	BuyerID         *string
	ProductsID      *string
	ReservationDate *string // YYYY-MM-DD
	CreatedAt       time.Time
}

// UserProfile is a source-of-truth buyer profile record, owned by the upstream
// system and read-only here.
//
// The birth date is heterogeneous at the source: BirthDateTS is set when the
// upstream wrote a true date value, while BirthDate carries the raw string
// form (DD/MM/YYYY, YYYY-MM-DD, or a full timestamp string). The phone number
// may arrive under either of two field names (PhoneNumber or Phone).
type UserProfile struct {
	ID          string
	DocType     string
	Title       *string
	Username    *string
	Email       *string
	PhoneNumber *string
	Phone       *string
	City        *string
	State       *string
	BirthDate   *string
	BirthDateTS *time.Time
	CreatedAt   *time.Time
}

// RebuildRow is one order joined (left-outer) to its buyer profile, before
// field normalization. Profile fields are nil when no profile matched.
type RebuildRow struct {
	OrderID         string
	BuyerID         *string
	ProductsID      *string
	ReservationDate *string
	CreatedAt       time.Time

	UserTitle       *string
	UserUsername    *string
	UserEmail       *string
	UserPhoneNumber *string
	UserPhone       *string
	UserCity        *string
	UserState       *string
	UserBirthDate   *string
	UserBirthDateTS *time.Time
	UserCreatedAt   *time.Time
}

// AnalyticsOrder is the denormalized analytics record, one per successful
// order, keyed by the order ID. Created or fully replaced by the rebuild
// pipeline; the query stage never writes it.
//
// Invariant: UserCityNorm and UserStateNorm are always uppercase-trimmed,
// defaulting to "Sem cidade"/"Sem estado" when the source field is absent.
type AnalyticsOrder struct {
	ID                  string
	BuyerID             *string
	ProductsID          *string
	ReservationDate     *string
	CreatedAt           time.Time
	UserCreatedAt       *time.Time
	BirthDateNormalized *time.Time
	UserCity            *string
	UserState           *string
	UserCityNorm        string
	UserStateNorm       string
	UserName            *string
	UserEmail           *string
	UserPhone           *string
	UpdatedAt           time.Time
}

// CustomerGroup is one row of the grouped intermediate dataset: all matching
// analytics records collapsed to a single row per distinct buyer. Profile
// fields carry first-seen values; "first" is whichever row the grouping scan
// visits first and callers must not depend on which.
type CustomerGroup struct {
	BuyerID             string
	OrderCount          int
	FirstOrderDate      time.Time
	LastOrderDate       time.Time
	ProductIDs          []string
	UserCity            *string
	UserState           *string
	UserCityNorm        string
	UserStateNorm       string
	BirthDateNormalized *time.Time
	UserCreatedAt       *time.Time
	UserName            *string
	UserEmail           *string
	UserPhone           *string
}
