// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

// Package normalize provides pure functions that turn raw, inconsistent
// profile fields into canonical forms: uppercase-trimmed city/state labels
// and a single normalized birth date from heterogeneous source encodings.
//
// All functions here are total. Per-record normalization failures are
// absorbed into the Unparseable outcome rather than returned as errors, so
// one bad profile field never aborts a rebuild batch.
package normalize

import (
	"strings"
	"time"
)

// Default labels substituted when a location field is absent at the source.
const (
	NoCityLabel  = "Sem cidade"
	NoStateLabel = "Sem estado"
)

// Location returns the canonical uppercase-trimmed form of a raw location
// field. Absent values get the literal defaultLabel, not its uppercase form,
// so a missing city groups under "Sem cidade" rather than "SEM CIDADE".
func Location(raw *string, defaultLabel string) string {
	if raw == nil || *raw == "" {
		return defaultLabel
	}
	return strings.TrimSpace(strings.ToUpper(*raw))
}

// BirthDateKind tags the outcome of birth-date normalization.
type BirthDateKind int

const (
	// BirthDateUnparseable means no usable date could be derived; the
	// normalized value is null.
	BirthDateUnparseable BirthDateKind = iota

	// BirthDateTrue means the source already carried a true date value,
	// passed through unchanged.
	BirthDateTrue

	// BirthDateParsed means the date was recovered from a string encoding
	// (DD/MM/YYYY or YYYY-MM-DD).
	BirthDateParsed
)

// BirthDateResult is the three-way tagged outcome of birth-date
// normalization. Time is only meaningful when Kind is BirthDateTrue or
// BirthDateParsed.
type BirthDateResult struct {
	Kind BirthDateKind
	Time time.Time
}

// TimePtr returns the normalized date, or nil for the Unparseable outcome.
func (r BirthDateResult) TimePtr() *time.Time {
	if r.Kind == BirthDateUnparseable {
		return nil
	}
	t := r.Time
	return &t
}

// BirthDate normalizes a heterogeneous birth-date field. A true date value
// (ts) wins and passes through unchanged. Otherwise the raw string is cut to
// its first 10 bytes and trimmed: a "/" selects day/month/year parsing, a "-"
// selects year-month-day, anything else is unparseable. Invalid calendar
// dates are unparseable rather than errors.
func BirthDate(ts *time.Time, raw *string) BirthDateResult {
	if ts != nil {
		return BirthDateResult{Kind: BirthDateTrue, Time: *ts}
	}
	if raw == nil {
		return BirthDateResult{Kind: BirthDateUnparseable}
	}

	s := *raw
	if len(s) > 10 {
		s = s[:10]
	}
	s = strings.TrimSpace(s)

	var layout string
	switch {
	case strings.Contains(s, "/"):
		layout = "02/01/2006"
	case strings.Contains(s, "-"):
		layout = "2006-01-02"
	default:
		return BirthDateResult{Kind: BirthDateUnparseable}
	}

	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return BirthDateResult{Kind: BirthDateUnparseable}
	}
	return BirthDateResult{Kind: BirthDateParsed, Time: t}
}
