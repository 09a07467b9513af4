// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package normalize

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestLocation(t *testing.T) {
	tests := []struct {
		name     string
		raw      *string
		def      string
		expected string
	}{
		{"lowercase with padding", strPtr("  são paulo "), NoCityLabel, "SÃO PAULO"},
		{"already canonical", strPtr("SP"), NoStateLabel, "SP"},
		{"absent uses literal default", nil, NoCityLabel, "Sem cidade"},
		{"absent state", nil, NoStateLabel, "Sem estado"},
		{"empty string uses default", strPtr(""), NoCityLabel, "Sem cidade"},
		{"whitespace only trims to empty", strPtr("   "), NoCityLabel, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Location(tt.raw, tt.def); got != tt.expected {
				t.Errorf("Location(%v, %q) = %q, want %q", tt.raw, tt.def, got, tt.expected)
			}
		})
	}
}

func TestBirthDate_SlashFormat(t *testing.T) {
	res := BirthDate(nil, strPtr("15/03/1990"))
	if res.Kind != BirthDateParsed {
		t.Fatalf("Expected parsed outcome, got kind %d", res.Kind)
	}
	if res.Time.Year() != 1990 || res.Time.Month() != time.March || res.Time.Day() != 15 {
		t.Errorf("Expected 1990-03-15, got %v", res.Time)
	}
}

func TestBirthDate_DashFormat(t *testing.T) {
	res := BirthDate(nil, strPtr("1990-03-15"))
	if res.Kind != BirthDateParsed {
		t.Fatalf("Expected parsed outcome, got kind %d", res.Kind)
	}
	if res.Time.Year() != 1990 || res.Time.Month() != time.March || res.Time.Day() != 15 {
		t.Errorf("Expected 1990-03-15, got %v", res.Time)
	}
}

func TestBirthDate_FormatsAgree(t *testing.T) {
	slash := BirthDate(nil, strPtr("15/03/1990"))
	dash := BirthDate(nil, strPtr("1990-03-15"))
	if !slash.Time.Equal(dash.Time) {
		t.Errorf("Slash and dash forms disagree: %v vs %v", slash.Time, dash.Time)
	}
}

func TestBirthDate_TrueDatePassesThrough(t *testing.T) {
	d := time.Date(1985, time.July, 2, 0, 0, 0, 0, time.UTC)
	raw := "ignored"
	res := BirthDate(&d, &raw)
	if res.Kind != BirthDateTrue {
		t.Fatalf("Expected true-date outcome, got kind %d", res.Kind)
	}
	if !res.Time.Equal(d) {
		t.Errorf("True date changed: got %v, want %v", res.Time, d)
	}
}

func TestBirthDate_TimestampStringTruncated(t *testing.T) {
	// A full RFC3339 string is cut to its first 10 bytes before parsing
	res := BirthDate(nil, strPtr("1990-03-15T12:34:56Z"))
	if res.Kind != BirthDateParsed {
		t.Fatalf("Expected parsed outcome, got kind %d", res.Kind)
	}
	if res.Time.Year() != 1990 || res.Time.Month() != time.March || res.Time.Day() != 15 {
		t.Errorf("Expected 1990-03-15, got %v", res.Time)
	}
	if res.Time.Hour() != 0 {
		t.Errorf("Expected midnight UTC, got hour %d", res.Time.Hour())
	}
}

func TestBirthDate_Unparseable(t *testing.T) {
	tests := []struct {
		name string
		ts   *time.Time
		raw  *string
	}{
		{"garbage", nil, strPtr("not-a-date")},
		{"absent", nil, nil},
		{"empty", nil, strPtr("")},
		{"invalid calendar date slash", nil, strPtr("31/02/1990")},
		{"invalid calendar date dash", nil, strPtr("1990-02-31")},
		{"month out of range", nil, strPtr("15/13/1990")},
		{"digits only", nil, strPtr("19900315")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := BirthDate(tt.ts, tt.raw)
			if res.Kind != BirthDateUnparseable {
				t.Errorf("Expected unparseable, got kind %d (%v)", res.Kind, res.Time)
			}
			if res.TimePtr() != nil {
				t.Error("Expected nil TimePtr for unparseable outcome")
			}
		})
	}
}

func TestBirthDate_NeverPanics(t *testing.T) {
	inputs := []string{"/", "-", "//", "--", "1/2/3", "a-b-c", " 15/03/1990 garbage tail"}
	for _, in := range inputs {
		in := in
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("BirthDate(%q) panicked: %v", in, r)
				}
			}()
			BirthDate(nil, &in)
		}()
	}
}
