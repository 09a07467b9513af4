// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package database

import (
	"database/sql"
	"strings"
	"time"
)

// whereSQL joins clauses into a WHERE fragment, or "" when empty.
func whereSQL(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

// nullableStr converts an optional string for statement arguments.
func nullableStr(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// nullableTime converts an optional timestamp for statement arguments,
// normalizing to UTC so TIMESTAMP columns are stable across sessions.
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// strPtr converts a scanned NullString to an optional string.
func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// timePtr converts a scanned NullTime to an optional UTC timestamp.
func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
