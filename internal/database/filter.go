// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package database

import "time"

// DateField selects which timestamp of an analytics record the query date
// window applies to.
type DateField string

// Supported date fields.
const (
	DateFieldCreatedAt       DateField = "createdAt"
	DateFieldReservationDate DateField = "reservationDate"
	DateFieldUserCreatedAt   DateField = "userCreatedAt"
)

// CustomerFilter contains the filter parameters applied to analytics_orders
// by both the grouped customer query and the monthly orders rollup.
//
// All fields are optional and combine with AND logic. StateNorm, CityNorm,
// and CitiesNorm must already be uppercase-trimmed; the engine normalizes
// caller input before building the filter. CityNorm takes precedence over
// CitiesNorm.
//
// StartDate/EndDate are YYYY-MM-DD strings. Against createdAt and
// userCreatedAt they expand to inclusive UTC day boundaries
// (00:00:00 .. 23:59:59.999); against reservationDate they compare lexically
// since the column stores YYYY-MM-DD strings.
type CustomerFilter struct {
	DateField  DateField
	StartDate  string
	EndDate    string
	ProductIDs []string
	StateNorm  string
	CityNorm   string
	CitiesNorm []string
}

// dateColumn maps a DateField to its analytics_orders column.
func dateColumn(field DateField) string {
	switch field {
	case DateFieldCreatedAt:
		return "created_at"
	case DateFieldReservationDate:
		return "reservation_date"
	default:
		return "user_created_at"
	}
}

// dayStart parses a YYYY-MM-DD string as UTC midnight.
func dayStart(date string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", date, time.UTC)
	return t
}

// dayEnd parses a YYYY-MM-DD string as the last representable millisecond of
// the day in UTC.
func dayEnd(date string) time.Time {
	return dayStart(date).Add(24*time.Hour - time.Millisecond)
}

// buildFilterConditions generates parameterized WHERE clauses for the filter.
// When forceCreatedAt is set the date window applies to created_at regardless
// of f.DateField; the monthly orders rollup uses this to keep its own window
// independent of the facet query's date field.
func buildFilterConditions(f CustomerFilter, forceCreatedAt bool) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}

	field := f.DateField
	if forceCreatedAt {
		field = DateFieldCreatedAt
	}
	col := dateColumn(field)

	if field == DateFieldReservationDate {
		if f.StartDate != "" {
			clauses = append(clauses, col+" >= ?")
			args = append(args, f.StartDate)
		}
		if f.EndDate != "" {
			clauses = append(clauses, col+" <= ?")
			args = append(args, f.EndDate)
		}
	} else {
		if f.StartDate != "" {
			clauses = append(clauses, col+" >= ?")
			args = append(args, dayStart(f.StartDate))
		}
		if f.EndDate != "" {
			clauses = append(clauses, col+" <= ?")
			args = append(args, dayEnd(f.EndDate))
		}
	}

	if len(f.ProductIDs) > 0 {
		clauses = append(clauses, "products_id IN ("+placeholders(len(f.ProductIDs))+")")
		for _, id := range f.ProductIDs {
			args = append(args, id)
		}
	}

	if f.StateNorm != "" {
		clauses = append(clauses, "user_state_norm = ?")
		args = append(args, f.StateNorm)
	}

	if f.CityNorm != "" {
		clauses = append(clauses, "user_city_norm = ?")
		args = append(args, f.CityNorm)
	} else if len(f.CitiesNorm) > 0 {
		clauses = append(clauses, "user_city_norm IN ("+placeholders(len(f.CitiesNorm))+")")
		for _, c := range f.CitiesNorm {
			args = append(args, c)
		}
	}

	return clauses, args
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	s := make([]byte, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			s = append(s, ',')
		}
		s = append(s, '?')
	}
	return string(s)
}
