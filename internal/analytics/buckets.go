// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package analytics

import "time"

// NoAgeLabel buckets customers without a usable birth date.
const NoAgeLabel = "Sem idade"

// freqBucketOrder is the fixed display order of the purchase-frequency
// buckets. Numeric, not lexical: "10+" comes after "6-9".
var freqBucketOrder = []string{"1", "2-3", "4-5", "6-9", "10+"}

// ageYears computes completed years of age at now, or nil without a birth
// date. The birthday has occurred this year when the birth month is past, or
// it is the current month and the birth day is today or earlier.
func ageYears(birthDate *time.Time, now time.Time) *int {
	if birthDate == nil {
		return nil
	}
	b := birthDate.UTC()
	n := now.UTC()

	years := n.Year() - b.Year()
	occurred := b.Month() < n.Month() || (b.Month() == n.Month() && b.Day() <= n.Day())
	if !occurred {
		years--
	}
	return &years
}

// ageRange buckets an age into its display range.
func ageRange(age *int) string {
	if age == nil {
		return NoAgeLabel
	}
	switch a := *age; {
	case a < 18:
		return "0-17"
	case a < 30:
		return "18-29"
	case a < 40:
		return "30-39"
	case a < 50:
		return "40-49"
	case a < 60:
		return "50-59"
	case a < 70:
		return "60-69"
	default:
		return "70+"
	}
}

// freqRange buckets an order count into its purchase-frequency range.
func freqRange(orderCount int) string {
	switch {
	case orderCount <= 1:
		return "1"
	case orderCount <= 3:
		return "2-3"
	case orderCount <= 5:
		return "4-5"
	case orderCount <= 9:
		return "6-9"
	default:
		return "10+"
	}
}
