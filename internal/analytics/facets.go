// Clientus - Customer Order Analytics and Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clientus

package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/tomtom215/clientus/internal/models"
	"github.com/tomtom215/clientus/internal/products"
)

// customer is one grouped row with its derived bucket fields. Derived once,
// then every facet pass reads the same slice independently.
type customer struct {
	models.CustomerGroup

	ageYears  *int
	ageRange  string
	freqRange string
}

// deriveCustomers computes the per-customer bucket fields at the given
// reference time.
func deriveCustomers(groups []models.CustomerGroup, now time.Time) []customer {
	out := make([]customer, len(groups))
	for i, g := range groups {
		age := ageYears(g.BirthDateNormalized, now)
		out[i] = customer{
			CustomerGroup: g,
			ageYears:      age,
			ageRange:      ageRange(age),
			freqRange:     freqRange(g.OrderCount),
		}
	}
	return out
}

// round2 keeps averages presentable without float noise in the payload.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func overviewFacet(customers []customer) models.Overview {
	o := models.Overview{Customers: len(customers)}
	for i := range customers {
		o.TotalOrders += customers[i].OrderCount
	}
	if o.Customers > 0 {
		o.AvgOrdersPerCustomer = round2(float64(o.TotalOrders) / float64(o.Customers))
	}
	return o
}

func byCityFacet(customers []customer, top int) []models.CityStat {
	type key struct{ city, state string }
	counts := make(map[key]*models.CityStat)
	orders := make(map[key]int)

	for i := range customers {
		c := &customers[i]
		k := key{c.UserCityNorm, c.UserStateNorm}
		if counts[k] == nil {
			counts[k] = &models.CityStat{City: k.city, State: k.state}
		}
		counts[k].Customers++
		orders[k] += c.OrderCount
	}

	out := make([]models.CityStat, 0, len(counts))
	for k, stat := range counts {
		stat.AvgOrders = round2(float64(orders[k]) / float64(stat.Customers))
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Customers != out[j].Customers {
			return out[i].Customers > out[j].Customers
		}
		if out[i].City != out[j].City {
			return out[i].City < out[j].City
		}
		return out[i].State < out[j].State
	})
	if len(out) > top {
		out = out[:top]
	}
	return out
}

func byStateFacet(customers []customer) []models.StateStat {
	counts := make(map[string]*models.StateStat)
	orders := make(map[string]int)

	for i := range customers {
		c := &customers[i]
		if counts[c.UserStateNorm] == nil {
			counts[c.UserStateNorm] = &models.StateStat{State: c.UserStateNorm}
		}
		counts[c.UserStateNorm].Customers++
		orders[c.UserStateNorm] += c.OrderCount
	}

	out := make([]models.StateStat, 0, len(counts))
	for state, stat := range counts {
		stat.AvgOrders = round2(float64(orders[state]) / float64(stat.Customers))
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Customers != out[j].Customers {
			return out[i].Customers > out[j].Customers
		}
		return out[i].State < out[j].State
	})
	return out
}

func ageRangesFacet(customers []customer) []models.RangeCount {
	counts := make(map[string]int)
	for i := range customers {
		counts[customers[i].ageRange]++
	}

	out := make([]models.RangeCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, models.RangeCount{Range: label, Customers: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range < out[j].Range })
	return out
}

// purchaseFrequencyFacet emits buckets in their fixed numeric order; buckets
// with no customers are omitted rather than zero-filled.
func purchaseFrequencyFacet(customers []customer) []models.RangeCount {
	counts := make(map[string]int)
	for i := range customers {
		counts[customers[i].freqRange]++
	}

	out := make([]models.RangeCount, 0, len(counts))
	for _, label := range freqBucketOrder {
		if n := counts[label]; n > 0 {
			out = append(out, models.RangeCount{Range: label, Customers: n})
		}
	}
	return out
}

// customersByYearMonthFacet counts customers per calendar month of profile
// creation, skipping customers without a true signup timestamp.
func customersByYearMonthFacet(customers []customer) []models.MonthlyCustomers {
	type key struct{ year, month int }
	counts := make(map[key]int)

	for i := range customers {
		created := customers[i].UserCreatedAt
		if created == nil {
			continue
		}
		t := created.UTC()
		counts[key{t.Year(), int(t.Month())}]++
	}

	out := make([]models.MonthlyCustomers, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.MonthlyCustomers{Year: k.year, Month: k.month, Customers: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// productsBreakdownFacet counts each customer once per distinct product id
// they bought, annotating rows with their alias label.
func productsBreakdownFacet(customers []customer, resolver *products.Resolver) []models.ProductStat {
	counts := make(map[string]int)
	for i := range customers {
		for _, id := range customers[i].ProductIDs {
			counts[id]++
		}
	}

	out := make([]models.ProductStat, 0, len(counts))
	for id, n := range counts {
		out = append(out, models.ProductStat{
			ProductID:    id,
			Customers:    n,
			ProductLabel: resolver.LabelFor(id),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Customers != out[j].Customers {
			return out[i].Customers > out[j].Customers
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// customerListing sorts the grouped rows by latest order descending, slices
// the requested page, and projects flat customer cards. The pagination total
// always reflects the full matching set, independent of the slice.
func customerListing(customers []customer, page, limit int, resolver *products.Resolver) ([]models.CustomerCard, models.Pagination) {
	sorted := make([]customer, len(customers))
	copy(sorted, customers)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].LastOrderDate.Equal(sorted[j].LastOrderDate) {
			return sorted[i].LastOrderDate.After(sorted[j].LastOrderDate)
		}
		return sorted[i].BuyerID < sorted[j].BuyerID
	})

	total := len(sorted)
	pagination := models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}

	start := (page - 1) * limit
	if start >= total {
		return []models.CustomerCard{}, pagination
	}
	end := start + limit
	if end > total {
		end = total
	}

	cards := make([]models.CustomerCard, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, customerCard(&sorted[i], resolver))
	}
	return cards, pagination
}

func customerCard(c *customer, resolver *products.Resolver) models.CustomerCard {
	return models.CustomerCard{
		CustomerID:     c.BuyerID,
		Name:           deref(c.UserName),
		Email:          deref(c.UserEmail),
		Phone:          deref(c.UserPhone),
		City:           derefOr(c.UserCity, c.UserCityNorm),
		State:          derefOr(c.UserState, c.UserStateNorm),
		BirthDate:      c.BirthDateNormalized,
		AgeYears:       c.ageYears,
		AgeRange:       c.ageRange,
		OrderCount:     c.OrderCount,
		FirstOrderDate: c.FirstOrderDate,
		LastOrderDate:  c.LastOrderDate,
		ProductsIDs:    c.ProductIDs,
		Products:       resolver.Labels(c.ProductIDs),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// derefOr falls back to the normalized label so cards never show an empty
// location for customers grouped under the default labels.
func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
