// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import (
	"fmt"
	"math"
	"sort"
)

// PriceBand is a half-open unit price interval [Min, Max).
type PriceBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price falls inside the band.
func (b PriceBand) Contains(price float64) bool {
	return price >= b.Min && price < b.Max
}

// DefaultPriceBands maps each budget tier to its price band.
// Adjacent bands overlap so boundary prices serve both tiers.
func DefaultPriceBands() map[BudgetTier]PriceBand {
	return map[BudgetTier]PriceBand{
		BudgetLow:    {Min: 0, Max: 20},
		BudgetMedium: {Min: 15, Max: 50},
		BudgetHigh:   {Min: 40, Max: math.Inf(1)},
	}
}

// TableOptions controls shortlist construction.
type TableOptions struct {
	// PerCategory is the maximum number of products taken from one category.
	PerCategory int
	// Cap is the maximum shortlist length.
	Cap int
	// Bands maps budget tiers to price bands. Nil uses DefaultPriceBands.
	Bands map[BudgetTier]PriceBand
}

func (o TableOptions) withDefaults() TableOptions {
	if o.PerCategory <= 0 {
		o.PerCategory = DefaultPerCategory
	}
	if o.Cap <= 0 {
		o.Cap = DefaultShortlistCap
	}
	if o.Bands == nil {
		o.Bands = DefaultPriceBands()
	}
	return o
}

// BuildTable computes the ranked shortlist of every cluster in [0, k).
// Clusters without budget data or eligible products get an empty list.
func BuildTable(users []UserProfile, assignments []int, k int, catalog []Product, opts TableOptions) (RecommendationTable, error) {
	if len(assignments) != len(users) {
		return nil, fmt.Errorf("%w: %d assignments for %d users",
			ErrInternalConsistency, len(assignments), len(users))
	}
	opts = opts.withDefaults()

	members := make([][]int, k)
	for i, c := range assignments {
		if c < 0 || c >= k {
			return nil, fmt.Errorf("%w: user %d assigned to cluster %d outside [0,%d)",
				ErrInternalConsistency, users[i].ID, c, k)
		}
		members[c] = append(members[c], i)
	}

	categoryOf := make(map[int64]int64, len(catalog))
	for _, p := range catalog {
		categoryOf[p.ID] = p.CategoryID
	}

	table := make(RecommendationTable, k)
	for c := 0; c < k; c++ {
		table[c] = buildShortlist(users, members[c], catalog, categoryOf, opts)
	}
	return table, nil
}

// buildShortlist ranks one cluster's categories and fills it from the eligible subset.
func buildShortlist(users []UserProfile, members []int, catalog []Product, categoryOf map[int64]int64, opts TableOptions) []Product {
	bands := observedBands(users, members, opts.Bands)
	if len(bands) == 0 {
		return []Product{}
	}

	byCategory := eligibleByCategory(catalog, bands)
	if len(byCategory) == 0 {
		return []Product{}
	}

	shortlist := make([]Product, 0, opts.Cap)
	for _, category := range rankCategories(users, members, categoryOf) {
		products := byCategory[category]
		for i := 0; i < len(products) && i < opts.PerCategory; i++ {
			if len(shortlist) == opts.Cap {
				return shortlist
			}
			shortlist = append(shortlist, products[i])
		}
		if len(shortlist) == opts.Cap {
			break
		}
	}
	return shortlist
}

// observedBands returns the deduplicated price bands of a cluster's budget tiers.
func observedBands(users []UserProfile, members []int, bandOf map[BudgetTier]PriceBand) []PriceBand {
	seen := make(map[BudgetTier]struct{})
	var bands []PriceBand
	for _, i := range members {
		tier := users[i].Budget
		if tier == BudgetNone {
			continue
		}
		if _, dup := seen[tier]; dup {
			continue
		}
		seen[tier] = struct{}{}
		if band, ok := bandOf[tier]; ok {
			bands = append(bands, band)
		}
	}
	return bands
}

// eligibleByCategory groups, in catalog order, every product priced inside any band.
func eligibleByCategory(catalog []Product, bands []PriceBand) map[int64][]Product {
	out := make(map[int64][]Product)
	seen := make(map[int64]struct{}, len(catalog))
	for _, p := range catalog {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		for _, b := range bands {
			if b.Contains(p.UnitPrice) {
				seen[p.ID] = struct{}{}
				out[p.CategoryID] = append(out[p.CategoryID], p)
				break
			}
		}
	}
	return out
}

// rankCategories orders categories by purchase frequency within the cluster.
// Ties keep the order in which a category was first observed.
func rankCategories(users []UserProfile, members []int, categoryOf map[int64]int64) []int64 {
	counts := make(map[int64]int)
	var order []int64
	for _, i := range members {
		for _, productID := range users[i].PurchaseHistory {
			category, ok := categoryOf[productID]
			if !ok {
				continue
			}
			if _, seen := counts[category]; !seen {
				order = append(order, category)
			}
			counts[category]++
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	return order
}
