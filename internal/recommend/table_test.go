// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import (
	"errors"
	"math"
	"testing"
)

func TestPriceBand_Overlap(t *testing.T) {
	bands := DefaultPriceBands()

	tests := []struct {
		price float64
		tiers []BudgetTier
	}{
		{0, []BudgetTier{BudgetLow}},
		{14.99, []BudgetTier{BudgetLow}},
		{15, []BudgetTier{BudgetLow, BudgetMedium}},
		{18, []BudgetTier{BudgetLow, BudgetMedium}},
		{20, []BudgetTier{BudgetMedium}},
		{40, []BudgetTier{BudgetMedium, BudgetHigh}},
		{49.99, []BudgetTier{BudgetMedium, BudgetHigh}},
		{50, []BudgetTier{BudgetHigh}},
		{10000, []BudgetTier{BudgetHigh}},
	}

	for _, tt := range tests {
		want := make(map[BudgetTier]bool)
		for _, tier := range tt.tiers {
			want[tier] = true
		}
		for _, tier := range []BudgetTier{BudgetLow, BudgetMedium, BudgetHigh} {
			if got := bands[tier].Contains(tt.price); got != want[tier] {
				t.Errorf("price %v in %s band = %v, want %v", tt.price, tier, got, want[tier])
			}
		}
	}

	if !math.IsInf(bands[BudgetHigh].Max, 1) {
		t.Errorf("high band should be unbounded, got max %v", bands[BudgetHigh].Max)
	}
}

func TestBuildTable_SeparatedClusters(t *testing.T) {
	users := separatedPopulation(6)
	assign := []int{0, 1, 0, 1, 0, 1}

	table, err := BuildTable(users, assign, 2, testCatalog(), TableOptions{})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}

	// Low band, haircare (6 purchases) before skincare (3), makeup never bought.
	if got, want := productIDs(table[0]), []int64{4, 5, 1, 2}; !equalIDs(got, want) {
		t.Errorf("cluster 0 shortlist = %v, want %v", got, want)
	}
	// High band, fragrance first; makeup has nothing priced >= 40.
	if got, want := productIDs(table[1]), []int64{9, 10}; !equalIDs(got, want) {
		t.Errorf("cluster 1 shortlist = %v, want %v", got, want)
	}
}

func TestBuildTable_OverlapServesBothTiers(t *testing.T) {
	catalog := []Product{{ID: 42, Name: "Baume", CategoryID: catSkincare, UnitPrice: 18}}

	for _, tier := range []BudgetTier{BudgetLow, BudgetMedium} {
		users := []UserProfile{{ID: 1, Budget: tier, PurchaseHistory: []int64{42}}}
		table, err := BuildTable(users, []int{0}, 1, catalog, TableOptions{})
		if err != nil {
			t.Fatalf("BuildTable(%s): %v", tier, err)
		}
		if got := productIDs(table[0]); !equalIDs(got, []int64{42}) {
			t.Errorf("%s tier shortlist = %v, want [42]", tier, got)
		}
	}
}

func TestBuildTable_CapAndPerCategoryLimit(t *testing.T) {
	var catalog []Product
	var history []int64
	for cat := int64(1); cat <= 4; cat++ {
		for j := int64(0); j < 3; j++ {
			id := cat*100 + j
			catalog = append(catalog, Product{ID: id, CategoryID: cat, UnitPrice: 10})
			history = append(history, id)
		}
	}
	users := []UserProfile{{ID: 1, Budget: BudgetLow, PurchaseHistory: history}}

	table, err := BuildTable(users, []int{0}, 1, catalog, TableOptions{})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}

	got := table[0]
	if len(got) != DefaultShortlistCap {
		t.Fatalf("shortlist length = %d, want %d", len(got), DefaultShortlistCap)
	}
	perCategory := make(map[int64]int)
	for _, p := range got {
		perCategory[p.CategoryID]++
		if perCategory[p.CategoryID] > DefaultPerCategory {
			t.Errorf("category %d contributed more than %d products", p.CategoryID, DefaultPerCategory)
		}
	}
	if want := []int64{100, 101, 200, 201, 300}; !equalIDs(productIDs(got), want) {
		t.Errorf("shortlist = %v, want %v", productIDs(got), want)
	}
}

func TestBuildTable_TieBrokenByFirstAppearance(t *testing.T) {
	catalog := []Product{
		{ID: 1, CategoryID: catMakeup, UnitPrice: 5},
		{ID: 2, CategoryID: catSkincare, UnitPrice: 5},
		{ID: 3, CategoryID: catHaircare, UnitPrice: 5},
	}
	users := []UserProfile{
		{ID: 1, Budget: BudgetLow, PurchaseHistory: []int64{3, 2}},
		{ID: 2, Budget: BudgetLow, PurchaseHistory: []int64{1, 2, 3}},
	}

	table, err := BuildTable(users, []int{0, 0}, 1, catalog, TableOptions{})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	// Haircare and skincare tie at 2 with haircare seen first; makeup has 1.
	if got, want := productIDs(table[0]), []int64{3, 2, 1}; !equalIDs(got, want) {
		t.Errorf("shortlist = %v, want %v", got, want)
	}
}

func TestBuildTable_EmptyShortlists(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name   string
		users  []UserProfile
		assign []int
	}{
		{
			name:   "cluster without users",
			users:  []UserProfile{{ID: 1, Budget: BudgetLow, PurchaseHistory: []int64{1}}},
			assign: []int{0},
		},
		{
			name: "cluster without budget data",
			users: []UserProfile{
				{ID: 1, Budget: BudgetLow, PurchaseHistory: []int64{1}},
				{ID: 2, PurchaseHistory: []int64{1}},
			},
			assign: []int{0, 1},
		},
		{
			name: "cluster whose categories have nothing in band",
			users: []UserProfile{
				{ID: 1, Budget: BudgetLow, PurchaseHistory: []int64{1}},
				{ID: 2, Budget: BudgetLow, PurchaseHistory: []int64{9}},
			},
			assign: []int{0, 1},
		},
		{
			name: "cluster with unknown purchase ids only",
			users: []UserProfile{
				{ID: 1, Budget: BudgetLow, PurchaseHistory: []int64{1}},
				{ID: 2, Budget: BudgetLow, PurchaseHistory: []int64{999}},
			},
			assign: []int{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := BuildTable(tt.users, tt.assign, 2, catalog, TableOptions{})
			if err != nil {
				t.Fatalf("BuildTable: %v", err)
			}
			list, ok := table[1]
			if !ok {
				t.Fatal("cluster 1 missing from table")
			}
			if list == nil || len(list) != 0 {
				t.Errorf("cluster 1 shortlist = %v, want empty non-nil slice", list)
			}
			if len(table[0]) == 0 {
				t.Error("cluster 0 should still have recommendations")
			}
		})
	}
}

func TestBuildTable_InconsistentAssignments(t *testing.T) {
	users := separatedPopulation(2)

	if _, err := BuildTable(users, []int{0}, 2, testCatalog(), TableOptions{}); !errors.Is(err, ErrInternalConsistency) {
		t.Errorf("length mismatch: expected ErrInternalConsistency, got %v", err)
	}
	if _, err := BuildTable(users, []int{0, 2}, 2, testCatalog(), TableOptions{}); !errors.Is(err, ErrInternalConsistency) {
		t.Errorf("out of range cluster: expected ErrInternalConsistency, got %v", err)
	}
}

func TestBuildTable_DuplicateCatalogRows(t *testing.T) {
	catalog := []Product{
		{ID: 1, CategoryID: catSkincare, UnitPrice: 5},
		{ID: 1, CategoryID: catSkincare, UnitPrice: 5},
		{ID: 2, CategoryID: catSkincare, UnitPrice: 6},
	}
	users := []UserProfile{{ID: 1, Budget: BudgetLow, PurchaseHistory: []int64{1}}}

	table, err := BuildTable(users, []int{0}, 1, catalog, TableOptions{})
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	if got, want := productIDs(table[0]), []int64{1, 2}; !equalIDs(got, want) {
		t.Errorf("shortlist = %v, want %v", got, want)
	}
}
