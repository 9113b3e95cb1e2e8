// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Category ids used by the fixtures.
const (
	catSkincare  int64 = 10
	catHaircare  int64 = 20
	catMakeup    int64 = 30
	catFragrance int64 = 40
)

func testCatalog() []Product {
	return []Product{
		{ID: 1, Name: "Crème hydratante", Brand: "Lilas", CategoryID: catSkincare, UnitPrice: 12},
		{ID: 2, Name: "Sérum anti-âge", Brand: "Lilas", CategoryID: catSkincare, UnitPrice: 18},
		{ID: 3, Name: "Gel nettoyant", Brand: "Zitouna", CategoryID: catSkincare, UnitPrice: 35},
		{ID: 4, Name: "Shampooing doux", Brand: "Zitouna", CategoryID: catHaircare, UnitPrice: 9},
		{ID: 5, Name: "Masque capillaire", Brand: "Atlas", CategoryID: catHaircare, UnitPrice: 16},
		{ID: 6, Name: "Huile argan", Brand: "Atlas", CategoryID: catHaircare, UnitPrice: 45},
		{ID: 7, Name: "Rouge à lèvres", Brand: "Maison", CategoryID: catMakeup, UnitPrice: 22},
		{ID: 8, Name: "Mascara", Brand: "Maison", CategoryID: catMakeup, UnitPrice: 14},
		{ID: 9, Name: "Eau de parfum", Brand: "Jasmin", CategoryID: catFragrance, UnitPrice: 120},
		{ID: 10, Name: "Brume parfumée", Brand: "Jasmin", CategoryID: catFragrance, UnitPrice: 42},
	}
}

// groupA and groupB are two clearly separated preference profiles.
func groupA() Preferences {
	return Preferences{
		Interest: "Oui", CosmeticObjective: "Hydratation", SkinConcern: "Sécheresse",
		CosmeticPreference: "Bio", SkinType: "Sèche", HairType: "Sec",
		LocalBrandsUsed: "Oui", InternationalPreference: "Non", LocalVsInternational: "Local",
		PurchaseChannel: "Magasin", PurchaseCriterion: "Prix",
	}
}

func groupB() Preferences {
	return Preferences{
		Interest: "Non", CosmeticObjective: "Anti-âge", SkinConcern: "Rougeurs",
		CosmeticPreference: "Conventionnel", SkinType: "Grasse", HairType: "Gras",
		LocalBrandsUsed: "Non", InternationalPreference: "Oui", LocalVsInternational: "International",
		PurchaseChannel: "En ligne", PurchaseCriterion: "Marque",
	}
}

// testPopulation returns n users alternating between the two groups.
func testPopulation(n int) []UserProfile {
	users := make([]UserProfile, n)
	for i := range users {
		u := UserProfile{ID: int64(i + 1)}
		if i%2 == 0 {
			u.Preferences = groupA()
			u.Budget = BudgetLow
			u.PurchaseHistory = []int64{4, 5, 1}
		} else {
			u.Preferences = groupB()
			u.Budget = BudgetHigh
			u.PurchaseHistory = []int64{9, 10, 7}
		}
		// Vary one attribute so clusters beyond two have something to split on.
		u.Preferences.LocalBrandsUsed = fmt.Sprintf("%s-%d", u.Preferences.LocalBrandsUsed, i%3)
		users[i] = u
	}
	return users
}

func answersFor(p Preferences, budget string) map[string]string {
	answers := make(map[string]string, len(Attributes)+1)
	for _, a := range Attributes {
		answers[string(a)] = p.Value(a)
	}
	answers[BudgetKey] = budget
	return answers
}

// mockProfileSource implements ProfileSource for testing.
type mockProfileSource struct {
	users       []UserProfile
	products    []Product
	usersErr    error
	productsErr error
	loadCalls   atomic.Int32
	block       chan struct{}
}

func (m *mockProfileSource) LoadUsers(ctx context.Context) ([]UserProfile, error) {
	m.loadCalls.Add(1)
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.usersErr != nil {
		return nil, m.usersErr
	}
	return m.users, nil
}

func (m *mockProfileSource) LoadProducts(ctx context.Context) ([]Product, error) {
	if m.productsErr != nil {
		return nil, m.productsErr
	}
	return m.products, nil
}

// stubRecommender returns a fixed result.
type stubRecommender struct {
	products []Product
	cluster  int
	err      error
	calls    int
	last     map[string]string
}

func (s *stubRecommender) Recommend(answers map[string]string) ([]Product, int, error) {
	s.calls++
	s.last = answers
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.products, s.cluster, nil
}

// separatedPopulation returns n users split into two identical-profile groups.
// Group A buys hair and skin care on a low budget, group B buys fragrance and
// makeup on a high budget.
func separatedPopulation(n int) []UserProfile {
	users := make([]UserProfile, n)
	for i := range users {
		u := UserProfile{ID: int64(i + 1)}
		if i%2 == 0 {
			u.Preferences = groupA()
			u.Budget = BudgetLow
			u.PurchaseHistory = []int64{4, 5, 1}
		} else {
			u.Preferences = groupB()
			u.Budget = BudgetHigh
			u.PurchaseHistory = []int64{9, 10, 7}
		}
		users[i] = u
	}
	return users
}

func productIDs(products []Product) []int64 {
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
