// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import (
	"fmt"
	"time"
)

// Pipeline bundles a fitted encoder, clusterer and recommendation table.
// It is built in one pass and never mutated afterwards, so it is safe for
// concurrent use without locking.
type Pipeline struct {
	encoder    *Encoder
	clusterer  *Clusterer
	table      RecommendationTable
	profiles   map[int]ClusterProfile
	sizes      map[int]int
	population int
	products   int
	builtAt    time.Time
}

// BuildPipeline fits the encoder and clusterer on the population and
// precomputes every cluster's shortlist.
func BuildPipeline(users []UserProfile, catalog []Product, cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: profile store returned no users", ErrDataUnavailable)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w: catalog returned no products", ErrDataUnavailable)
	}

	population := make([]Preferences, len(users))
	for i := range users {
		population[i] = users[i].Preferences
	}

	encoder, err := FitEncoder(population)
	if err != nil {
		return nil, err
	}

	clusterer := NewClusterer(cfg.Clusters, cfg.Seed, cfg.MaxIterations)
	assignments, err := clusterer.FitPredict(encoder.TransformAll(population))
	if err != nil {
		return nil, err
	}

	table, err := BuildTable(users, assignments, cfg.Clusters, catalog, cfg.TableOptions())
	if err != nil {
		return nil, err
	}

	sizes := make(map[int]int, cfg.Clusters)
	for _, c := range assignments {
		sizes[c]++
	}

	return &Pipeline{
		encoder:    encoder,
		clusterer:  clusterer,
		table:      table,
		profiles:   buildProfiles(users, assignments),
		sizes:      sizes,
		population: len(users),
		products:   len(catalog),
		builtAt:    time.Now().UTC(),
	}, nil
}

// Recommend looks up the shortlist for a completed answer set and returns
// it with the predicted cluster. Attributes missing from answers count as unknown.
func (p *Pipeline) Recommend(answers map[string]string) ([]Product, int, error) {
	vector := p.encoder.Transform(PreferencesFromAnswers(answers))
	cluster, err := p.clusterer.Predict(vector)
	if err != nil {
		return nil, 0, err
	}
	products, ok := p.table[cluster]
	if !ok {
		return nil, cluster, fmt.Errorf("%w: cluster %d not present in recommendation table",
			ErrInternalConsistency, cluster)
	}
	return append([]Product{}, products...), cluster, nil
}

// Shortlist returns a copy of one cluster's precomputed list.
func (p *Pipeline) Shortlist(cluster int) ([]Product, bool) {
	products, ok := p.table[cluster]
	if !ok {
		return nil, false
	}
	return append([]Product{}, products...), true
}

// Profiles returns the per-cluster attribute modes. Empty clusters are omitted.
func (p *Pipeline) Profiles() map[int]ClusterProfile {
	out := make(map[int]ClusterProfile, len(p.profiles))
	for c, profile := range p.profiles {
		cp := make(ClusterProfile, len(profile))
		for k, v := range profile {
			cp[k] = v
		}
		out[c] = cp
	}
	return out
}

// Stats summarizes a built pipeline.
type Stats struct {
	Clusters     int         `json:"clusters"`
	Population   int         `json:"population"`
	Products     int         `json:"products"`
	FeatureWidth int         `json:"feature_width"`
	ClusterSizes map[int]int `json:"cluster_sizes"`
	BuiltAt      time.Time   `json:"built_at"`
}

// Stats returns build statistics.
func (p *Pipeline) Stats() Stats {
	sizes := make(map[int]int, len(p.sizes))
	for c, n := range p.sizes {
		sizes[c] = n
	}
	return Stats{
		Clusters:     p.clusterer.K(),
		Population:   p.population,
		Products:     p.products,
		FeatureWidth: p.encoder.Width(),
		ClusterSizes: sizes,
		BuiltAt:      p.builtAt,
	}
}

// buildProfiles computes the most frequent value of each attribute and of
// the budget tier within every cluster. Ties keep the first value seen.
func buildProfiles(users []UserProfile, assignments []int) map[int]ClusterProfile {
	type tally struct {
		counts map[string]int
		order  []string
	}
	keys := make([]string, 0, len(Attributes)+1)
	for _, a := range Attributes {
		keys = append(keys, string(a))
	}
	keys = append(keys, BudgetKey)

	tallies := make(map[int]map[string]*tally)
	for i := range users {
		c := assignments[i]
		if tallies[c] == nil {
			tallies[c] = make(map[string]*tally, len(keys))
			for _, k := range keys {
				tallies[c][k] = &tally{counts: make(map[string]int)}
			}
		}
		prefs := users[i].Preferences.Normalized()
		for _, k := range keys {
			var v string
			if k == BudgetKey {
				v = string(users[i].Budget)
				if v == "" {
					v = Unknown
				}
			} else {
				v = prefs.Value(Attribute(k))
			}
			t := tallies[c][k]
			if _, seen := t.counts[v]; !seen {
				t.order = append(t.order, v)
			}
			t.counts[v]++
		}
	}

	profiles := make(map[int]ClusterProfile, len(tallies))
	for c, byKey := range tallies {
		profile := make(ClusterProfile, len(keys))
		for k, t := range byKey {
			best, bestCount := "", -1
			for _, v := range t.order {
				if t.counts[v] > bestCount {
					best, bestCount = v, t.counts[v]
				}
			}
			profile[k] = best
		}
		profiles[c] = profile
	}
	return profiles
}
