// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import (
	"fmt"
	"math/rand"
)

// Clusterer partitions encoded preference vectors with seeded k-means.
// FitPredict must be called exactly once; Predict reuses the learned centroids.
type Clusterer struct {
	k         int
	seed      int64
	maxIter   int
	centroids [][]float64
}

// NewClusterer creates an unfitted clusterer.
func NewClusterer(k int, seed int64, maxIter int) *Clusterer {
	if seed == 0 {
		seed = DefaultSeed
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	return &Clusterer{k: k, seed: seed, maxIter: maxIter}
}

// K returns the configured cluster count.
func (c *Clusterer) K() int {
	return c.k
}

// Fitted reports whether centroids have been learned.
func (c *Clusterer) Fitted() bool {
	return c.centroids != nil
}

// FitPredict learns k centroids and returns the cluster of every row.
func (c *Clusterer) FitPredict(vectors [][]float64) ([]int, error) {
	if c.k < 2 {
		return nil, fmt.Errorf("%w: cluster count must be >= 2, got %d", ErrConfiguration, c.k)
	}
	if len(vectors) < c.k {
		return nil, fmt.Errorf("%w: population of %d is smaller than cluster count %d",
			ErrConfiguration, len(vectors), c.k)
	}
	if c.centroids != nil {
		return nil, fmt.Errorf("%w: clusterer already fitted", ErrInternalConsistency)
	}

	rng := rand.New(rand.NewSource(c.seed)) //nolint:gosec // deterministic seeding, not security sensitive
	centroids := initCentroids(vectors, c.k, rng)
	assign := make([]int, len(vectors))
	for i := range assign {
		assign[i] = -1
	}

	converged := false
	for iter := 0; iter < c.maxIter; iter++ {
		if !assignNearest(centroids, vectors, assign) {
			converged = true
			break
		}
		updateCentroids(centroids, vectors, assign)
	}
	// Stopping at the iteration cap leaves centroids one update ahead of
	// assign. Predict must agree with the returned assignments.
	if !converged {
		assignNearest(centroids, vectors, assign)
	}

	c.centroids = centroids
	return assign, nil
}

// assignNearest moves every row to its nearest centroid and reports whether
// any assignment changed.
func assignNearest(centroids, vectors [][]float64, assign []int) bool {
	changed := false
	for i, v := range vectors {
		if best := nearest(centroids, v); best != assign[i] {
			assign[i] = best
			changed = true
		}
	}
	return changed
}

// Predict returns the nearest learned centroid for a vector.
func (c *Clusterer) Predict(vector []float64) (int, error) {
	if c.centroids == nil {
		return 0, fmt.Errorf("%w: clusterer not fitted", ErrInternalConsistency)
	}
	if len(vector) != len(c.centroids[0]) {
		return 0, fmt.Errorf("%w: vector width %d does not match centroid width %d",
			ErrInternalConsistency, len(vector), len(c.centroids[0]))
	}
	return nearest(c.centroids, vector), nil
}

// initCentroids seeds centroids with k-means++.
func initCentroids(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneVector(vectors[rng.Intn(len(vectors))]))

	dist := make([]float64, len(vectors))
	for len(centroids) < k {
		var total float64
		for i, v := range vectors {
			d := squaredDistance(v, centroids[nearest(centroids, v)])
			dist[i] = d
			total += d
		}

		// Every point already coincides with a centroid.
		if total == 0 {
			centroids = append(centroids, cloneVector(vectors[rng.Intn(len(vectors))]))
			continue
		}

		target := rng.Float64() * total
		chosen := len(vectors) - 1
		var acc float64
		for i, d := range dist {
			acc += d
			if acc >= target && d > 0 {
				chosen = i
				break
			}
		}
		centroids = append(centroids, cloneVector(vectors[chosen]))
	}
	return centroids
}

// updateCentroids moves each centroid to the mean of its members.
// A centroid without members keeps its previous position.
func updateCentroids(centroids, vectors [][]float64, assign []int) {
	width := len(centroids[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, width)
	}
	for i, v := range vectors {
		c := assign[i]
		counts[c]++
		for j, x := range v {
			sums[c][j] += x
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

// nearest returns the index of the closest centroid; ties go to the lowest index.
func nearest(centroids [][]float64, v []float64) int {
	best := 0
	bestDist := squaredDistance(v, centroids[0])
	for i := 1; i < len(centroids); i++ {
		if d := squaredDistance(v, centroids[i]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
