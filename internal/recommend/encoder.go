// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import (
	"fmt"
	"sort"
)

// Encoder is a fitted one-hot encoder over the preference attributes.
// Each attribute owns a contiguous block of columns; a value not seen at
// fit time leaves its block all zero. An Encoder is immutable after fit.
type Encoder struct {
	offsets []int
	columns []map[string]int
	width   int
}

// FitEncoder learns the category vocabulary of every attribute.
func FitEncoder(population []Preferences) (*Encoder, error) {
	if len(population) == 0 {
		return nil, fmt.Errorf("%w: cannot fit encoder on empty population", ErrConfiguration)
	}

	enc := &Encoder{
		offsets: make([]int, len(Attributes)),
		columns: make([]map[string]int, len(Attributes)),
	}

	for i, attr := range Attributes {
		seen := make(map[string]struct{})
		for j := range population {
			p := population[j].Normalized()
			seen[p.Value(attr)] = struct{}{}
		}

		categories := make([]string, 0, len(seen))
		for c := range seen {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		block := make(map[string]int, len(categories))
		for k, c := range categories {
			block[c] = k
		}

		enc.offsets[i] = enc.width
		enc.columns[i] = block
		enc.width += len(categories)
	}

	return enc, nil
}

// Width returns the encoded vector length.
func (e *Encoder) Width() int {
	return e.width
}

// Categories returns the fitted vocabulary of an attribute in column order.
func (e *Encoder) Categories(attr Attribute) []string {
	for i, a := range Attributes {
		if a != attr {
			continue
		}
		out := make([]string, len(e.columns[i]))
		for c, k := range e.columns[i] {
			out[k] = c
		}
		return out
	}
	return nil
}

// Transform encodes one record. Missing values are treated as Unknown.
func (e *Encoder) Transform(p Preferences) []float64 {
	vec := make([]float64, e.width)
	n := p.Normalized()
	for i, attr := range Attributes {
		if k, ok := e.columns[i][n.Value(attr)]; ok {
			vec[e.offsets[i]+k] = 1
		}
	}
	return vec
}

// TransformAll encodes a batch of records.
func (e *Encoder) TransformAll(records []Preferences) [][]float64 {
	out := make([][]float64, len(records))
	for i := range records {
		out[i] = e.Transform(records[i])
	}
	return out
}
