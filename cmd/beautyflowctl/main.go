// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

// Command beautyflowctl is the offline companion of the beautyflow server.
//
// It works directly against the DuckDB profile store and builds the
// recommendation pipeline in process, which makes it useful for seeding a
// fresh database, checking how the population clusters before deploying,
// and trying a set of answers without going through the chat API.
//
//	beautyflowctl seed --users users.csv --products products.csv
//	beautyflowctl profiles
//	beautyflowctl recommend -a skin_type=Sèche -a budget=Faible
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
