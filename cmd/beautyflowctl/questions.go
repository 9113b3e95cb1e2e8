// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/beautyflow/internal/recommend"
)

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the questionnaire steps and their answer keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			questions := recommend.DefaultQuestions()
			rows := make([][]string, 0, len(questions))
			for i, q := range questions {
				rows = append(rows, []string{strconv.Itoa(i + 1), q.Key, q.Prompt, strings.Join(q.Options, " / ")})
			}
			table(cmd.OutOrStdout(), []string{"STEP", "KEY", "PROMPT", "OPTIONS"}, rows)
			return nil
		},
	}
}
