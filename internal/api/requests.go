// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package api

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxAnswerRunes bounds a stored answer. Longer answers are truncated.
const maxAnswerRunes = 500

// ChatMessageRequest is the body of POST /api/v1/chat/message.
//
// With SessionID set, the stored session is advanced and Step/Answers are
// ignored. Without it, Step is required and Answers carries the answers
// given so far.
type ChatMessageRequest struct {
	SessionID string            `json:"session_id" validate:"omitempty,uuid"`
	Answer    string            `json:"answer"`
	Step      *int              `json:"step" validate:"required_without=SessionID,omitempty,min=0,max=64"`
	Answers   map[string]string `json:"answers" validate:"omitempty,max=64,dive,keys,max=64,nocontrol,endkeys"`
}

// stateless reports whether the request carries its own state.
func (r *ChatMessageRequest) stateless() bool {
	return r.SessionID == ""
}

// normalize cleans the answer text in place. Answers are free text and are
// never rejected; see sanitizeAnswer.
func (r *ChatMessageRequest) normalize() {
	r.Answer = sanitizeAnswer(r.Answer)
	for k, v := range r.Answers {
		r.Answers[k] = sanitizeAnswer(v)
	}
}

// sanitizeAnswer turns tabs and line breaks into spaces, drops other control
// characters and invalid UTF-8, trims, and truncates to maxAnswerRunes.
func sanitizeAnswer(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxAnswerRunes {
		s = strings.TrimSpace(string([]rune(s)[:maxAnswerRunes]))
	}
	return s
}
