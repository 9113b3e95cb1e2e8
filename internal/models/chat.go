// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package models

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/beautyflow/internal/recommend"
)

// ChatTurn is the payload of /chat/start and /chat/message.
// While the questionnaire runs it carries the next question; on completion
// it carries the predicted cluster and the shortlist.
type ChatTurn struct {
	SessionID  string   `json:"session_id,omitempty"`
	Step       int      `json:"step"`
	TotalSteps int      `json:"total_steps"`
	Question   string   `json:"question,omitempty"`
	Options    []string `json:"options,omitempty"`
	Complete   bool     `json:"complete"`

	// Answers is echoed only in stateless mode so the client can carry it.
	Answers map[string]string `json:"answers,omitempty"`

	Cluster         *int                `json:"cluster,omitempty"`
	Recommendations []recommend.Product `json:"recommendations,omitempty"`
	ExpiresAt       *time.Time          `json:"expires_at,omitempty"`
}

// completedTurn is the wire form of a finished questionnaire. Cluster and
// Recommendations are always present.
type completedTurn struct {
	SessionID       string              `json:"session_id,omitempty"`
	Step            int                 `json:"step"`
	TotalSteps      int                 `json:"total_steps"`
	Complete        bool                `json:"complete"`
	Answers         map[string]string   `json:"answers,omitempty"`
	Cluster         *int                `json:"cluster"`
	Recommendations []recommend.Product `json:"recommendations"`
	ExpiresAt       *time.Time          `json:"expires_at,omitempty"`
}

// MarshalJSON writes a completed turn with recommendations set, as [] when
// the cluster's shortlist is empty.
func (t ChatTurn) MarshalJSON() ([]byte, error) {
	type plain ChatTurn
	if !t.Complete {
		return json.Marshal(plain(t))
	}
	recs := t.Recommendations
	if recs == nil {
		recs = []recommend.Product{}
	}
	return json.Marshal(completedTurn{
		SessionID:       t.SessionID,
		Step:            t.Step,
		TotalSteps:      t.TotalSteps,
		Complete:        true,
		Answers:         t.Answers,
		Cluster:         t.Cluster,
		Recommendations: recs,
		ExpiresAt:       t.ExpiresAt,
	})
}

// NewChatTurn converts an engine turn into the API payload.
func NewChatTurn(sessionID string, turn recommend.Turn) ChatTurn {
	out := ChatTurn{
		SessionID:  sessionID,
		Step:       turn.Step,
		TotalSteps: turn.TotalSteps,
		Question:   turn.Question,
		Options:    turn.Options,
		Complete:   turn.Complete,
	}
	if turn.Complete {
		cluster := turn.Cluster
		out.Cluster = &cluster
		out.Recommendations = turn.Recommendations
		if out.Recommendations == nil {
			out.Recommendations = []recommend.Product{}
		}
	}
	return out
}

// QuestionList is the payload of /chat/questions.
type QuestionList struct {
	Questions []recommend.Question `json:"questions"`
	Total     int                  `json:"total"`
}

// ClusterProfiles is the payload of /clusters/profiles.
type ClusterProfiles struct {
	Version  int64                            `json:"version"`
	Stats    recommend.Stats                  `json:"stats"`
	Profiles map[int]recommend.ClusterProfile `json:"profiles"`
}

// RebuildResult is the payload of /clusters/rebuild.
type RebuildResult struct {
	Version    int64           `json:"version"`
	DurationMS int64           `json:"duration_ms"`
	Stats      recommend.Stats `json:"stats"`
}

// HealthStatus is the payload of the health endpoints.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	PipelineReady     bool    `json:"pipeline_ready"`
	PipelineVersion   int64   `json:"pipeline_version"`
	ActiveSessions    int     `json:"active_sessions"`
	Uptime            float64 `json:"uptime"`
}
