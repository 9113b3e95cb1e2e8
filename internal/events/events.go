// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

// Package events carries in-process domain events over a Watermill
// gochannel pub/sub. The API publishes chat.completed when a questionnaire
// finishes and the engine publishes pipeline.built after each build attempt.
package events

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/beautyflow/internal/recommend"
)

// SchemaVersion is stamped on every message as metadata.
const SchemaVersion = 1

// Topics.
const (
	TopicChatCompleted = "chat.completed"
	TopicPipelineBuilt = "pipeline.built"
)

// Topics lists every topic the consumer subscribes to.
var Topics = []string{TopicChatCompleted, TopicPipelineBuilt}

// ChatCompleted is published when a session reaches the terminal step.
type ChatCompleted struct {
	EventID         string    `json:"event_id"`
	SessionID       string    `json:"session_id,omitempty"`
	Cluster         int       `json:"cluster"`
	ProductIDs      []int64   `json:"product_ids"`
	Budget          string    `json:"budget,omitempty"`
	PipelineVersion int64     `json:"pipeline_version"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// NewChatCompleted builds a ChatCompleted event for a finished session.
func NewChatCompleted(sessionID string, cluster int, products []recommend.Product, budget string, version int64) ChatCompleted {
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ChatCompleted{
		EventID:         uuid.New().String(),
		SessionID:       sessionID,
		Cluster:         cluster,
		ProductIDs:      ids,
		Budget:          budget,
		PipelineVersion: version,
		OccurredAt:      time.Now().UTC(),
	}
}

// PipelineBuilt is published after every build attempt.
type PipelineBuilt struct {
	EventID      string      `json:"event_id"`
	Version      int64       `json:"version"`
	Success      bool        `json:"success"`
	Error        string      `json:"error,omitempty"`
	DurationMS   int64       `json:"duration_ms"`
	Clusters     int         `json:"clusters"`
	Population   int         `json:"population"`
	Products     int         `json:"products"`
	ClusterSizes map[int]int `json:"cluster_sizes,omitempty"`
	OccurredAt   time.Time   `json:"occurred_at"`
}

// NewPipelineBuilt converts an engine build result into an event.
func NewPipelineBuilt(r recommend.BuildResult) PipelineBuilt {
	ev := PipelineBuilt{
		EventID:    uuid.New().String(),
		Version:    r.Version,
		Success:    r.Err == nil,
		DurationMS: r.Duration.Milliseconds(),
		OccurredAt: time.Now().UTC(),
	}
	if r.Err != nil {
		ev.Error = r.Err.Error()
		return ev
	}
	ev.Clusters = r.Stats.Clusters
	ev.Population = r.Stats.Population
	ev.Products = r.Stats.Products
	ev.ClusterSizes = r.Stats.ClusterSizes
	return ev
}

func encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode unmarshals a message payload into v.
func Decode(payload []byte, v any) error {
	return json.Unmarshal(payload, v)
}
