// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package api

import (
	"context"
	"time"

	"github.com/tomtom215/beautyflow/internal/events"
	"github.com/tomtom215/beautyflow/internal/recommend"
	"github.com/tomtom215/beautyflow/internal/session"
)

// Pinger reports profile store connectivity. *database.DB implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_chat.go: questionnaire endpoints
//   - handlers_clusters.go: cluster inspection and rebuild
//   - handlers_health.go: health probes
type Handler struct {
	engine       *recommend.Engine
	conversation *recommend.Conversation
	sessions     session.Store
	publisher    events.Publisher
	db           Pinger
	startTime    time.Time

	// requestTimeout bounds store and lazy build work per request.
	requestTimeout time.Duration
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithPublisher sets the domain event publisher. The default discards events.
func WithPublisher(p events.Publisher) HandlerOption {
	return func(h *Handler) {
		if p != nil {
			h.publisher = p
		}
	}
}

// WithPinger sets the profile store health check.
func WithPinger(db Pinger) HandlerOption {
	return func(h *Handler) {
		h.db = db
	}
}

// WithQuestions replaces the default questionnaire.
func WithQuestions(questions []recommend.Question) HandlerOption {
	return func(h *Handler) {
		h.conversation = recommend.NewConversation(questions, h.engine)
	}
}

// WithRequestTimeout overrides the per-request timeout.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.requestTimeout = d
		}
	}
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(engine, store, api.WithPublisher(bus), api.WithPinger(db))
//	router := api.NewRouter(handler, api.NewChiMiddleware(mwConfig))
//	srv := &http.Server{Handler: router.SetupChi()}
func NewHandler(engine *recommend.Engine, sessions session.Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		engine:         engine,
		conversation:   recommend.NewConversation(nil, engine),
		sessions:       sessions,
		publisher:      events.NopPublisher{},
		startTime:      time.Now(),
		requestTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
