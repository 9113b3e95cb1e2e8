// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/beautyflow/internal/events"
	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/metrics"
	"github.com/tomtom215/beautyflow/internal/models"
	"github.com/tomtom215/beautyflow/internal/recommend"
)

// ChatStart handles GET|POST /api/v1/chat/start.
// Creates a stored session and returns the first question.
//
// @Summary Start a questionnaire session
// @Tags Chat
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.ChatTurn}
// @Router /chat/start [post]
func (h *Handler) ChatStart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	s, turn := h.conversation.Start()
	if err := h.sessions.Create(ctx, &s); err != nil {
		respondDomainError(w, r, err)
		return
	}
	metrics.ChatSessionsStarted.Inc()

	logging.Ctx(logging.ContextWithSessionID(ctx, s.ID)).Debug().Msg("Questionnaire session started")

	out := models.NewChatTurn(s.ID, turn)
	if !s.ExpiresAt.IsZero() {
		expires := s.ExpiresAt
		out.ExpiresAt = &expires
	}
	respondSuccess(w, r, http.StatusOK, out, start)
}

// ChatMessage handles POST /api/v1/chat/message.
// Records the answer to the current question and returns the next question,
// or the recommendations once the last question is answered.
//
// @Summary Answer the current question
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body ChatMessageRequest true "Answer"
// @Success 200 {object} models.APIResponse{data=models.ChatTurn}
// @Failure 400 {object} models.APIResponse "VALIDATION_ERROR"
// @Failure 404 {object} models.APIResponse "SESSION_NOT_FOUND"
// @Failure 409 {object} models.APIResponse "INVALID_STATE"
// @Failure 503 {object} models.APIResponse "PIPELINE_NOT_READY or DATA_UNAVAILABLE"
// @Router /chat/message [post]
func (h *Handler) ChatMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ChatMessageRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid request body", nil, err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}
	req.normalize()

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	var current recommend.Session
	if req.stateless() {
		current = statelessSession(&req)
	} else {
		ctx = logging.ContextWithSessionID(ctx, req.SessionID)
		r = r.WithContext(ctx)

		stored, err := h.sessions.Get(ctx, req.SessionID)
		if err != nil {
			metrics.RecordChatTurn("error")
			respondDomainError(w, r, err)
			return
		}
		current = *stored
	}

	// The last answer needs a pipeline. Building is shared by all waiters,
	// so it must not die with this request.
	if current.Step == h.conversation.Len()-1 {
		if _, err := h.engine.Ensure(context.WithoutCancel(ctx)); err != nil {
			metrics.RecordChatTurn("error")
			respondDomainError(w, r, err)
			return
		}
	}

	next, turn, err := h.conversation.Advance(current, req.Answer)
	if err != nil {
		outcome := "error"
		if errors.Is(err, recommend.ErrInvalidState) {
			outcome = "invalid_state"
		}
		metrics.RecordChatTurn(outcome)
		respondDomainError(w, r, err)
		return
	}

	if !req.stateless() {
		// Update rejects the write if another turn advanced the session
		// since it was read, so a step is answered at most once.
		if err := h.sessions.Update(ctx, &next); err != nil {
			outcome := "error"
			if errors.Is(err, recommend.ErrInvalidState) {
				outcome = "invalid_state"
			}
			metrics.RecordChatTurn(outcome)
			respondDomainError(w, r, err)
			return
		}
	}

	out := models.NewChatTurn(next.ID, turn)
	if req.stateless() {
		out.Answers = next.Answers
	}

	if turn.Complete {
		metrics.RecordChatTurn("complete")
		metrics.RecordRecommendation(turn.Cluster, len(turn.Recommendations))
		h.publishCompleted(ctx, &next, turn)
	} else {
		metrics.RecordChatTurn("question")
	}

	respondSuccess(w, r, http.StatusOK, out, start)
}

// ChatQuestions handles GET /api/v1/chat/questions.
// Returns the whole questionnaire with the suggested answer options.
//
// @Summary List questionnaire questions
// @Tags Chat
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.QuestionList}
// @Router /chat/questions [get]
func (h *Handler) ChatQuestions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	questions := h.conversation.Questions()
	respondSuccess(w, r, http.StatusOK, models.QuestionList{
		Questions: questions,
		Total:     len(questions),
	}, start)
}

// statelessSession rebuilds a session value from a self-describing request.
func statelessSession(req *ChatMessageRequest) recommend.Session {
	answers := make(map[string]string, len(req.Answers)+1)
	for k, v := range req.Answers {
		answers[k] = v
	}
	now := time.Now().UTC()
	return recommend.Session{
		Step:      *req.Step,
		Answers:   answers,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (h *Handler) publishCompleted(ctx context.Context, s *recommend.Session, turn recommend.Turn) {
	log := logging.Ctx(ctx)
	log.Info().
		Int("cluster", turn.Cluster).
		Int("products", len(turn.Recommendations)).
		Msg("Questionnaire completed")

	ev := events.NewChatCompleted(s.ID, turn.Cluster, turn.Recommendations, s.Answers[recommend.BudgetKey], h.engine.Version())
	if err := h.publisher.PublishChatCompleted(ctx, ev); err != nil {
		log.Warn().Err(err).Msg("Failed to publish chat.completed")
	}
}
