// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/beautyflow/internal/recommend"
	"github.com/tomtom215/beautyflow/internal/session"
)

func TestChatStart(t *testing.T) {
	env := newTestEnv(t, newTestSource(), true)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			rec, resp := env.do(t, method, "/api/v1/chat/start", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if resp.Status != "success" {
				t.Errorf("status = %q, want success", resp.Status)
			}
			turn := decodeTurn(t, resp)
			if turn.SessionID == "" {
				t.Fatal("expected a session id")
			}
			if turn.Step != 0 || turn.TotalSteps != 12 || turn.Complete {
				t.Errorf("unexpected first turn: %+v", turn)
			}
			if turn.Question == "" || len(turn.Options) == 0 {
				t.Errorf("first turn should carry a question with options: %+v", turn)
			}

			stored, err := env.sessions.Get(context.Background(), turn.SessionID)
			if err != nil {
				t.Fatalf("session not stored: %v", err)
			}
			if stored.Step != 0 {
				t.Errorf("stored step = %d, want 0", stored.Step)
			}
		})
	}
}

func TestChatMessage_FullConversation(t *testing.T) {
	env := newTestEnv(t, newTestSource(), true)

	tests := []struct {
		name    string
		answers map[string]string
		budget  string
		want    string
	}{
		{"dry skin low budget", drySkinAnswers, "Faible", "[4 5 1 2]"},
		{"oily skin high budget", oilySkinAnswers, "Élevé", "[9 10]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn := env.answerAll(t, tt.answers, tt.budget)
			if !turn.Complete {
				t.Fatalf("final turn not complete: %+v", turn)
			}
			if turn.Cluster == nil {
				t.Fatal("completed turn must carry a cluster")
			}
			if got := productIDs(turn.Recommendations); got != tt.want {
				t.Errorf("recommendations = %s, want %s", got, tt.want)
			}
			if turn.Question != "" {
				t.Errorf("completed turn should not carry a question: %q", turn.Question)
			}
		})
	}

	evs := env.publisher.chatEvents()
	if len(evs) != 2 {
		t.Fatalf("published %d chat.completed events, want 2", len(evs))
	}
	if evs[1].Budget != "Élevé" || evs[1].PipelineVersion != 1 {
		t.Errorf("unexpected event: %+v", evs[1])
	}
}

func TestChatMessage_CompletedSessionIsInvalidState(t *testing.T) {
	env := newTestEnv(t, newTestSource(), true)
	final := env.answerAll(t, drySkinAnswers, "Faible")

	sessions, err := env.sessions.Count(context.Background())
	if err != nil || sessions != 1 {
		t.Fatalf("Count() = %d, %v", sessions, err)
	}

	rec, resp := env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{
		"session_id": final.SessionID,
		"answer":     "Oui",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body %s", rec.Code, rec.Body.String())
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidState {
		t.Errorf("error = %+v, want INVALID_STATE", resp.Error)
	}

	stored, err := env.sessions.Get(context.Background(), final.SessionID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Step != 12 || stored.Cluster == nil || len(stored.Recommendations) != 4 {
		t.Errorf("completed session changed: %+v", stored)
	}
}

func TestChatMessage_EmptyShortlistSerializesAsEmptyList(t *testing.T) {
	// Oily-skin users have no purchase history, so their cluster ranks no
	// categories and its shortlist is empty.
	users := testPopulation(20)
	for i := range users {
		if i%2 == 1 {
			users[i].PurchaseHistory = nil
		}
	}
	env := newTestEnv(t, &fakeSource{users: users, products: testCatalog()}, true)

	id := env.answerUntilBudget(t, oilySkinAnswers)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{
		"session_id": id,
		"answer":     "Élevé",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"recommendations":[]`) {
		t.Errorf("completion body lacks an empty recommendations list: %s", rec.Body.String())
	}
}

// racingStore runs beforeUpdate once, ahead of the first Update, to let a
// competing turn land between a request's read and its write.
type racingStore struct {
	*session.MemoryStore
	beforeUpdate func()
}

func (s *racingStore) Update(ctx context.Context, sess *recommend.Session) error {
	if hook := s.beforeUpdate; hook != nil {
		s.beforeUpdate = nil
		hook()
	}
	return s.MemoryStore.Update(ctx, sess)
}

func TestChatMessage_ConcurrentFinalAnswersCompleteOnce(t *testing.T) {
	engine := testEngine(t, newTestSource())
	if err := engine.Build(context.Background()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	store := &racingStore{MemoryStore: session.NewMemoryStore(time.Hour)}
	pub := &recordingPublisher{}
	h := NewHandler(engine, store, WithPublisher(pub), WithPinger(fakePinger{}))
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	env := &testEnv{engine: engine, sessions: store.MemoryStore, publisher: pub, handler: h,
		server: NewRouter(h, NewChiMiddleware(mwCfg)).SetupChi()}

	id := env.answerUntilBudget(t, drySkinAnswers)

	var inner int
	store.beforeUpdate = func() {
		rec, _ := env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{
			"session_id": id,
			"answer":     "Faible",
		})
		inner = rec.Code
	}
	rec, resp := env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{
		"session_id": id,
		"answer":     "Moyen",
	})

	if inner != http.StatusOK {
		t.Errorf("first writer status = %d, want 200", inner)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("second writer status = %d, want 409; body %s", rec.Code, rec.Body.String())
	}
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidState {
		t.Errorf("error = %+v, want INVALID_STATE", resp.Error)
	}
	if n := len(pub.chatEvents()); n != 1 {
		t.Errorf("published %d chat.completed events, want 1", n)
	}

	stored, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Answers[recommend.BudgetKey] != "Faible" {
		t.Errorf("stored budget = %q, want the first writer's answer", stored.Answers[recommend.BudgetKey])
	}
}

func TestChatMessage_Monotonic(t *testing.T) {
	env := newTestEnv(t, newTestSource(), true)
	_, resp := env.do(t, http.MethodPost, "/api/v1/chat/start", nil)
	id := decodeTurn(t, resp).SessionID

	for want := 1; want <= 3; want++ {
		_, resp = env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{
			"session_id": id,
			"answer":     "réponse libre",
		})
		turn := decodeTurn(t, resp)
		if turn.Step != want {
			t.Fatalf("step = %d, want %d", turn.Step, want)
		}
	}

	stored, _ := env.sessions.Get(context.Background(), id)
	if stored.Answers["interest"] != "réponse libre" {
		t.Errorf("out-of-vocabulary answer not stored verbatim: %v", stored.Answers)
	}
}

func TestChatMessage_Stateless(t *testing.T) {
	env := newTestEnv(t, newTestSource(), true)

	answers := map[string]string{}
	step := 0
	var turn turnData
	for _, q := range env.handler.conversation.Questions() {
		answer := drySkinAnswers[q.Key]
		if q.Key == recommend.BudgetKey {
			answer = "Faible"
		}
		rec, resp := env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{
			"step":    step,
			"answers": answers,
			"answer":  answer,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("step %d: status %d body %s", step, rec.Code, rec.Body.String())
		}
		turn = decodeTurn(t, resp)
		if turn.SessionID != "" {
			t.Errorf("stateless turn should not carry a session id: %q", turn.SessionID)
		}
		answers = turn.Answers
		step = turn.Step
	}

	if !turn.Complete {
		t.Fatalf("stateless conversation did not complete: %+v", turn)
	}
	if got := productIDs(turn.Recommendations); got != "[4 5 1 2]" {
		t.Errorf("recommendations = %s, want [4 5 1 2]", got)
	}
	if n, _ := env.sessions.Count(context.Background()); n != 0 {
		t.Errorf("stateless mode stored %d sessions", n)
	}

	rec, resp := env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{
		"step":    12,
		"answers": answers,
		"answer":  "encore",
	})
	if rec.Code != http.StatusConflict || resp.Error.Code != ErrCodeInvalidState {
		t.Errorf("past-the-end step: status %d error %+v", rec.Code, resp.Error)
	}
}

func TestChatMessage_Errors(t *testing.T) {
	env := newTestEnv(t, newTestSource(), true)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{"session_id":`, http.StatusBadRequest, ErrCodeValidation},
		{"empty body", nil, http.StatusBadRequest, ErrCodeValidation},
		{"bad session id", map[string]any{"session_id": "nope", "answer": "Oui"}, http.StatusBadRequest, ErrCodeValidation},
		{"control characters in answer key", map[string]any{"step": 1, "answer": "Oui", "answers": map[string]string{"inter\u0007est": "Oui"}}, http.StatusBadRequest, ErrCodeValidation},
		{"negative step", map[string]any{"step": -1, "answer": "Oui"}, http.StatusBadRequest, ErrCodeValidation},
		{"unknown session", map[string]any{"session_id": "0f8fad5b-d9cb-469f-a165-70867728950e", "answer": "Oui"}, http.StatusNotFound, ErrCodeSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := env.do(t, http.MethodPost, "/api/v1/chat/message", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestChatMessage_AnswersAreCleanedNotRejected(t *testing.T) {
	env := newTestEnv(t, newTestSource(), true)

	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"control characters dropped", "Oui\u0000\u0007", "Oui"},
		{"line breaks become spaces", "Anti\nâge\t", "Anti âge"},
		{"long answer truncated", strings.Repeat("é", 600), strings.Repeat("é", maxAnswerRunes)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{
				"step":   0,
				"answer": tt.answer,
			})
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
			}
			turn := decodeTurn(t, resp)
			if got := turn.Answers["interest"]; got != tt.want {
				t.Errorf("stored answer = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChatMessage_LazyBuildOnLastAnswer(t *testing.T) {
	env := newTestEnv(t, newTestSource(), false)
	if env.engine.Ready() {
		t.Fatal("engine should start without a pipeline")
	}

	turn := env.answerAll(t, oilySkinAnswers, "Élevé")
	if !turn.Complete {
		t.Fatalf("final turn not complete: %+v", turn)
	}
	if !env.engine.Ready() || env.engine.Version() != 1 {
		t.Errorf("lazy build did not run: ready=%v version=%d", env.engine.Ready(), env.engine.Version())
	}
}

func TestChatMessage_DataUnavailableKeepsSession(t *testing.T) {
	source := &fakeSource{err: recommend.ErrDataUnavailable}
	env := newTestEnv(t, source, false)

	_, resp := env.do(t, http.MethodPost, "/api/v1/chat/start", nil)
	id := decodeTurn(t, resp).SessionID

	questions := env.handler.conversation.Questions()
	for i := 0; i < len(questions)-1; i++ {
		env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{"session_id": id, "answer": "x"})
	}

	rec, resp := env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{"session_id": id, "answer": "Moyen"})
	if rec.Code != http.StatusServiceUnavailable || resp.Error.Code != ErrCodeDataUnavailable {
		t.Fatalf("status %d error %+v, want 503 DATA_UNAVAILABLE", rec.Code, resp.Error)
	}

	stored, err := env.sessions.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if stored.Step != len(questions)-1 {
		t.Errorf("step = %d, want %d (unchanged)", stored.Step, len(questions)-1)
	}
}

func TestChatMessage_PublishFailureDoesNotFailRequest(t *testing.T) {
	env := newTestEnv(t, newTestSource(), true)
	env.publisher.err = errStoreDown

	turn := env.answerAll(t, drySkinAnswers, "Faible")
	if !turn.Complete {
		t.Fatalf("final turn not complete: %+v", turn)
	}
}

func TestChatQuestions(t *testing.T) {
	env := newTestEnv(t, newTestSource(), false)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/chat/questions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var list struct {
		Questions []recommend.Question `json:"questions"`
		Total     int                  `json:"total"`
	}
	if err := jsonUnmarshal(resp.Data, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 12 || len(list.Questions) != 12 {
		t.Fatalf("total = %d, questions = %d", list.Total, len(list.Questions))
	}
	if list.Questions[11].Key != recommend.BudgetKey {
		t.Errorf("last question = %q, want budget", list.Questions[11].Key)
	}
	if list.Questions[6].Options != nil {
		t.Errorf("free-text question should have no options: %v", list.Questions[6].Options)
	}
}
