// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/beautyflow/internal/events"
	"github.com/tomtom215/beautyflow/internal/recommend"
	"github.com/tomtom215/beautyflow/internal/session"
)

// fakeSource is an in-memory ProfileSource.
type fakeSource struct {
	users    []recommend.UserProfile
	products []recommend.Product
	err      error

	// entered is signalled when a load starts; gate, when set, holds the
	// load until it is closed.
	entered chan struct{}
	gate    chan struct{}
}

func (f *fakeSource) LoadUsers(ctx context.Context) ([]recommend.UserProfile, error) {
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeSource) LoadProducts(_ context.Context) ([]recommend.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

// fakePinger reports a fixed connectivity result.
type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu        sync.Mutex
	completed []events.ChatCompleted
	err       error
}

func (p *recordingPublisher) PublishChatCompleted(_ context.Context, ev events.ChatCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, ev)
	return p.err
}

func (p *recordingPublisher) PublishPipelineBuilt(context.Context, events.PipelineBuilt) error {
	return nil
}

func (p *recordingPublisher) chatEvents() []events.ChatCompleted {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.ChatCompleted(nil), p.completed...)
}

func testCatalog() []recommend.Product {
	return []recommend.Product{
		{ID: 1, Name: "Crème hydratante", Brand: "Lilas", CategoryID: 10, UnitPrice: 12},
		{ID: 2, Name: "Sérum anti-âge", Brand: "Lilas", CategoryID: 10, UnitPrice: 18},
		{ID: 3, Name: "Gel nettoyant", Brand: "Zitouna", CategoryID: 10, UnitPrice: 35},
		{ID: 4, Name: "Shampooing doux", Brand: "Zitouna", CategoryID: 20, UnitPrice: 9},
		{ID: 5, Name: "Masque capillaire", Brand: "Atlas", CategoryID: 20, UnitPrice: 16},
		{ID: 6, Name: "Huile argan", Brand: "Atlas", CategoryID: 20, UnitPrice: 45},
		{ID: 7, Name: "Rouge à lèvres", Brand: "Maison", CategoryID: 30, UnitPrice: 22},
		{ID: 9, Name: "Eau de parfum", Brand: "Jasmin", CategoryID: 40, UnitPrice: 120},
		{ID: 10, Name: "Brume parfumée", Brand: "Jasmin", CategoryID: 40, UnitPrice: 42},
	}
}

var (
	drySkinAnswers = map[string]string{
		"interest": "Oui", "cosmetic_objective": "Hydratation", "skin_concern": "Sécheresse",
		"cosmetic_preference": "Bio", "skin_type": "Sèche", "hair_type": "Sec",
		"local_brands_used": "Oui", "international_preference": "Non", "local_vs_international": "Local",
		"purchase_channel": "Magasin", "purchase_criterion": "Prix",
	}
	oilySkinAnswers = map[string]string{
		"interest": "Non", "cosmetic_objective": "Anti-âge", "skin_concern": "Rougeurs",
		"cosmetic_preference": "Conventionnel", "skin_type": "Grasse", "hair_type": "Gras",
		"local_brands_used": "Non", "international_preference": "Oui", "local_vs_international": "International",
		"purchase_channel": "En ligne", "purchase_criterion": "Marque",
	}
)

// testPopulation alternates two separated groups. The dry-skin group shops
// cheap hair and skin care; the oily-skin group buys fragrance and makeup.
func testPopulation(n int) []recommend.UserProfile {
	users := make([]recommend.UserProfile, n)
	for i := range users {
		u := recommend.UserProfile{ID: int64(i + 1)}
		answers := drySkinAnswers
		u.Budget = recommend.BudgetLow
		u.PurchaseHistory = []int64{4, 5, 1}
		if i%2 == 1 {
			answers = oilySkinAnswers
			u.Budget = recommend.BudgetHigh
			u.PurchaseHistory = []int64{9, 10, 7}
		}
		u.Preferences = recommend.PreferencesFromAnswers(answers)
		users[i] = u
	}
	return users
}

func newTestSource() *fakeSource {
	return &fakeSource{users: testPopulation(20), products: testCatalog()}
}

func testEngine(t *testing.T, source recommend.ProfileSource) *recommend.Engine {
	t.Helper()
	cfg := recommend.DefaultConfig()
	cfg.Clusters = 2
	cfg.BuildTimeout = 5 * time.Second
	engine, err := recommend.NewEngine(cfg, source, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

type testEnv struct {
	engine    *recommend.Engine
	sessions  *session.MemoryStore
	publisher *recordingPublisher
	handler   *Handler
	server    http.Handler
}

// newTestEnv wires a handler over an in-memory store. When build is true the
// pipeline is built before returning.
func newTestEnv(t *testing.T, source recommend.ProfileSource, build bool) *testEnv {
	t.Helper()
	engine := testEngine(t, source)
	if build {
		if err := engine.Build(context.Background()); err != nil {
			t.Fatalf("Build() error = %v", err)
		}
	}
	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	pub := &recordingPublisher{}
	h := NewHandler(engine, store, WithPublisher(pub), WithPinger(fakePinger{}))

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	router := NewRouter(h, NewChiMiddleware(mwCfg))

	return &testEnv{
		engine:    engine,
		sessions:  store,
		publisher: pub,
		handler:   h,
		server:    router.SetupChi(),
	}
}

// envelope mirrors models.APIResponse with a raw data payload.
type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Timestamp time.Time `json:"timestamp"`
		RequestID string    `json:"request_id"`
	} `json:"metadata"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// turnData mirrors models.ChatTurn for decoding.
type turnData struct {
	SessionID       string              `json:"session_id"`
	Step            int                 `json:"step"`
	TotalSteps      int                 `json:"total_steps"`
	Question        string              `json:"question"`
	Options         []string            `json:"options"`
	Complete        bool                `json:"complete"`
	Answers         map[string]string   `json:"answers"`
	Cluster         *int                `json:"cluster"`
	Recommendations []recommend.Product `json:"recommendations"`
}

func (env *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	var resp envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func decodeTurn(t *testing.T, resp envelope) turnData {
	t.Helper()
	var turn turnData
	if err := json.Unmarshal(resp.Data, &turn); err != nil {
		t.Fatalf("decode turn %s: %v", resp.Data, err)
	}
	return turn
}

// answerAll walks a stored session through every question using answers,
// and returns the final turn.
func (env *testEnv) answerAll(t *testing.T, answers map[string]string, budget string) turnData {
	t.Helper()
	rec, resp := env.do(t, http.MethodPost, "/api/v1/chat/start", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start: status %d body %s", rec.Code, rec.Body.String())
	}
	turn := decodeTurn(t, resp)
	id := turn.SessionID

	for _, q := range env.handler.conversation.Questions() {
		answer := answers[q.Key]
		if q.Key == recommend.BudgetKey {
			answer = budget
		}
		rec, resp = env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{
			"session_id": id,
			"answer":     answer,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %s: status %d body %s", q.Key, rec.Code, rec.Body.String())
		}
		turn = decodeTurn(t, resp)
	}
	return turn
}

// answerUntilBudget starts a stored session and answers every question but
// the last, returning the session id.
func (env *testEnv) answerUntilBudget(t *testing.T, answers map[string]string) string {
	t.Helper()
	_, resp := env.do(t, http.MethodPost, "/api/v1/chat/start", nil)
	id := decodeTurn(t, resp).SessionID

	questions := env.handler.conversation.Questions()
	for _, q := range questions[:len(questions)-1] {
		rec, _ := env.do(t, http.MethodPost, "/api/v1/chat/message", map[string]any{
			"session_id": id,
			"answer":     answers[q.Key],
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %s: status %d body %s", q.Key, rec.Code, rec.Body.String())
		}
	}
	return id
}

func productIDs(products []recommend.Product) string {
	return fmt.Sprint(func() []int64 {
		ids := make([]int64, len(products))
		for i, p := range products {
			ids[i] = p.ID
		}
		return ids
	}())
}

var errStoreDown = errors.New("store down")

func jsonUnmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
