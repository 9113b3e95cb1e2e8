// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import (
	"fmt"
	"time"
)

// Question is one fixed step of the questionnaire.
type Question struct {
	Key     string   `json:"key"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
}

// DefaultQuestions returns the preference questionnaire followed by the budget question.
func DefaultQuestions() []Question {
	return []Question{
		{Key: string(AttrInterest), Prompt: "Quel est votre intérêt principal en matière de recommandation de produits?", Options: []string{"Oui", "Non"}},
		{Key: string(AttrCosmeticObjective), Prompt: "Quel est votre objectif cosmétique principal?", Options: []string{"Hydratation", "Anti-âge", "Acné"}},
		{Key: string(AttrSkinConcern), Prompt: "Avez-vous des problèmes de peau spécifiques?", Options: []string{"Sensibilité", "Rougeurs", "Sécheresse"}},
		{Key: string(AttrCosmeticPreference), Prompt: "Quelle est votre préférence en matière de cosmétiques?", Options: []string{"Bio", "Vegan", "Conventionnel"}},
		{Key: string(AttrSkinType), Prompt: "Quel est votre type de peau?", Options: []string{"Grasse", "Sèche", "Mixte"}},
		{Key: string(AttrHairType), Prompt: "Quel est votre type de cheveux?", Options: []string{"Gras", "Sec", "Normal"}},
		{Key: string(AttrLocalBrandsUsed), Prompt: "Utilisez-vous des marques tunisiennes? Si oui, lesquelles?"},
		{Key: string(AttrInternationalPreference), Prompt: "Préférez-vous les marques internationales?", Options: []string{"Oui", "Non"}},
		{Key: string(AttrLocalVsInternational), Prompt: "Préférez-vous les produits locaux ou internationaux?", Options: []string{"Local", "International"}},
		{Key: string(AttrPurchaseChannel), Prompt: "Quel est votre type d'achat?", Options: []string{"En ligne", "Magasin"}},
		{Key: string(AttrPurchaseCriterion), Prompt: "Quel est votre critère d'achat principal?", Options: []string{"Prix", "Qualité", "Marque"}},
		{Key: BudgetKey, Prompt: "Quel est votre budget?", Options: []string{"Faible", "Moyen", "Élevé"}},
	}
}

// Session is the per-conversation state. It is a value: Advance returns an
// updated copy and never mutates its argument.
type Session struct {
	ID              string            `json:"id"`
	Step            int               `json:"step"`
	Answers         map[string]string `json:"answers"`
	Cluster         *int              `json:"cluster,omitempty"`
	Recommendations []Product         `json:"recommendations,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	ExpiresAt       time.Time         `json:"expires_at,omitempty"`
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	if s.Cluster != nil {
		c := *s.Cluster
		out.Cluster = &c
	}
	if s.Recommendations != nil {
		out.Recommendations = append([]Product(nil), s.Recommendations...)
	}
	return out
}

// IsExpired reports whether the session has an expiry in the past.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Turn is what the engine hands back after each step: either the next
// question or, on the terminal step, the recommendations.
type Turn struct {
	Step            int       `json:"step"`
	TotalSteps      int       `json:"total_steps"`
	Question        string    `json:"question,omitempty"`
	Options         []string  `json:"options,omitempty"`
	Complete        bool      `json:"complete"`
	Cluster         int       `json:"cluster,omitempty"`
	Recommendations []Product `json:"recommendations,omitempty"`
}

// Recommender performs the terminal lookup for a completed answer set.
type Recommender interface {
	Recommend(answers map[string]string) ([]Product, int, error)
}

// Conversation drives the fixed question sequence.
type Conversation struct {
	questions   []Question
	recommender Recommender
}

// NewConversation creates a conversation over the given questions.
// A nil or empty question list uses DefaultQuestions.
func NewConversation(questions []Question, recommender Recommender) *Conversation {
	if len(questions) == 0 {
		questions = DefaultQuestions()
	}
	return &Conversation{
		questions:   append([]Question(nil), questions...),
		recommender: recommender,
	}
}

// Len returns the number of steps before the session is complete.
func (c *Conversation) Len() int {
	return len(c.questions)
}

// Questions returns a copy of the question sequence.
func (c *Conversation) Questions() []Question {
	out := make([]Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = Question{Key: q.Key, Prompt: q.Prompt, Options: c.QuestionChoices(i)}
	}
	return out
}

// QuestionChoices returns the enumerated options of a question, or nil for
// free-text questions and out-of-range indices.
func (c *Conversation) QuestionChoices(index int) []string {
	if index < 0 || index >= len(c.questions) || len(c.questions[index].Options) == 0 {
		return nil
	}
	return append([]string(nil), c.questions[index].Options...)
}

// Start returns a fresh session and the first question.
func (c *Conversation) Start() (Session, Turn) {
	now := time.Now().UTC()
	s := Session{
		Step:      0,
		Answers:   make(map[string]string, len(c.questions)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s, c.questionTurn(0)
}

// Advance records an answer for the current step and moves to the next one.
// Answers are stored verbatim; options are hints, not a whitelist.
// On a completed session it returns ErrInvalidState and the session unchanged.
// If the terminal lookup fails, the session is returned unchanged as well.
func (c *Conversation) Advance(s Session, answer string) (Session, Turn, error) {
	n := len(c.questions)
	if s.Step >= n {
		return s, Turn{}, fmt.Errorf("%w: questionnaire already complete", ErrInvalidState)
	}
	if s.Step < 0 {
		return s, Turn{}, fmt.Errorf("%w: negative step %d", ErrInvalidState, s.Step)
	}

	next := s.Clone()
	next.Answers[c.questions[s.Step].Key] = answer
	next.Step++
	next.UpdatedAt = time.Now().UTC()

	if next.Step < n {
		return next, c.questionTurn(next.Step), nil
	}

	if c.recommender == nil {
		return s, Turn{}, ErrNotReady
	}
	products, cluster, err := c.recommender.Recommend(next.Answers)
	if err != nil {
		return s, Turn{}, err
	}
	next.Cluster = &cluster
	next.Recommendations = products

	return next, Turn{
		Step:            next.Step,
		TotalSteps:      n,
		Complete:        true,
		Cluster:         cluster,
		Recommendations: products,
	}, nil
}

func (c *Conversation) questionTurn(step int) Turn {
	return Turn{
		Step:       step,
		TotalSteps: len(c.questions),
		Question:   c.questions[step].Prompt,
		Options:    c.QuestionChoices(step),
	}
}
