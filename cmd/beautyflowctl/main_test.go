// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/beautyflow/internal/config"
	"github.com/tomtom215/beautyflow/internal/database"
	"github.com/tomtom215/beautyflow/internal/recommend"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

// seedTestDB writes a small population and catalog to a fresh DuckDB file.
func seedTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.duckdb")
	db, err := database.New(&config.DatabaseConfig{
		Path:         path,
		MaxMemory:    "256MB",
		Threads:      2,
		QueryTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	dry := recommend.Preferences{SkinType: "Sèche", CosmeticObjective: "Hydratation", Interest: "Oui"}
	oily := recommend.Preferences{SkinType: "Grasse", CosmeticObjective: "Acné", Interest: "Non"}
	users := []recommend.UserProfile{
		{ID: 1, Preferences: dry, Budget: recommend.BudgetLow, PurchaseHistory: []int64{100}},
		{ID: 2, Preferences: dry, Budget: recommend.BudgetLow, PurchaseHistory: []int64{100, 101}},
		{ID: 3, Preferences: dry, Budget: recommend.BudgetLow},
		{ID: 4, Preferences: oily, Budget: recommend.BudgetHigh, PurchaseHistory: []int64{200}},
		{ID: 5, Preferences: oily, Budget: recommend.BudgetHigh, PurchaseHistory: []int64{200}},
		{ID: 6, Preferences: oily, Budget: recommend.BudgetHigh},
	}
	products := []recommend.Product{
		{ID: 100, Name: "Crème hydratante", Brand: "Aziza", CategoryID: 1, UnitPrice: 12.5},
		{ID: 101, Name: "Sérum", Brand: "Lilas", CategoryID: 1, UnitPrice: 18},
		{ID: 200, Name: "Gel purifiant", Brand: "Lilas", CategoryID: 2, UnitPrice: 55},
	}

	ctx := context.Background()
	if err := db.InsertUsers(ctx, users); err != nil {
		t.Fatalf("InsertUsers() error = %v", err)
	}
	if err := db.InsertProducts(ctx, products); err != nil {
		t.Fatalf("InsertProducts() error = %v", err)
	}
	return path
}

func TestQuestionsCommand(t *testing.T) {
	out, err := runCLI(t, "questions")
	if err != nil {
		t.Fatalf("questions error = %v", err)
	}
	for _, q := range recommend.DefaultQuestions() {
		if !strings.Contains(out, q.Key) {
			t.Errorf("questions output missing key %q", q.Key)
		}
	}
	if !strings.Contains(out, "Quel est votre budget?") {
		t.Error("questions output missing budget prompt")
	}
}

func TestParseAnswers(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", pairs: nil, want: map[string]string{}},
		{
			name:  "trims and overrides",
			pairs: []string{" skin_type = Sèche ", "budget=Faible", "skin_type=Mixte"},
			want:  map[string]string{"skin_type": "Mixte", "budget": "Faible"},
		},
		{name: "value may contain equals", pairs: []string{"local_brands_used=a=b"}, want: map[string]string{"local_brands_used": "a=b"}},
		{name: "missing separator", pairs: []string{"skin_type"}, wantErr: true},
		{name: "empty key", pairs: []string{"=Sèche"}, wantErr: true},
		{name: "unknown key", pairs: []string{"eye_color=Bleu"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnswers(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseAnswers() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseAnswers() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseAnswers()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestRecommendCommand(t *testing.T) {
	path := seedTestDB(t)

	out, err := runCLI(t, "--db", path, "-k", "2",
		"recommend", "-a", "skin_type=Sèche", "-a", "cosmetic_objective=Hydratation", "-a", "interest=Oui", "-a", "budget=Faible")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	if !strings.Contains(out, "Cluster") {
		t.Errorf("recommend output missing cluster heading:\n%s", out)
	}
	if !strings.Contains(out, "Crème hydratante") {
		t.Errorf("recommend output missing low-budget product:\n%s", out)
	}
	if strings.Contains(out, "Gel purifiant") {
		t.Errorf("recommend output includes high-budget product:\n%s", out)
	}
}

func TestRecommendCommand_RejectsUnknownKey(t *testing.T) {
	if _, err := runCLI(t, "--db", filepath.Join(t.TempDir(), "x.duckdb"), "recommend", "-a", "eye_color=Bleu"); err == nil {
		t.Fatal("expected error for unknown answer key")
	}
}

func TestBuildAndProfilesCommands(t *testing.T) {
	path := seedTestDB(t)

	out, err := runCLI(t, "--db", path, "-k", "2", "build")
	if err != nil {
		t.Fatalf("build error = %v", err)
	}
	if !strings.Contains(out, "Pipeline built") || !strings.Contains(out, "CLUSTER") {
		t.Errorf("build output incomplete:\n%s", out)
	}

	out, err = runCLI(t, "--db", path, "-k", "2", "profiles", "--shortlists")
	if err != nil {
		t.Fatalf("profiles error = %v", err)
	}
	for _, want := range []string{"Cluster 0", "Cluster 1", "skin_type", "Sèche", "Grasse"} {
		if !strings.Contains(out, want) {
			t.Errorf("profiles output missing %q:\n%s", want, out)
		}
	}
}

func TestSeedCommand_RequiresInput(t *testing.T) {
	t.Setenv("SEED_USERS_CSV", "")
	t.Setenv("SEED_PRODUCTS_CSV", "")
	if _, err := runCLI(t, "--db", filepath.Join(t.TempDir(), "x.duckdb"), "seed"); err == nil {
		t.Fatal("expected error when no CSV is configured")
	}
}
