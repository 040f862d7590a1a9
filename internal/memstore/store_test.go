// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memstore

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T, inferencer Inferencer) *Store {
	t.Helper()
	cfg := types.MemoryConfig{
		Path:          filepath.Join(t.TempDir(), "memory", "research.db"),
		RelevantLimit: 3,
	}
	store, err := NewStore(cfg, inferencer)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

type fakeInferencer struct {
	out string
	err error
}

func (f *fakeInferencer) Infer(_ context.Context, _ string) (string, error) {
	return f.out, f.err
}

// --- Add / GetAll ---

func TestAddAndGetAllReverseOrder(t *testing.T) {
	store := testStore(t, nil)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		content := fmt.Sprintf("Searched for: query %d", i)
		if err := store.Add(ctx, content, "alice", false); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	result, err := store.GetAll(ctx, "alice")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(result.Entries))
	}
	// Most recent first.
	if !strings.Contains(result.Entries[0].Content, "query 3") {
		t.Errorf("first entry = %q, want the most recent", result.Entries[0].Content)
	}
	if !strings.Contains(result.Entries[2].Content, "query 1") {
		t.Errorf("last entry = %q, want the oldest", result.Entries[2].Content)
	}
	if result.Entries[0].UserID != "alice" {
		t.Errorf("UserID = %q, want alice", result.Entries[0].UserID)
	}
	if result.Entries[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestGetAllScopedToUser(t *testing.T) {
	store := testStore(t, nil)
	ctx := context.Background()

	if err := store.Add(ctx, "alice memory", "alice", false); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "bob memory", "bob", false); err != nil {
		t.Fatal(err)
	}

	result, err := store.GetAll(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 1 || result.Entries[0].Content != "alice memory" {
		t.Errorf("Entries = %v, want only alice's entry", result.Entries)
	}
}

func TestGetAllEmptyUser(t *testing.T) {
	store := testStore(t, nil)

	result, err := store.GetAll(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if result.Entries == nil {
		t.Error("Entries should be an empty slice, not nil")
	}
	if len(result.Entries) != 0 {
		t.Errorf("len(Entries) = %d, want 0", len(result.Entries))
	}
}

func TestAddValidation(t *testing.T) {
	store := testStore(t, nil)
	ctx := context.Background()

	if err := store.Add(ctx, "content", "", false); err == nil {
		t.Error("expected error for missing user ID")
	}
	if err := store.Add(ctx, "   ", "alice", false); err == nil {
		t.Error("expected error for empty content")
	}
}

// --- inference mode ---

func TestAddVerbatimWhenInferFalse(t *testing.T) {
	store := testStore(t, &fakeInferencer{out: "summarized"})
	ctx := context.Background()

	literal := "Searched for: \"transformer attention\"\nFound papers:\n- Attention Is All You Need"
	if err := store.Add(ctx, literal, "alice", false); err != nil {
		t.Fatal(err)
	}

	result, err := store.GetAll(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entries[0].Content != literal {
		t.Errorf("Content = %q, want the literal block", result.Entries[0].Content)
	}
	if result.Entries[0].Infer {
		t.Error("Infer should be false")
	}
}

func TestAddInferUsesInferencer(t *testing.T) {
	store := testStore(t, &fakeInferencer{out: "User researches attention mechanisms."})
	ctx := context.Background()

	if err := store.Add(ctx, "long rambling message about attention", "alice", true); err != nil {
		t.Fatal(err)
	}

	result, err := store.GetAll(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entries[0].Content != "User researches attention mechanisms." {
		t.Errorf("Content = %q, want the inference output", result.Entries[0].Content)
	}
	if !result.Entries[0].Infer {
		t.Error("Infer should be true")
	}
}

func TestAddInferDegradesToVerbatim(t *testing.T) {
	store := testStore(t, &fakeInferencer{err: fmt.Errorf("quota exceeded")})
	ctx := context.Background()

	if err := store.Add(ctx, "original text", "alice", true); err != nil {
		t.Fatalf("inference failure must not fail the write: %v", err)
	}

	result, err := store.GetAll(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if result.Entries[0].Content != "original text" {
		t.Errorf("Content = %q, want verbatim fallback", result.Entries[0].Content)
	}
}

// --- Search ---

func TestSearchRelevance(t *testing.T) {
	store := testStore(t, nil)
	ctx := context.Background()

	entries := []string{
		"Searched for: transformer attention mechanisms",
		"Searched for: protein folding with deep learning",
		"Searched for: sparse attention kernels",
	}
	for _, e := range entries {
		if err := store.Add(ctx, e, "alice", false); err != nil {
			t.Fatal(err)
		}
	}

	result, err := store.Search(ctx, "attention", "alice", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(result.Entries))
	}
	for _, e := range result.Entries {
		if !strings.Contains(e.Content, "attention") {
			t.Errorf("entry %q should mention attention", e.Content)
		}
	}
}

func TestSearchScopedToUser(t *testing.T) {
	store := testStore(t, nil)
	ctx := context.Background()

	if err := store.Add(ctx, "attention research", "alice", false); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "attention research", "bob", false); err != nil {
		t.Fatal(err)
	}

	result, err := store.Search(ctx, "attention", "alice", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Entries) != 1 || result.Entries[0].UserID != "alice" {
		t.Errorf("Entries = %v, want only alice's entry", result.Entries)
	}
}

func TestSearchNoMatches(t *testing.T) {
	store := testStore(t, nil)
	ctx := context.Background()

	if err := store.Add(ctx, "protein folding", "alice", false); err != nil {
		t.Fatal(err)
	}

	result, err := store.Search(ctx, "astronomy", "alice", 3)
	if err != nil {
		t.Fatalf("no matches is not an error: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("len(Entries) = %d, want 0", len(result.Entries))
	}
}

func TestSearchPunctuationSafe(t *testing.T) {
	store := testStore(t, nil)
	ctx := context.Background()

	if err := store.Add(ctx, "graph neural networks", "alice", false); err != nil {
		t.Fatal(err)
	}

	// Punctuation in the query must not break MATCH syntax.
	_, err := store.Search(ctx, `graph (neural "nets") AND more`, "alice", 3)
	if err != nil {
		t.Errorf("Search with punctuation: %v", err)
	}
}

func TestSearchLimit(t *testing.T) {
	store := testStore(t, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := store.Add(ctx, fmt.Sprintf("attention memory %d", i), "alice", false); err != nil {
			t.Fatal(err)
		}
	}

	result, err := store.Search(ctx, "attention", "alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	// Zero limit uses the configured default (3).
	if len(result.Entries) != 3 {
		t.Errorf("len(Entries) = %d, want 3", len(result.Entries))
	}
}

func TestFTSQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"single token", "attention", `"attention"`},
		{"multiple tokens", "sparse attention", `"sparse" OR "attention"`},
		{"strips quotes", `say "hello"`, `"say" OR "hello"`},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ftsQuery(tt.query); got != tt.want {
				t.Errorf("ftsQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

// --- Export ---

func TestExportYAML(t *testing.T) {
	store := testStore(t, nil)
	ctx := context.Background()

	if err := store.Add(ctx, "first memory", "alice", false); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "second memory", "alice", false); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := store.Export(ctx, "alice", &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var entries []types.MemoryEntry
	if err := yaml.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("export output is not valid YAML: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Content != "second memory" {
		t.Errorf("first exported entry = %q, want most recent", entries[0].Content)
	}
}
