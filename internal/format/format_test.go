// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/research-assistant/pkg/types"
)

type mockGenerator struct {
	out    string
	err    error
	calls  int
	prompt string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, _ float64) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.out, m.err
}

func samplePapers(n int) []types.PaperRecord {
	papers := make([]types.PaperRecord, n)
	for i := range papers {
		papers[i] = types.PaperRecord{
			ID:      fmt.Sprintf("2301.0000%dv1", i+1),
			Title:   fmt.Sprintf("Paper %d", i+1),
			Authors: []string{"Alice Author", "Bob Builder"},
			Summary: fmt.Sprintf("Abstract %d.", i+1),
			PDFURL:  fmt.Sprintf("http://arxiv.org/pdf/2301.0000%dv1", i+1),
		}
	}
	return papers
}

func TestFormatEmptyReturnsSentinel(t *testing.T) {
	gen := &mockGenerator{out: "should not be called"}
	f := &Formatter{Gen: gen}

	got, warnings := f.Format(context.Background(), nil)
	if got != NoPapersSentinel {
		t.Errorf("Format(nil) = %q, want sentinel", got)
	}
	if warnings != nil {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
}

func TestFormatGenerationPath(t *testing.T) {
	gen := &mockGenerator{out: "| Title | Authors | Abstract | Link |"}
	f := &Formatter{Gen: gen}

	got, warnings := f.Format(context.Background(), samplePapers(2))
	if got != gen.out {
		t.Errorf("Format = %q, want generated text verbatim", got)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	// Prompt embeds the serialized records.
	if !strings.Contains(gen.prompt, "Paper 1") || !strings.Contains(gen.prompt, "Paper 2") {
		t.Error("prompt should embed every record")
	}
}

func TestFormatFallsBackOnGenerationError(t *testing.T) {
	gen := &mockGenerator{err: fmt.Errorf("quota exceeded")}
	f := &Formatter{Gen: gen}

	got, warnings := f.Format(context.Background(), samplePapers(3))
	if !strings.Contains(got, "### 1. Paper 1") {
		t.Errorf("Format should fall back to section rendering, got %q", got)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "fallback") {
		t.Errorf("warnings = %v, want one fallback warning", warnings)
	}
}

func TestFormatNilGeneratorUsesFallback(t *testing.T) {
	f := &Formatter{}

	got, warnings := f.Format(context.Background(), samplePapers(1))
	if !strings.Contains(got, "### 1. Paper 1") {
		t.Errorf("Format = %q, want fallback rendering", got)
	}
	if warnings != nil {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestFallbackSectionCountAndOrder(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		papers := samplePapers(n)
		got := Fallback(papers)

		if count := strings.Count(got, "### "); count != n {
			t.Errorf("n=%d: %d numbered sections, want %d", n, count, n)
		}
		if count := strings.Count(got, "---"); count != n {
			t.Errorf("n=%d: %d separators, want %d", n, count, n)
		}
		for i, p := range papers {
			header := fmt.Sprintf("### %d. %s", i+1, p.Title)
			if !strings.Contains(got, header) {
				t.Errorf("missing section header %q", header)
			}
		}
		// Input order preserved.
		if n > 1 && strings.Index(got, "Paper 1") > strings.Index(got, fmt.Sprintf("Paper %d", n)) {
			t.Error("sections out of input order")
		}
	}
}

func TestFallbackPlaceholders(t *testing.T) {
	papers := []types.PaperRecord{{ID: "x"}}
	got := Fallback(papers)

	for _, placeholder := range []string{"No title", "No abstract available", "No link available"} {
		if !strings.Contains(got, placeholder) {
			t.Errorf("output missing placeholder %q", placeholder)
		}
	}
}

func TestFallbackMissingOptionalFields(t *testing.T) {
	// Absent comment and published never abort rendering.
	papers := []types.PaperRecord{{
		Title:   "Solo Paper",
		Authors: []string{"Eve"},
		Summary: "Text.",
		PDFURL:  "http://arxiv.org/pdf/1",
	}}
	got := Fallback(papers)

	if !strings.Contains(got, "### 1. Solo Paper") {
		t.Errorf("record without optional fields should still render, got %q", got)
	}
	if !strings.Contains(got, "**Authors:** Eve") {
		t.Errorf("authors line missing, got %q", got)
	}
}
