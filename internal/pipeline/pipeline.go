// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the memory-augmented search: query enrichment,
// paper search, result formatting, and episode recording. The orchestrator
// owns the failure-recovery policy across those steps: only a missing user
// and a search transport failure are fatal; everything else degrades to a
// reduced path with a warning.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// NoResultsMessage is the outcome text for a search that matched nothing.
// An empty result set is not an error and writes no memory.
const NoResultsMessage = "No papers found for your query. Try different keywords."

// Searcher is the paper repository adapter.
type Searcher interface {
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.PaperRecord, []string, error)
}

// Enricher augments a query with memory context. It never fails; problems
// surface as warnings alongside a usable (possibly unchanged) query.
type Enricher interface {
	Enrich(ctx context.Context, query, userID string) (string, []string)
}

// Formatter renders records as markdown. It never fails; a degraded path
// surfaces as warnings alongside usable output.
type Formatter interface {
	Format(ctx context.Context, papers []types.PaperRecord) (string, []string)
}

// MemoryWriter records one episode. Write failures are reported but never
// roll back an already-produced result.
type MemoryWriter interface {
	Add(ctx context.Context, content, userID string, infer bool) error
}

// Session identifies the user an invocation runs for. It is passed
// explicitly to the orchestrator; there is no ambient session state.
type Session struct {
	UserID string
}

// Result is the outcome of one pipeline invocation that did not abort.
type Result struct {
	// Markdown is the formatted output shown to the user.
	Markdown string

	// Papers holds the records the search returned, in repository order.
	Papers []types.PaperRecord

	// NoResults is true when the search matched nothing; Markdown then
	// carries NoResultsMessage and no memory was written.
	NoResults bool

	// MemoryRecorded reports whether the episode reached the memory store.
	MemoryRecorded bool

	// Warnings collects every non-fatal problem encountered along the way.
	Warnings []string
}

// Orchestrator runs the search pipeline for one session.
type Orchestrator struct {
	searcher  Searcher
	enricher  Enricher
	formatter Formatter
	memory    MemoryWriter
	session   Session
	searchCfg types.SearchConfig
}

// NewOrchestrator wires the pipeline stages for a session. enricher and
// memory may be nil: a nil enricher passes queries through unchanged and a
// nil memory writer skips episode recording.
func NewOrchestrator(searcher Searcher, enricher Enricher, formatter Formatter, memory MemoryWriter, session Session, searchCfg types.SearchConfig) *Orchestrator {
	return &Orchestrator{
		searcher:  searcher,
		enricher:  enricher,
		formatter: formatter,
		memory:    memory,
		session:   session,
		searchCfg: searchCfg,
	}
}

// Run executes one invocation: enrich, search, format, record. It returns
// either a Result or an error, never both. Formatting always runs on the
// original paper list; enrichment affects only the search query.
func (o *Orchestrator) Run(ctx context.Context, query string) (Result, error) {
	if o.session.UserID == "" {
		return Result{}, fmt.Errorf("user ID required: set a username before searching")
	}
	if strings.TrimSpace(query) == "" {
		return Result{}, fmt.Errorf("empty search query")
	}

	var warnings []string

	searchQuery := query
	if o.enricher != nil {
		var w []string
		searchQuery, w = o.enricher.Enrich(ctx, query, o.session.UserID)
		warnings = append(warnings, w...)
	}

	papers, w, err := o.searcher.Search(ctx, searchQuery, o.searchCfg)
	warnings = append(warnings, w...)
	if err != nil {
		return Result{}, fmt.Errorf("searching papers: %w", err)
	}

	if len(papers) == 0 {
		return Result{
			Markdown:  NoResultsMessage,
			NoResults: true,
			Warnings:  warnings,
		}, nil
	}

	markdown, w2 := o.formatter.Format(ctx, papers)
	warnings = append(warnings, w2...)

	recorded := false
	if o.memory != nil {
		episode := episodeContent(query, papers)
		if err := o.memory.Add(ctx, episode, o.session.UserID, false); err != nil {
			warnings = append(warnings, fmt.Sprintf("could not record search in memory: %v", err))
		} else {
			recorded = true
		}
	}

	return Result{
		Markdown:       markdown,
		Papers:         papers,
		MemoryRecorded: recorded,
		Warnings:       warnings,
	}, nil
}

// episodeContent builds the literal markdown block recorded for one
// episode: the original query and the titles of every result. It is
// written with inference disabled so the exact text is retrievable later.
func episodeContent(query string, papers []types.PaperRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Searched for: %s\n", query)
	b.WriteString("Found papers:\n")
	for _, p := range papers {
		fmt.Fprintf(&b, "- %s\n", p.Title)
	}
	return b.String()
}
