// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich augments raw search queries with context drawn from the
// user's stored memory. Enrichment is best-effort: any memory failure
// degrades to the original query and is never fatal to a search.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/research-assistant/pkg/types"
)

const defaultLimit = 3

// MemorySearcher is the memory lookup the enricher depends on.
type MemorySearcher interface {
	Search(ctx context.Context, query, userID string, limit int) (types.MemorySearchResult, error)
}

// Enricher builds an enriched query from memory context.
type Enricher struct {
	// Mem performs the similarity lookup.
	Mem MemorySearcher

	// Limit caps how many entries contribute to the annotation.
	// Zero means the default (3).
	Limit int

	// Passthrough disables the lookup entirely; queries are returned
	// unchanged.
	Passthrough bool
}

// Enrich returns the query annotated with relevant memory content, or the
// query unchanged when no relevant entries exist, enrichment is disabled,
// or the lookup fails. The returned query always has the original query as
// a prefix. Lookup failures surface as warnings.
func (e *Enricher) Enrich(ctx context.Context, query, userID string) (string, []string) {
	if e.Passthrough || e.Mem == nil {
		return query, nil
	}

	limit := e.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	result, err := e.Mem.Search(ctx, query, userID, limit)
	if err != nil {
		return query, []string{fmt.Sprintf("memory lookup failed, searching without context: %v", err)}
	}
	if len(result.Entries) == 0 {
		return query, nil
	}

	contents := make([]string, len(result.Entries))
	for i, entry := range result.Entries {
		contents[i] = entry.Content
	}
	return fmt.Sprintf("%s (User Background: %s)", query, strings.Join(contents, " ")), nil
}
