// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MemoryEntry is one episode of user research activity. Entries are
// append-only: the store offers no update or delete, and insertion order
// is the canonical order for a user's history.
type MemoryEntry struct {
	// ID is the store-assigned row identifier.
	ID int64 `json:"id" yaml:"id"`

	// UserID identifies the owner. Required and stable across a session.
	UserID string `json:"user_id" yaml:"user_id"`

	// Content is free text: either an inference-eligible message or a
	// literal markdown block, depending on Infer.
	Content string `json:"content" yaml:"content"`

	// Infer records whether the store was allowed to summarize or extract
	// facts from the content before persisting it. Episode records are
	// written with Infer false so the exact markdown block is retrievable
	// verbatim later.
	Infer bool `json:"infer" yaml:"infer"`

	// CreatedAt is the insertion timestamp.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// MemorySearchResult holds the entries returned by a memory lookup.
// No entries is represented by an empty slice, never by a missing field.
type MemorySearchResult struct {
	Entries []MemoryEntry `json:"entries" yaml:"entries"`
}
