// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-assistant
// pipeline: paper records returned by the repository adapter, memory entries
// owned by the memory store, and per-stage configuration.
package types

import "time"

// PaperRecord is one retrieved publication. Records are constructed once
// from adapter output and never mutated afterwards; only title, summary,
// and link survive into memory after formatting.
type PaperRecord struct {
	// ID is the short stable identifier (e.g. "2301.07041v1").
	ID string `json:"id" yaml:"id"`

	// EntryID is the canonical URI for the record (the arXiv abs page).
	EntryID string `json:"entry_id" yaml:"entry_id"`

	// Title is the paper title. Non-empty for every record the adapter emits.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// PrimaryCategory is the primary subject classification (e.g. "cs.CL").
	PrimaryCategory string `json:"primary_category" yaml:"primary_category"`

	// Categories lists all subject classification codes.
	Categories []string `json:"categories" yaml:"categories"`

	// Published is the publication timestamp. A zero value means the
	// source did not provide one; processing continues regardless.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	// PDFURL links to the full-text PDF. Non-empty for every record the
	// adapter emits.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Links lists all URIs attached to the record, in source order.
	Links []string `json:"links" yaml:"links"`

	// Summary is the abstract text.
	Summary string `json:"summary" yaml:"summary"`

	// Comment is the optional author comment (e.g. "12 pages, 3 figures").
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}
