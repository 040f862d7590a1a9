// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv queries the arXiv API and converts Atom feed entries into
// paper records. It is the pipeline's only paper repository adapter;
// relevance ranking is delegated entirely to arXiv and results keep the
// API's descending-relevance order.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/research-assistant/pkg/types"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

const defaultMaxResults = 10

// Client queries the arXiv API.
type Client struct {
	HTTP *http.Client
}

// Search issues a relevance-ranked, descending-sort query and returns the
// extracted records plus any per-entry warnings. A malformed entry is
// skipped with a warning; the search fails only on transport or decode
// errors. An empty result with a nil error means no matches.
func (c *Client) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.PaperRecord, []string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil, fmt.Errorf("empty arXiv query")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		apiBase, buildQuery(query), maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var records []types.PaperRecord
	var warnings []string
	for i, entry := range feed.Entries {
		record, err := extractRecord(entry)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping arXiv entry %d: %v", i+1, err))
			continue
		}
		records = append(records, record)
	}
	return records, warnings, nil
}

// buildQuery constructs the search_query parameter: all fields, terms
// URL-escaped.
func buildQuery(query string) string {
	return "all:" + url.QueryEscape(strings.Join(strings.Fields(query), " "))
}

// extractRecord converts one Atom entry into a PaperRecord. The record is
// unusable without a title and PDF URL; either missing is an extraction
// error and the entry is skipped.
func extractRecord(entry atomEntry) (types.PaperRecord, error) {
	id := shortID(entry.ID)
	if id == "" {
		return types.PaperRecord{}, fmt.Errorf("no arXiv identifier in %q", entry.ID)
	}

	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return types.PaperRecord{}, fmt.Errorf("entry %s has no title", id)
	}

	record := types.PaperRecord{
		ID:              id,
		EntryID:         entry.ID,
		Title:           title,
		PrimaryCategory: entry.PrimaryCategory.Term,
		Summary:         strings.TrimSpace(entry.Summary),
		Comment:         strings.TrimSpace(entry.Comment),
	}

	for _, a := range entry.Authors {
		record.Authors = append(record.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range entry.Categories {
		record.Categories = append(record.Categories, c.Term)
	}
	for _, l := range entry.Links {
		record.Links = append(record.Links, l.Href)
		if l.Title == "pdf" {
			record.PDFURL = l.Href
		}
	}

	// Some entries omit the pdf link; derive it from the abs URL.
	if record.PDFURL == "" && strings.Contains(entry.ID, "/abs/") {
		record.PDFURL = strings.Replace(entry.ID, "/abs/", "/pdf/", 1)
	}
	if record.PDFURL == "" {
		return types.PaperRecord{}, fmt.Errorf("entry %s has no PDF URL", id)
	}

	if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
		record.Published = t
	}

	return record, nil
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID              string         `xml:"id"`
	Title           string         `xml:"title"`
	Summary         string         `xml:"summary"`
	Published       string         `xml:"published"`
	Comment         string         `xml:"comment"`
	Authors         []atomAuthor   `xml:"author"`
	Links           []atomLink     `xml:"link"`
	Categories      []atomCategory `xml:"category"`
	PrimaryCategory atomCategory   `xml:"primary_category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// shortID pulls the short identifier from the entry's <id> URL, keeping
// the version suffix (e.g. "http://arxiv.org/abs/2301.07041v1" becomes
// "2301.07041v1").
func shortID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return idURL[idx+len(prefix):]
}
