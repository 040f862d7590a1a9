// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders paper records as human-readable markdown. The
// primary path asks a text-generation backend for a table rendering; the
// fallback path is a pure, deterministic section renderer that succeeds for
// any well-formed record list. Both paths return a single markdown string,
// and callers must not depend on which one produced it.
package format

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/research-assistant/internal/ai"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// NoPapersSentinel is returned for an empty record list, with no external calls.
const NoPapersSentinel = "No papers found for the given query."

// defaultTemperature favors deterministic table structure.
const defaultTemperature = 0.2

// formattingPromptTmpl is the prompt sent to the generation backend. It
// embeds a JSON serialization of every record and requests a markdown table.
var formattingPromptTmpl = template.Must(template.New("formatting").Parse(`Based on the following arXiv search result, provide a proper structured output in markdown that is readable by the users.
Each paper should have a title, authors, abstract, and link.
Respond with a markdown table with the columns: Title, Authors, Abstract, Link. Cover every paper in the search result and output nothing besides the table.

Search Result:
{{.Papers}}
`))

// Formatter converts paper records to markdown.
type Formatter struct {
	// Gen is the text-generation backend for the primary path. A nil
	// Gen selects the fallback renderer for every call.
	Gen ai.Generator

	// Temperature is the sampling temperature for generation calls.
	// Zero means the default (0.2).
	Temperature float64
}

// Format renders the records as a single markdown string. Generation
// failures are never fatal: they surface as a warning and the fallback
// renders the output instead.
func (f *Formatter) Format(ctx context.Context, papers []types.PaperRecord) (string, []string) {
	if len(papers) == 0 {
		return NoPapersSentinel, nil
	}

	if f.Gen == nil {
		return Fallback(papers), nil
	}

	prompt, err := renderPrompt(papers)
	if err != nil {
		return Fallback(papers), []string{fmt.Sprintf("formatting prompt failed: %v", err)}
	}

	temperature := f.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	out, err := f.Gen.Generate(ctx, prompt, temperature)
	if err != nil {
		return Fallback(papers), []string{fmt.Sprintf("AI formatting failed, using fallback: %v", err)}
	}
	return out, nil
}

// renderPrompt serializes the records and executes the prompt template.
func renderPrompt(papers []types.PaperRecord) (string, error) {
	serialized, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing papers: %w", err)
	}

	var buf bytes.Buffer
	err = formattingPromptTmpl.Execute(&buf, struct{ Papers string }{Papers: string(serialized)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fallback deterministically renders each record as a numbered markdown
// section in input order. It makes no external calls and produces output
// for any record list; missing optional fields render as fixed placeholders.
func Fallback(papers []types.PaperRecord) string {
	var b strings.Builder
	b.WriteString("## Search Results\n\n")

	for i, p := range papers {
		title := p.Title
		if title == "" {
			title = "No title"
		}
		abstract := p.Summary
		if abstract == "" {
			abstract = "No abstract available"
		}
		link := p.PDFURL
		if link == "" {
			link = "No link available"
		}

		fmt.Fprintf(&b, "### %d. %s\n", i+1, title)
		fmt.Fprintf(&b, "**Authors:** %s\n\n", strings.Join(p.Authors, ", "))
		fmt.Fprintf(&b, "**Abstract:** %s\n\n", abstract)
		fmt.Fprintf(&b, "**Link:** %s\n\n", link)
		b.WriteString("---\n\n")
	}
	return b.String()
}
