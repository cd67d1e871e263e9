// Package report implements the ReportGenerator: it asks an LLM for a
// bracketed outline, runs a focused sub-research per subsection, and
// assembles the results into one Markdown document with a table of
// contents, a summary, and a de-duplicated sources section, per
// spec.md §4.8.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// Metadata is the structured block attached to a Result, per spec.md
// §4.8 item 4.
type Metadata struct {
	GeneratedAt        string `json:"generated_at"`
	InitialSources     int    `json:"initial_sources"`
	SectionsResearched int    `json:"sections_researched"`
	SearchesPerSection int    `json:"searches_per_section"`
	Query              string `json:"query"`
}

// Result is what Generate returns.
type Result struct {
	Content  string
	Metadata Metadata
}

// SubResearcher runs one focused sub-query and returns the resulting
// knowledge plus any links it gathered. This is satisfied by running a
// strategy with max_iterations=1, per spec.md §4.8 item 2; it is an
// interface here so report does not need to import strategy directly
// and create an import cycle (strategy does not depend on report, but
// keeping the dependency one-directional via an interface matches how
// ResearchService wires both together).
type SubResearcher interface {
	Research(ctx context.Context, subQuery string) (knowledge string, links []types.SearchResult, err error)
}

// OutlineClient asks an LLM for a bracketed report outline.
type OutlineClient interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Section is one top-level outline section with its subsections.
type Section struct {
	Title        string
	Subsections  []Subsection
}

// Subsection is one bulleted outline item with its stated purpose.
type Subsection struct {
	Title   string
	Purpose string
}

// Generator builds the full report.
type Generator struct {
	outline    OutlineClient
	researcher SubResearcher
}

// New builds a report Generator.
func New(outline OutlineClient, researcher SubResearcher) *Generator {
	return &Generator{outline: outline, researcher: researcher}
}

// Generate produces the full report for query given the initial
// findings text gathered before report mode was selected.
func (g *Generator) Generate(ctx context.Context, query, initialFindings string) (*Result, error) {
	outlineText, err := g.outline.Invoke(ctx, buildOutlinePrompt(query, initialFindings))
	if err != nil {
		return nil, fmt.Errorf("report: request outline: %w", err)
	}

	sections := ParseOutline(outlineText)
	if len(sections) == 0 {
		sections = []Section{{Title: "Findings", Subsections: []Subsection{{Title: "Overview", Purpose: "summarize available findings"}}}}
	}

	var allLinks []types.SearchResult
	seenHeaders := map[string]bool{}
	searchesPerSection := 0

	var body strings.Builder
	body.WriteString("## Table of Contents\n\n")
	for i, sec := range sections {
		fmt.Fprintf(&body, "%d. %s\n", i+1, sec.Title)
	}
	body.WriteString("\n")

	body.WriteString("## Summary\n\n")
	body.WriteString(summarize(initialFindings))
	body.WriteString("\n\n")

	for i, sec := range sections {
		header := fmt.Sprintf("## %d. %s", i+1, sec.Title)
		if seenHeaders[header] {
			continue
		}
		seenHeaders[header] = true
		body.WriteString(header)
		body.WriteString("\n\n")

		for _, sub := range sec.Subsections {
			subHeader := fmt.Sprintf("### %s", sub.Title)
			if seenHeaders[subHeader] {
				continue
			}
			seenHeaders[subHeader] = true

			subQuery := fmt.Sprintf("%s %s %s %s", query, sec.Title, sub.Title, sub.Purpose)
			knowledge, links, err := g.researcher.Research(ctx, subQuery)
			searchesPerSection++
			if err != nil {
				knowledge = fmt.Sprintf("_research for this subsection failed: %v_", err)
			}
			allLinks = append(allLinks, links...)

			body.WriteString(subHeader)
			body.WriteString("\n\n")
			body.WriteString(knowledge)
			body.WriteString("\n\n")
		}
	}

	body.WriteString("## Sources\n\n")
	for _, link := range dedupeLinks(allLinks) {
		fmt.Fprintf(&body, "- [%d] %s — %s\n", link.Index, link.Title, link.Link)
	}

	return &Result{
		Content: body.String(),
		Metadata: Metadata{
			GeneratedAt:        time.Now().UTC().Format(time.RFC3339),
			InitialSources:     len(dedupeLinks(allLinks)),
			SectionsResearched: len(sections),
			SearchesPerSection: searchesPerSection,
			Query:              query,
		},
	}, nil
}

func buildOutlinePrompt(query, initialFindings string) string {
	return fmt.Sprintf(
		"Query: %s\n\nInitial findings:\n%s\n\n"+
			"Propose a report outline for this query. Respond ONLY in this exact bracketed format, one line per item:\n"+
			"[1] Section Title\n"+
			"  - Subsection Title | purpose of this subsection\n"+
			"  - Subsection Title | purpose of this subsection\n"+
			"[2] Next Section Title\n"+
			"  - Subsection Title | purpose\n\n"+
			"Use 3-6 top-level sections, each with 2-4 subsections.",
		query, initialFindings,
	)
}

func summarize(initialFindings string) string {
	trimmed := strings.TrimSpace(initialFindings)
	if trimmed == "" {
		return "No initial findings were available before detailed research began."
	}
	const maxLen = 600
	if len(trimmed) > maxLen {
		return trimmed[:maxLen] + "..."
	}
	return trimmed
}

func dedupeLinks(links []types.SearchResult) []types.SearchResult {
	seen := map[string]bool{}
	var out []types.SearchResult
	for _, l := range links {
		if seen[l.Link] {
			continue
		}
		seen[l.Link] = true
		out = append(out, l)
	}
	return out
}
