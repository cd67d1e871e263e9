// Package findings implements the FindingsRepository: a mutable per-run
// accumulator for findings, documents, and questions-by-iteration, plus
// the formatter that is the sole place source ordering/numbering for
// human output is finalized.
package findings

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// Repository accumulates one research run's findings. All mutation goes
// through AppendFinding/AppendLinks/RecordQuestions, which serialize
// access under a single mutex so appends to LinksOfSystem stay ordered
// even when the parallel strategy fans out concurrent workers (spec.md
// §4.3's citation invariant).
type Repository struct {
	mu sync.Mutex

	linksOfSystem []types.SearchResult
	findings      []types.Finding
	byIteration   types.QuestionsByIteration
	query         string
}

// New constructs an empty Repository for the given top-level query.
func New(query string) *Repository {
	return &Repository{
		query:       query,
		byIteration: types.QuestionsByIteration{},
	}
}

// NrOfLinks returns len(LinksOfSystem) at the moment of the call — the
// value a citation handler must be invoked with as nr_of_links *before*
// AppendLinks is called for the same sub-question's results.
func (r *Repository) NrOfLinks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.linksOfSystem)
}

// AppendLinks appends results to LinksOfSystem under lock, preserving
// global citation ordering across concurrent fan-out.
func (r *Repository) AppendLinks(results []types.SearchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.linksOfSystem = append(r.linksOfSystem, results...)
}

// AppendFinding records one sub-question's finding.
func (r *Repository) AppendFinding(f types.Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findings = append(r.findings, f)
}

// RecordQuestions records the sub-questions generated for an iteration.
func (r *Repository) RecordQuestions(iteration int, questions []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byIteration[iteration] = append(r.byIteration[iteration], questions...)
}

// Findings returns a snapshot copy of the accumulated findings.
func (r *Repository) Findings() []types.Finding {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.Finding, len(r.findings))
	copy(out, r.findings)
	return out
}

// LinksOfSystem returns a snapshot copy of the accumulated links.
func (r *Repository) LinksOfSystem() []types.SearchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.SearchResult, len(r.linksOfSystem))
	copy(out, r.linksOfSystem)
	return out
}

// QuestionsByIteration returns a snapshot copy of the questions-by-
// iteration map.
func (r *Repository) QuestionsByIteration() types.QuestionsByIteration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(types.QuestionsByIteration, len(r.byIteration))
	for k, v := range r.byIteration {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// Format produces the single text artifact: a header, questions grouped
// by iteration, each finding's phase/question/content/links, and a
// de-duplicated all-sources section. This is the sole place source
// ordering/numbering for human-facing output is finalized.
func (r *Repository) Format() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "# Research Findings: %s\n\n", r.query)

	if len(r.byIteration) > 0 {
		b.WriteString("## Questions by Iteration\n\n")
		iterations := make([]int, 0, len(r.byIteration))
		for i := range r.byIteration {
			iterations = append(iterations, i)
		}
		sort.Ints(iterations)
		for _, i := range iterations {
			fmt.Fprintf(&b, "Iteration %d:\n", i)
			for _, q := range r.byIteration[i] {
				fmt.Fprintf(&b, "- %s\n", q)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Findings\n\n")
	for _, f := range r.findings {
		fmt.Fprintf(&b, "### %s\n\n", f.Question)
		if f.Phase != "" {
			fmt.Fprintf(&b, "_Phase: %s_\n\n", f.Phase)
		}
		b.WriteString(f.Content)
		b.WriteString("\n\n")
		if len(f.SearchResults) > 0 {
			b.WriteString("Links:\n")
			for _, link := range f.SearchResults {
				fmt.Fprintf(&b, "- [%d] %s — %s\n", link.Index, link.Title, link.Link)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## All Sources\n\n")
	seen := make(map[string]bool)
	for _, link := range r.linksOfSystem {
		if seen[link.Link] {
			continue
		}
		seen[link.Link] = true
		fmt.Fprintf(&b, "- [%d] %s — %s\n", link.Index, link.Title, link.Link)
	}

	return b.String()
}
