package diagnostics

import (
	"fmt"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

const (
	maxPartialSearchResults = 5
	maxPartialFindings      = 3
	partialTruncateLen      = 300
)

// PartialResults is what GenerateReport renders in a collapsible section
// when present, per spec.md §4.11.
type PartialResults struct {
	CurrentKnowledge string
	SearchResults    []types.SearchResult
	Findings         []types.Finding
}

// GenerateReport renders rpt (and, if present, partial) as a Markdown
// diagnostic document. It never panics out to the caller: any internal
// failure while rendering partial results falls back to a minimal
// textual report instead of propagating.
func GenerateReport(rpt Report, partial *PartialResults) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = fallbackReport(rpt)
		}
	}()

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rpt.Info.Title)
	fmt.Fprintf(&b, "%s\n\n", rpt.Message)

	if len(rpt.Info.HelpLinks) > 0 {
		b.WriteString("## Help\n\n")
		for _, link := range rpt.Info.HelpLinks {
			fmt.Fprintf(&b, "- %s\n", link)
		}
		b.WriteString("\n")
	}

	if len(rpt.Info.SuggestedActions) > 0 {
		b.WriteString("## Suggested Actions\n\n")
		for _, action := range rpt.Info.SuggestedActions {
			fmt.Fprintf(&b, "- %s\n", action)
		}
		b.WriteString("\n")
	}

	if partial != nil && hasPartialContent(partial) {
		b.WriteString("<details>\n<summary>Partial results collected before the error</summary>\n\n")
		renderPartialResults(&b, partial)
		b.WriteString("</details>\n")
	}

	return b.String()
}

func hasPartialContent(p *PartialResults) bool {
	return strings.TrimSpace(p.CurrentKnowledge) != "" || len(p.SearchResults) > 0 || len(p.Findings) > 0
}

func renderPartialResults(b *strings.Builder, p *PartialResults) {
	if strings.TrimSpace(p.CurrentKnowledge) != "" {
		b.WriteString("### Knowledge Gathered So Far\n\n")
		b.WriteString(truncate(p.CurrentKnowledge, partialTruncateLen))
		b.WriteString("\n\n")
	}

	if len(p.SearchResults) > 0 {
		b.WriteString("### Search Results\n\n")
		for i, sr := range p.SearchResults {
			if i >= maxPartialSearchResults {
				fmt.Fprintf(b, "_... %d more result(s) omitted_\n\n", len(p.SearchResults)-maxPartialSearchResults)
				break
			}
			fmt.Fprintf(b, "- [%s](%s): %s\n", sr.Title, sr.Link, truncate(sr.Snippet, partialTruncateLen))
		}
		b.WriteString("\n")
	}

	nonErrorFindings := filterNonErrorFindings(p.Findings)
	if len(nonErrorFindings) > 0 {
		b.WriteString("### Findings\n\n")
		for i, f := range nonErrorFindings {
			if i >= maxPartialFindings {
				fmt.Fprintf(b, "_... %d more finding(s) omitted_\n\n", len(nonErrorFindings)-maxPartialFindings)
				break
			}
			fmt.Fprintf(b, "**%s**\n\n%s\n\n", f.Question, truncate(f.Content, partialTruncateLen))
		}
	}
}

func filterNonErrorFindings(findings []types.Finding) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if f.Phase == "error" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// fallbackReport is the minimal textual report emitted when rendering
// the full report panics.
func fallbackReport(rpt Report) string {
	return fmt.Sprintf("# %s\n\nAn error occurred: %s\n", rpt.Info.Title, rpt.RawError)
}
