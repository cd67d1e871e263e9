package strategy

import (
	"context"
	"regexp"
	"strings"
)

// capitalizedSpanPattern matches runs of 2+ capitalized words, the
// heuristic entity-mention extractor for the entity-aware source
// strategy's "Potential Entity Mentions" section.
var capitalizedSpanPattern = regexp.MustCompile(`\b([A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)+)\b`)

// entityAwareSource wraps sourceBased; research.Service gives it the
// entity-aware question generator. After the inner run it extracts
// capitalized multi-word spans from the formatted findings and appends
// them to CurrentKnowledge as a "Potential Entity Mentions" section. The
// search-results context passed to the citation handler carries no such
// section.
type entityAwareSource struct {
	inner *sourceBased
}

// NewEntityAwareSource builds the entity-aware source strategy.
func NewEntityAwareSource(p *Params) Strategy {
	return &entityAwareSource{inner: &sourceBased{params: p}}
}

func (s *entityAwareSource) Analyze(ctx context.Context) (*Result, error) {
	result, err := s.inner.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	entities := extractCapitalizedSpans(result.FormattedFindings)
	if len(entities) > 0 {
		var b strings.Builder
		b.WriteString(result.CurrentKnowledge)
		b.WriteString("\n\n## Potential Entity Mentions\n\n")
		for _, e := range entities {
			b.WriteString("- ")
			b.WriteString(e)
			b.WriteString("\n")
		}
		result.CurrentKnowledge = b.String()
	}
	return result, nil
}

// extractCapitalizedSpans returns deduplicated, order-preserved
// capitalized multi-word spans found in text.
func extractCapitalizedSpans(text string) []string {
	matches := capitalizedSpanPattern.FindAllString(text, -1)
	seen := map[string]bool{}
	var out []string
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
