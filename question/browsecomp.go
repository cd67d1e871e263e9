package question

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// entityCategory is one of the five category buckets the browse-comp
// generator extracts entities into before issuing progressively more
// constrained queries.
type entityCategory string

const (
	categoryTemporal    entityCategory = "temporal"
	categoryNumerical   entityCategory = "numerical"
	categoryNames       entityCategory = "names"
	categoryLocations   entityCategory = "locations"
	categoryDescriptors entityCategory = "descriptors"
)

type browseComp struct {
	client llm.Client
}

// NewBrowseComp builds the browse-comp (progressive) QuestionGenerator.
func NewBrowseComp(client llm.Client) Generator {
	return &browseComp{client: client}
}

func (g *browseComp) Generate(ctx context.Context, currentKnowledge, query string, n int, byIteration types.QuestionsByIteration) ([]string, error) {
	if len(byIteration) > 0 {
		return g.progressive(ctx, currentKnowledge, query, n, byIteration)
	}
	return g.firstIteration(ctx, query, n)
}

// firstIteration extracts entities by category, expands any temporal
// entity into a year range, and issues broad single-entity queries.
func (g *browseComp) firstIteration(ctx context.Context, query string, n int) ([]string, error) {
	categories, err := g.extractEntities(ctx, query)
	if err != nil {
		return nil, err
	}

	var queries []string
	for _, cat := range []entityCategory{categoryTemporal, categoryNumerical, categoryNames, categoryLocations, categoryDescriptors} {
		for _, entity := range categories[cat] {
			if cat == categoryTemporal {
				queries = append(queries, expandTemporalRange(query, entity)...)
			} else {
				queries = append(queries, fmt.Sprintf("%s %s", query, entity))
			}
		}
	}

	queries = dedupe(queries)
	if len(queries) == 0 {
		return defaultQuestions(query, n), nil
	}
	if n > 0 && len(queries) > n {
		queries = queries[:n]
	}
	return queries, nil
}

// progressive issues increasingly constrained combinations of entity
// categories, informed by what prior iterations already searched, and
// de-duplicates against them.
func (g *browseComp) progressive(ctx context.Context, currentKnowledge, query string, n int, byIteration types.QuestionsByIteration) ([]string, error) {
	asked := pastQuestions(byIteration)

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	if currentKnowledge != "" {
		fmt.Fprintf(&b, "Knowledge accumulated so far:\n%s\n\n", currentKnowledge)
	}
	fmt.Fprintf(&b, "Already searched:\n- %s\n\n", strings.Join(asked, "\n- "))
	fmt.Fprintf(&b, "Generate %d new search questions that combine more identifying constraints than what "+
		"has already been searched, narrowing toward a single answer. Do not repeat a prior query. "+
		"Respond with one question per line, each prefixed with \"Q:\".", n)

	text, err := invoke(ctx, g.client, b.String())
	if err != nil {
		return nil, err
	}

	qs := dedupeAgainst(parseQLines(text, 0), asked)
	if n > 0 && len(qs) > n {
		qs = qs[:n]
	}
	if len(qs) == 0 {
		return defaultQuestions(query, n), nil
	}
	return qs, nil
}

// extractEntities asks the LLM to bucket entities mentioned in query by
// category, parsing lines of the form "category: entity".
func (g *browseComp) extractEntities(ctx context.Context, query string) (map[entityCategory][]string, error) {
	prompt := fmt.Sprintf(
		"Extract entities from this query by category: %q. "+
			"Respond with one entity per line formatted as \"category: entity\", where category is one of "+
			"temporal, numerical, names, locations, descriptors.",
		query,
	)

	text, err := invoke(ctx, g.client, prompt)
	if err != nil {
		return nil, err
	}

	categories := map[entityCategory][]string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		cat := entityCategory(strings.ToLower(strings.TrimSpace(parts[0])))
		entity := strings.TrimSpace(parts[1])
		if entity == "" {
			continue
		}
		switch cat {
		case categoryTemporal, categoryNumerical, categoryNames, categoryLocations, categoryDescriptors:
			categories[cat] = append(categories[cat], entity)
		}
	}
	return categories, nil
}

// expandTemporalRange turns a single temporal entity (a year, or a range
// like "1990-1995") into one query per year, broad single-entity queries
// issued before more constrained combinations.
func expandTemporalRange(query, entity string) []string {
	start, end, ok := parseYearRange(entity)
	if !ok {
		return []string{fmt.Sprintf("%s %s", query, entity)}
	}
	var out []string
	for y := start; y <= end; y++ {
		out = append(out, fmt.Sprintf("%s %d", query, y))
	}
	return out
}

func parseYearRange(s string) (start, end int, ok bool) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) == 1 {
		y, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, false
		}
		return y, y, true
	}
	a, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || a > b || b-a > 50 {
		return 0, 0, false
	}
	return a, b, true
}

func dedupe(queries []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, q := range queries {
		if seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

func dedupeAgainst(queries, prior []string) []string {
	seen := map[string]bool{}
	for _, p := range prior {
		seen[strings.ToLower(strings.TrimSpace(p))] = true
	}
	var out []string
	for _, q := range queries {
		key := strings.ToLower(strings.TrimSpace(q))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}
