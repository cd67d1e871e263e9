package searchengine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// fallbackEngineName is tried when every LLM-chosen engine fails or
// returns nothing, per spec.md §4.1.
const fallbackEngineName = "wikipedia"

// autoEngine is the "auto" meta-engine: it asks the LLM to rank available
// engines by fit for a query, then tries them in order.
type autoEngine struct {
	registry       *Registry
	client         llm.Client
	cfg            Config
	maxEnginesToTry int
}

// NewAuto builds the auto meta-engine. maxEnginesToTry bounds how many of
// the LLM's ranked engines are actually attempted before giving up.
func NewAuto(registry *Registry, client llm.Client, cfg Config, maxEnginesToTry int) Engine {
	if maxEnginesToTry <= 0 {
		maxEnginesToTry = 3
	}
	return &autoEngine{registry: registry, client: client, cfg: cfg, maxEnginesToTry: maxEnginesToTry}
}

func (e *autoEngine) Run(ctx context.Context, query string) ([]types.SearchResult, error) {
	available := e.availableDescriptors()
	if len(available) == 0 {
		return []types.SearchResult{}, nil
	}

	order := e.rankEngines(ctx, available, query)

	tried := 0
	for _, name := range order {
		if tried >= e.maxEnginesToTry {
			break
		}
		tried++

		engine, err := e.registry.Build(name, e.client, e.cfg)
		if err != nil {
			continue
		}
		results, err := engine.Run(ctx, query)
		if err != nil || len(results) == 0 {
			continue
		}
		return results, nil
	}

	if e.registry.Available(fallbackEngineName) {
		if engine, err := e.registry.Build(fallbackEngineName, e.client, e.cfg); err == nil {
			if results, err := engine.Run(ctx, query); err == nil {
				return results, nil
			}
		}
	}

	return []types.SearchResult{}, nil
}

func (e *autoEngine) Invoke(ctx context.Context, query string) ([]types.SearchResult, error) {
	return e.Run(ctx, query)
}

func (e *autoEngine) availableDescriptors() []Descriptor {
	var out []Descriptor
	for _, d := range e.registry.Descriptors() {
		if d.Name == "auto" {
			continue
		}
		if e.registry.Available(d.Name) {
			out = append(out, d)
		}
	}
	return out
}

// rankEngines asks the LLM for a comma-separated ordered list of engine
// names, sanitizes it against the available set, and falls back to
// reliability-sorted order on parse failure or if the LLM client is nil.
func (e *autoEngine) rankEngines(ctx context.Context, available []Descriptor, query string) []string {
	byReliability := append([]Descriptor(nil), available...)
	sort.Slice(byReliability, func(i, j int) bool { return byReliability[i].Reliability > byReliability[j].Reliability })

	fallbackOrder := make([]string, len(byReliability))
	for i, d := range byReliability {
		fallbackOrder[i] = d.Name
	}

	if e.client == nil {
		return fallbackOrder
	}

	prompt := buildEngineSelectionPrompt(available, query)
	resp, err := e.client.Invoke(ctx, prompt)
	if err != nil {
		return fallbackOrder
	}

	names := sanitizeEngineNames(resp.Content, available)
	if len(names) == 0 {
		return fallbackOrder
	}
	return names
}

func buildEngineSelectionPrompt(available []Descriptor, query string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %q\n\nAvailable search engines:\n", query)
	for _, d := range available {
		strengths := topN(d.Strengths, 3)
		weaknesses := topN(d.Weaknesses, 2)
		fmt.Fprintf(&b, "- %s (reliability %.2f): strong at %s; weak at %s\n",
			d.Name, d.Reliability, strings.Join(strengths, ", "), strings.Join(weaknesses, ", "))
	}
	b.WriteString("\nRespond with ONLY a comma-separated ordered list of engine names, best fit first. No other text.")
	return b.String()
}

func topN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func sanitizeEngineNames(text string, available []Descriptor) []string {
	valid := make(map[string]bool, len(available))
	for _, d := range available {
		valid[d.Name] = true
	}

	var out []string
	seen := map[string]bool{}
	for _, raw := range strings.Split(text, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if valid[name] && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	return out
}
