// Package engines wires every concrete search engine implementation into a
// shared registry. It is the single place that knows about all of them, so
// that cmd/ldr and research need only import this package.
package engines

import (
	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/arxiv"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/brave"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/github"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/googlepse"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/guardian"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/localcollection"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/pubmed"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/searxng"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/serpapi"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/wayback"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines/wikipedia"
)

// RegisterDefaults registers every built-in concrete engine plus the auto
// meta-engine into r. maxAutoEnginesToTry bounds how many engines auto
// will try before giving up to its fixed Wikipedia fallback.
func RegisterDefaults(r *searchengine.Registry, defaultCfg searchengine.Config, maxAutoEnginesToTry int) {
	r.Register(searchengine.Descriptor{
		Name:        "wikipedia",
		Reliability: 0.8,
		Strengths:   []string{"broad general knowledge", "stable citations", "no API key required"},
		Weaknesses:  []string{"shallow on current events", "no primary sources"},
		Factory:     wikipedia.New,
	})
	r.Register(searchengine.Descriptor{
		Name:        "arxiv",
		Reliability: 0.85,
		Strengths:   []string{"peer-reviewed preprints", "strong on STEM topics"},
		Weaknesses:  []string{"no coverage outside academia"},
		Factory:     arxiv.New,
	})
	r.Register(searchengine.Descriptor{
		Name:        "pubmed",
		Reliability: 0.85,
		Strengths:   []string{"authoritative biomedical literature"},
		Weaknesses:  []string{"abstracts only, no full text", "narrow domain"},
		Factory:     pubmed.New,
	})
	r.Register(searchengine.Descriptor{
		Name:           "searxng",
		Reliability:    0.6,
		Strengths:      []string{"broad web coverage", "self-hosted, no vendor API key"},
		Weaknesses:     []string{"quality depends on the operator's instance"},
		RequiresAPIKey: false,
		Factory:        searxng.New,
	})
	r.Register(searchengine.Descriptor{
		Name:           "serpapi",
		Reliability:    0.75,
		Strengths:      []string{"Google-quality ranking", "rich snippets"},
		Weaknesses:     []string{"paid API"},
		RequiresAPIKey: true,
		APIKeyEnv:      serpapi.APIKeyEnv,
		Factory:        serpapi.New,
	})
	r.Register(searchengine.Descriptor{
		Name:           "googlepse",
		Reliability:    0.75,
		Strengths:      []string{"scoped to operator-curated sites", "Google-quality ranking"},
		Weaknesses:     []string{"requires a configured search engine ID"},
		RequiresAPIKey: true,
		APIKeyEnv:      googlepse.APIKeyEnv,
		Factory:        googlepse.New,
	})
	r.Register(searchengine.Descriptor{
		Name:           "github",
		Reliability:    0.7,
		Strengths:      []string{"source code and repository metadata"},
		Weaknesses:     []string{"irrelevant for non-software questions"},
		RequiresAPIKey: false,
		Factory:        github.New,
	})
	r.Register(searchengine.Descriptor{
		Name:           "guardian",
		Reliability:    0.75,
		Strengths:      []string{"journalism, strong on current events"},
		Weaknesses:     []string{"single-publisher viewpoint"},
		RequiresAPIKey: true,
		APIKeyEnv:      guardian.APIKeyEnv,
		Factory:        guardian.New,
	})
	r.Register(searchengine.Descriptor{
		Name:           "brave",
		Reliability:    0.7,
		Strengths:      []string{"independent web index", "broad coverage"},
		Weaknesses:     []string{"paid API above a free tier"},
		RequiresAPIKey: true,
		APIKeyEnv:      brave.APIKeyEnv,
		Factory:        brave.New,
	})
	r.Register(searchengine.Descriptor{
		Name:        "wayback",
		Reliability: 0.5,
		Strengths:   []string{"historical snapshots of a known URL"},
		Weaknesses:  []string{"not keyword search", "needs a URL-like query"},
		Factory:     wayback.New,
	})
	r.Register(searchengine.Descriptor{
		Name:        "localcollection",
		Reliability: 0.9,
		Strengths:   []string{"the user's own documents", "no network dependency"},
		Weaknesses:  []string{"only covers what's been indexed locally"},
		Factory:     localcollection.New,
	})

	r.Register(searchengine.Descriptor{
		Name:        "auto",
		RequiresLLM: true,
		Factory: func(client llm.Client, cfg searchengine.Config) searchengine.Engine {
			return searchengine.NewAuto(r, client, cfg, maxAutoEnginesToTry)
		},
	})
}
