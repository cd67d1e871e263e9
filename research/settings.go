package research

import "github.com/ujesh-sakariya/deepresearch-go/types"

// Settings is the read-mostly configuration a research starts from. The
// service captures it by value at research start so the running research
// is immune to later changes (spec.md §5's "settings snapshot" rule);
// Overrides layers per-request overrides on top of the stored defaults.
type Settings struct {
	Provider              string
	Model                 string
	APIKey                string
	BaseURL               string
	SearchEngine          string
	StrategyName          string
	QuestionGenerator     string
	Iterations            int
	QuestionsPerIteration int
	MaxResults            int
	MaxFilteredResults    int
	TimePeriod            string
	KnowledgeAccumulation types.KnowledgeAccumulationPolicy
	ContextCharLimit      int
}

// Overrides holds the subset of Settings a single research request may
// override; zero-value fields mean "use the stored default".
type Overrides struct {
	Model                 string
	Provider              string
	SearchEngine          string
	StrategyName          string
	Iterations            int
	QuestionsPerIteration int
	MaxResults            int
	TimePeriod            string
}

// Apply layers non-zero fields of o onto a copy of s and returns it.
func (s Settings) Apply(o Overrides) Settings {
	out := s
	if o.Model != "" {
		out.Model = o.Model
	}
	if o.Provider != "" {
		out.Provider = o.Provider
	}
	if o.SearchEngine != "" {
		out.SearchEngine = o.SearchEngine
	}
	if o.StrategyName != "" {
		out.StrategyName = o.StrategyName
	}
	if o.Iterations > 0 {
		out.Iterations = o.Iterations
	}
	if o.QuestionsPerIteration > 0 {
		out.QuestionsPerIteration = o.QuestionsPerIteration
	}
	if o.MaxResults > 0 {
		out.MaxResults = o.MaxResults
	}
	if o.TimePeriod != "" {
		out.TimePeriod = o.TimePeriod
	}
	return out
}

// DefaultSettings returns sensible process-wide defaults.
func DefaultSettings() Settings {
	return Settings{
		Provider:              "fallback",
		SearchEngine:          "auto",
		StrategyName:          "standard",
		QuestionGenerator:     "standard",
		Iterations:            2,
		QuestionsPerIteration: 3,
		MaxResults:            10,
		MaxFilteredResults:    10,
		KnowledgeAccumulation: types.AccumulateIteration,
		ContextCharLimit:      8000,
	}
}
