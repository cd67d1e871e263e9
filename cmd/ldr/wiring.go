package main

import (
	"fmt"

	"github.com/ujesh-sakariya/deepresearch-go/internal/telemetrymeter"
	"github.com/ujesh-sakariya/deepresearch-go/progress"
	"github.com/ujesh-sakariya/deepresearch-go/research"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine/engines"
	"github.com/ujesh-sakariya/deepresearch-go/store"
)

// app bundles the constructed dependencies every subcommand needs. One
// progress.Bus instance is shared between the research.Service and (for
// serve) the HTTP front-end; constructing two independent buses would
// leave the front-end subscribing to events the service never publishes
// to.
type app struct {
	repo     *store.Repository
	bus      *progress.Bus
	service  *research.Service
	settings research.Settings
}

func newApp(flags *rootFlags) (*app, error) {
	db, err := store.Open(flags.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open research record: %w", err)
	}
	repo, err := store.NewRepository(db, 0)
	if err != nil {
		return nil, fmt.Errorf("build repository: %w", err)
	}

	stored, err := repo.CurrentSettings()
	if err != nil {
		return nil, fmt.Errorf("load stored settings: %w", err)
	}
	settings := mergeSettings(research.DefaultSettings(), stored, flags)

	registry := searchengine.NewRegistry()
	engines.RegisterDefaults(registry, searchengine.Config{MaxFilteredResults: settings.MaxFilteredResults}, 3)

	meter, err := telemetrymeter.New()
	if err != nil {
		return nil, fmt.Errorf("build telemetry meter: %w", err)
	}
	bus := progress.NewMetered(meter)
	service := research.NewMeteredService(repo, bus, registry, meter)

	return &app{repo: repo, bus: bus, service: service, settings: settings}, nil
}

// mergeSettings layers the stored defaults, then any non-zero root flags,
// onto the process baseline, in that order of increasing precedence.
func mergeSettings(base research.Settings, stored *store.Settings, flags *rootFlags) research.Settings {
	out := base
	if stored != nil {
		if stored.Provider != "" {
			out.Provider = stored.Provider
		}
		if stored.Model != "" {
			out.Model = stored.Model
		}
		if stored.SearchEngine != "" {
			out.SearchEngine = stored.SearchEngine
		}
		if stored.Iterations > 0 {
			out.Iterations = stored.Iterations
		}
		if stored.QuestionsPerIteration > 0 {
			out.QuestionsPerIteration = stored.QuestionsPerIteration
		}
		if stored.MaxResults > 0 {
			out.MaxResults = stored.MaxResults
		}
		if stored.TimePeriod != "" {
			out.TimePeriod = stored.TimePeriod
		}
	}

	out = out.Apply(research.Overrides{
		Provider:              flags.provider,
		Model:                 flags.model,
		SearchEngine:          flags.searchEngine,
		StrategyName:          flags.strategyName,
		Iterations:            flags.iterations,
		QuestionsPerIteration: flags.questionsPerIteration,
		MaxResults:            flags.maxResults,
		TimePeriod:            flags.timePeriod,
	})
	if flags.apiKey != "" {
		out.APIKey = flags.apiKey
	}
	if flags.baseURL != "" {
		out.BaseURL = flags.baseURL
	}
	if flags.questionGenerator != "" {
		out.QuestionGenerator = flags.questionGenerator
	}
	return out
}
