package research

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ujesh-sakariya/deepresearch-go/citation"
	"github.com/ujesh-sakariya/deepresearch-go/diagnostics"
	"github.com/ujesh-sakariya/deepresearch-go/findings"
	"github.com/ujesh-sakariya/deepresearch-go/internal/telemetrymeter"
	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/progress"
	"github.com/ujesh-sakariya/deepresearch-go/report"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/store"
	"github.com/ujesh-sakariya/deepresearch-go/strategy"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// ErrAlreadyRunning is returned by Start when another research is
// in_progress and its worker is still alive.
var ErrAlreadyRunning = errors.New("research: another research is already in progress")

// ErrInProgress is returned by Delete for a record that is in_progress.
var ErrInProgress = errors.New("research: cannot delete a research that is in progress")

// outputDir is where quick-summary and report Markdown files are
// written, per spec.md §4.9's "research_outputs/<sanitized_query>.md".
const outputDir = "research_outputs"

// Service implements ResearchService: Start/Worker/Finalize/Terminate.
type Service struct {
	repo     *store.Repository
	bus      *progress.Bus
	registry *searchengine.Registry
	active   *ActiveResearchManager
	term     *terminationFlags
	meter    *telemetrymeter.Meter
}

// NewService builds a Service with no telemetry.
func NewService(repo *store.Repository, bus *progress.Bus, registry *searchengine.Registry) *Service {
	return &Service{
		repo:     repo,
		bus:      bus,
		registry: registry,
		active:   NewActiveResearchManager(),
		term:     newTerminationFlags(),
	}
}

// NewMeteredService builds a Service that records research outcomes
// (completed/failed/suspended) to m.
func NewMeteredService(repo *store.Repository, bus *progress.Bus, registry *searchengine.Registry, m *telemetrymeter.Meter) *Service {
	svc := NewService(repo, bus, registry)
	svc.meter = m
	return svc
}

// Start validates query, reaps stale in_progress rows, rejects with
// ErrAlreadyRunning if one is genuinely still running, persists a new
// record, and spawns the worker in the background. It returns the new
// research's ID immediately.
func (s *Service) Start(ctx context.Context, query string, mode types.ResearchMode, settings Settings) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", errors.New("research: query must not be empty")
	}

	if err := s.reapStale(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	if !s.active.TryStart(id) {
		return "", ErrAlreadyRunning
	}

	now := time.Now().UTC()
	record := &store.ResearchHistory{
		ID:          id,
		Query:       query,
		Mode:        string(mode),
		Status:      string(types.StatusInProgress),
		CreatedAt:   now,
		Progress:    0,
		ProgressLog: "[]",
	}
	if err := s.repo.CreateResearch(record); err != nil {
		s.active.Finish(id)
		return "", err
	}
	if err := s.repo.SetStrategy(id, settings.StrategyName); err != nil {
		return "", err
	}

	go s.runWorker(id, query, mode, settings)
	return id, nil
}

// reapStale clears in_progress rows whose worker is no longer alive,
// per spec.md §4.9's "stale records are cleaned up first".
func (s *Service) reapStale() error {
	rows, err := s.repo.InProgressResearches()
	if err != nil {
		return err
	}
	for _, row := range rows {
		if s.active.IsAlive(row.ID) {
			continue
		}
		row := row
		row.Status = string(types.StatusFailed)
		if err := s.repo.UpdateResearch(&row); err != nil {
			return err
		}
	}
	return nil
}

// Terminate flags id for cooperative termination and emits a
// "terminating" progress event immediately; the actual status flip
// happens when the worker observes the flag.
func (s *Service) Terminate(id string) {
	s.term.set(id)
	s.bus.Publish(progress.Event{ResearchID: id, Status: "terminating", Message: "termination requested"})
}

// Status returns id's current persistent record.
func (s *Service) Status(id string) (*store.ResearchHistory, error) {
	return s.repo.GetResearch(id)
}

// Delete removes id's record, logs, and resources, refusing in_progress
// records.
func (s *Service) Delete(id string) error {
	record, err := s.repo.GetResearch(id)
	if err != nil {
		return err
	}
	if record.Status == string(types.StatusInProgress) {
		return ErrInProgress
	}
	return s.repo.DeleteResearch(id)
}

func (s *Service) runWorker(id, query string, mode types.ResearchMode, settings Settings) {
	defer s.active.Finish(id)
	defer s.term.clear(id)

	ctx := context.Background()
	repo := findings.New(query)

	onProgress := func(_ context.Context, percent int, phase, message string) {
		s.recordProgress(id, percent, phase, message)
	}

	strat, llmClient, err := s.buildStrategy(ctx, id, query, settings, repo, onProgress)
	if err != nil {
		s.finalizeFailed(id, query, err, repo)
		return
	}

	result, err := strat.Analyze(ctx)
	if errors.Is(err, strategy.ErrTerminated) {
		s.finalizeSuspended(id, repo)
		return
	}
	if err != nil {
		s.finalizeFailed(id, query, err, repo)
		return
	}

	s.finalizeSuccess(ctx, id, query, mode, settings, llmClient, result)
}

func (s *Service) buildStrategy(ctx context.Context, id, query string, settings Settings, repo *findings.Repository, onProgress strategy.ProgressFunc) (strategy.Strategy, llm.Client, error) {
	llmClient, err := llm.New(ctx, llm.Config{Provider: llm.Provider(settings.Provider), Model: settings.Model, APIKey: settings.APIKey, BaseURL: settings.BaseURL})
	if err != nil {
		return nil, nil, fmt.Errorf("research: build LLM client: %w", err)
	}

	engine, err := s.registry.Build(settings.SearchEngine, llmClient, searchengine.Config{
		MaxFilteredResults:  settings.MaxFilteredResults,
		SkipRelevanceFilter: settings.StrategyName == "source_based" || settings.StrategyName == "entity_aware_source",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("research: build search engine: %w", err)
	}

	questionGen, err := buildQuestionGenerator(settings.QuestionGenerator, llmClient)
	if err != nil {
		return nil, nil, err
	}

	params := &strategy.Params{
		Query:                 query,
		Engine:                engine,
		LLM:                   llmClient,
		CitationHandler:       citation.New(llmClient, citation.Config{}),
		QuestionGen:           questionGen,
		Compressor:            buildCompressor(settings.KnowledgeAccumulation, llmClient, settings.ContextCharLimit),
		Repo:                  repo,
		MaxIterations:         settings.Iterations,
		QuestionsPerIteration: settings.QuestionsPerIteration,
		KnowledgeAccumulation: settings.KnowledgeAccumulation,
		ContextCharLimit:      settings.ContextCharLimit,
		OnProgress:            onProgress,
		Termination:           s.term.checker(id),
	}

	strat, err := buildStrategy(settings.StrategyName, params)
	return strat, llmClient, err
}

// milestonePhases are the phases that always get a first-class log row,
// in addition to progress-divisible-by-10, per spec.md §4.9's worker
// contract.
var milestonePhases = map[string]bool{
	"complete": true, "iteration_complete": true, "error": true, "termination": true,
}

func (s *Service) recordProgress(id string, percent int, phase, message string) {
	if milestonePhases[phase] || (percent >= 0 && percent%10 == 0) {
		s.repo.AppendLog(&store.ResearchLog{ResearchID: id, Time: time.Now().UTC(), Level: logLevelFor(phase), Message: message, Metadata: phase})
	}
	s.bus.Publish(progress.Event{ResearchID: id, Progress: clampPercent(percent), Message: message, Status: string(types.StatusInProgress), LogEntry: message})
}

func logLevelFor(phase string) string {
	switch phase {
	case "error", "search_error", "analysis_error":
		return "error"
	case "complete", "iteration_complete", "termination":
		return "milestone"
	default:
		return "info"
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 99 {
		return 99
	}
	return p
}

func (s *Service) finalizeSuccess(ctx context.Context, id, query string, mode types.ResearchMode, settings Settings, llmClient llm.Client, result *strategy.Result) {
	record, err := s.repo.GetResearch(id)
	if err != nil {
		return
	}

	var reportPath string
	if mode == types.ModeDetailed {
		reportPath, err = s.writeDetailedReport(ctx, id, query, settings, llmClient, result)
	} else {
		reportPath, err = s.writeQuickSummary(query, result)
	}
	if err != nil {
		s.finalizeFailedWithResult(id, query, err, result)
		return
	}

	completed := time.Now().UTC()
	duration := completed.Sub(record.CreatedAt).Seconds()
	record.Status = string(types.StatusCompleted)
	record.CompletedAt = &completed
	record.DurationSeconds = &duration
	record.Progress = 100
	record.ReportPath = reportPath
	s.repo.UpdateResearch(record)
	s.meter.RecordOutcome(ctx, string(types.StatusCompleted))

	s.bus.Publish(progress.Event{ResearchID: id, Progress: 100, Status: string(types.StatusCompleted), Message: "research complete"})
}

func (s *Service) writeQuickSummary(query string, result *strategy.Result) (string, error) {
	content := fmt.Sprintf("# Research Summary: %s\n\n%s\n", query, result.CurrentKnowledge)
	return writeOutput(query, content)
}

func (s *Service) writeDetailedReport(ctx context.Context, id, query string, settings Settings, llmClient llm.Client, result *strategy.Result) (string, error) {
	gen := report.New(invokeAdapter{llmClient}, singleIterationResearcher{service: s, settings: settings, id: id})
	rep, err := gen.Generate(ctx, query, result.CurrentKnowledge)
	if err != nil {
		return "", err
	}
	return writeOutput(query, rep.Content)
}

// invokeAdapter adapts llm.Client to report.OutlineClient, whose
// Invoke returns a bare string rather than *llm.Response.
type invokeAdapter struct{ client llm.Client }

func (a invokeAdapter) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Invoke(ctx, prompt)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// singleIterationResearcher implements report.SubResearcher by running
// the standard strategy with max_iterations=1 against a fresh repository,
// per spec.md §4.8 item 2.
type singleIterationResearcher struct {
	service  *Service
	settings Settings
	id       string
}

func (r singleIterationResearcher) Research(ctx context.Context, subQuery string) (string, []types.SearchResult, error) {
	subSettings := r.settings
	subSettings.Iterations = 1
	subRepo := findings.New(subQuery)

	strat, _, err := r.service.buildStrategy(ctx, r.id, subQuery, subSettings, subRepo, nil)
	if err != nil {
		return "", nil, err
	}
	result, err := strat.Analyze(ctx)
	if err != nil {
		return "", nil, err
	}
	return result.CurrentKnowledge, result.AllLinks, nil
}

// finalizeFailed records a failed research, rendering whatever repo had
// accumulated before the failure as the diagnostic report's partial
// results section, per spec.md §4.11.
func (s *Service) finalizeFailed(id, query string, cause error, repo *findings.Repository) {
	var partial *diagnostics.PartialResults
	if repo != nil {
		partial = &diagnostics.PartialResults{
			SearchResults: repo.LinksOfSystem(),
			Findings:      repo.Findings(),
		}
	}
	s.finalizeFailedCore(id, query, cause, partial)
}

// finalizeFailedWithResult is finalizeFailed for the post-Analyze failure
// path (e.g. report generation), where a *strategy.Result rather than the
// live repository is in scope — it also carries the synthesized
// current-knowledge text the repository itself never accumulates.
func (s *Service) finalizeFailedWithResult(id, query string, cause error, result *strategy.Result) {
	var partial *diagnostics.PartialResults
	if result != nil {
		partial = &diagnostics.PartialResults{
			CurrentKnowledge: result.CurrentKnowledge,
			SearchResults:    result.AllLinks,
			Findings:         result.Findings,
		}
	}
	s.finalizeFailedCore(id, query, cause, partial)
}

func (s *Service) finalizeFailedCore(id, query string, cause error, partial *diagnostics.PartialResults) {
	record, err := s.repo.GetResearch(id)
	if err != nil {
		return
	}

	rpt := diagnostics.Classify(cause.Error())
	diagnosticMD := diagnostics.GenerateReport(rpt, partial)
	reportPath, _ := writeOutput(query+"-error", diagnosticMD)

	completed := time.Now().UTC()
	duration := completed.Sub(record.CreatedAt).Seconds()
	record.Status = string(types.StatusFailed)
	record.CompletedAt = &completed
	record.DurationSeconds = &duration
	record.ReportPath = reportPath
	record.ResearchMeta = string(rpt.Category)
	s.repo.UpdateResearch(record)
	s.meter.RecordOutcome(context.Background(), string(types.StatusFailed))

	s.bus.Publish(progress.Event{ResearchID: id, Status: string(types.StatusFailed), Message: rpt.Message})
}

func (s *Service) finalizeSuspended(id string, repo *findings.Repository) {
	record, err := s.repo.GetResearch(id)
	if err != nil {
		return
	}

	completed := time.Now().UTC()
	duration := completed.Sub(record.CreatedAt).Seconds()
	record.Status = string(types.StatusSuspended)
	record.CompletedAt = &completed
	record.DurationSeconds = &duration
	s.repo.UpdateResearch(record)

	message := fmt.Sprintf("research terminated by request with %d findings retained", len(repo.Findings()))
	s.repo.AppendLog(&store.ResearchLog{ResearchID: id, Time: completed, Level: "milestone", Message: message, Metadata: "termination"})
	s.meter.RecordOutcome(context.Background(), string(types.StatusSuspended))
	s.bus.Publish(progress.Event{ResearchID: id, Status: string(types.StatusSuspended), Message: message})
}

var sanitizePattern = regexp.MustCompile(`[^a-zA-Z0-9\- _]`)

// sanitizeFilename keeps alphanumerics, dash, underscore, and space,
// lowercases, replaces spaces with underscores, and truncates to 50
// characters, per spec.md §4.9's report-path sanitizer.
func sanitizeFilename(query string) string {
	cleaned := sanitizePattern.ReplaceAllString(query, "")
	cleaned = strings.ToLower(cleaned)
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	if len(cleaned) > 50 {
		cleaned = cleaned[:50]
	}
	if cleaned == "" {
		cleaned = "research"
	}
	return cleaned
}

func writeOutput(query, content string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("research: create output dir: %w", err)
	}
	path := filepath.Join(outputDir, sanitizeFilename(query)+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("research: write output: %w", err)
	}
	return path, nil
}
