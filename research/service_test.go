package research

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ujesh-sakariya/deepresearch-go/findings"
	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/progress"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/store"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// failingEngine fails every search, exercising the degrade-and-continue
// propagation policy end to end through Service.Start.
type failingEngine struct{}

func (failingEngine) Run(context.Context, string) ([]types.SearchResult, error) {
	return nil, errors.New("search backend unavailable")
}

func (e failingEngine) Invoke(ctx context.Context, query string) ([]types.SearchResult, error) {
	return e.Run(ctx, query)
}

func newFailingTestRegistry() *searchengine.Registry {
	r := searchengine.NewRegistry()
	r.Register(searchengine.Descriptor{
		Name:    "failing",
		Factory: func(_ llm.Client, _ searchengine.Config) searchengine.Engine { return failingEngine{} },
	})
	return r
}

// stubEngine returns one fixed, non-empty result for every query so a
// worker run always produces at least one finding without touching the
// network.
type stubEngine struct{}

func (stubEngine) Run(_ context.Context, query string) ([]types.SearchResult, error) {
	return []types.SearchResult{{Title: "stub result", Link: "https://example.test/stub", Snippet: "a stub snippet about " + query}}, nil
}

func (e stubEngine) Invoke(ctx context.Context, query string) ([]types.SearchResult, error) {
	return e.Run(ctx, query)
}

func newTestRegistry() *searchengine.Registry {
	r := searchengine.NewRegistry()
	r.Register(searchengine.Descriptor{
		Name:    "stub",
		Factory: func(_ llm.Client, _ searchengine.Config) searchengine.Engine { return stubEngine{} },
	})
	return r
}

func testSettings() Settings {
	s := DefaultSettings()
	s.Provider = "fallback"
	s.SearchEngine = "stub"
	s.Iterations = 1
	s.QuestionsPerIteration = 1
	return s
}

func newTestService(t *testing.T) (*Service, *store.Repository) {
	t.Helper()
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	repo, err := store.NewRepository(db, 0)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	return NewService(repo, progress.New(), newTestRegistry()), repo
}

// waitForTerminal polls the record until it leaves in_progress or the
// deadline elapses, returning the final record.
func waitForTerminal(t *testing.T, repo *store.Repository, id string) *store.ResearchHistory {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		record, err := repo.GetResearch(id)
		if err != nil {
			t.Fatalf("get research: %v", err)
		}
		if record.Status != string(types.StatusInProgress) {
			return record
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("research %s never left in_progress", id)
	return nil
}

func TestStart_RejectsEmptyQuery(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Start(context.Background(), "   ", types.ModeQuick, testSettings()); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestStart_QuickModeCompletesAndWritesSummary(t *testing.T) {
	svc, repo := newTestService(t)
	id, err := svc.Start(context.Background(), "history of sourdough bread", types.ModeQuick, testSettings())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	record := waitForTerminal(t, repo, id)
	if record.Status != string(types.StatusCompleted) {
		t.Fatalf("status = %q, want completed", record.Status)
	}
	if record.ReportPath == "" {
		t.Fatal("expected a report path to be recorded")
	}
	if record.Progress != 100 {
		t.Fatalf("progress = %d, want 100", record.Progress)
	}
}

func TestStart_RejectsSecondConcurrentRun(t *testing.T) {
	svc, repo := newTestService(t)
	longRunning := testSettings()
	longRunning.Iterations = 1000 // keep the first worker alive past the second Start call

	id, err := svc.Start(context.Background(), "first query", types.ModeQuick, longRunning)
	if err != nil {
		t.Fatalf("start first: %v", err)
	}
	if _, err := svc.Start(context.Background(), "second query", types.ModeQuick, testSettings()); err != ErrAlreadyRunning {
		t.Fatalf("start second: got %v, want ErrAlreadyRunning", err)
	}

	svc.Terminate(id)
	waitForTerminal(t, repo, id)
}

func TestTerminate_SuspendsRunningResearch(t *testing.T) {
	svc, repo := newTestService(t)
	settings := testSettings()
	settings.Iterations = 1000 // keep the worker alive long enough to observe termination

	id, err := svc.Start(context.Background(), "a long running query", types.ModeQuick, settings)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.Terminate(id)

	record := waitForTerminal(t, repo, id)
	if record.Status != string(types.StatusSuspended) {
		t.Fatalf("status = %q, want suspended", record.Status)
	}
}

func TestDelete_RefusesInProgressResearch(t *testing.T) {
	svc, repo := newTestService(t)
	settings := testSettings()
	settings.Iterations = 1000

	id, err := svc.Start(context.Background(), "another long running query", types.ModeQuick, settings)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.Delete(id); err != ErrInProgress {
		t.Fatalf("delete: got %v, want ErrInProgress", err)
	}

	svc.Terminate(id)
	waitForTerminal(t, repo, id)
	if err := svc.Delete(id); err != nil {
		t.Fatalf("delete after suspend: %v", err)
	}
}

// TestStart_CompletesDespiteEverySubquestionSearchFailure guards the
// propagation policy fixed in runOneQuestion: a search engine that fails
// for every sub-question must not abort the whole research — it
// completes with no findings rather than ending up failed.
func TestStart_CompletesDespiteEverySubquestionSearchFailure(t *testing.T) {
	svc, repo := newTestService(t)
	svc.registry = newFailingTestRegistry()
	settings := testSettings()
	settings.SearchEngine = "failing"

	id, err := svc.Start(context.Background(), "a query with no working search engine", types.ModeQuick, settings)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	record := waitForTerminal(t, repo, id)
	if record.Status != string(types.StatusCompleted) {
		t.Fatalf("status = %q, want completed (failures should degrade, not abort)", record.Status)
	}
}

// TestFinalizeFailed_RendersPartialResults exercises the diagnostics
// wiring directly: a repository that had already accumulated findings
// and links before the failure must have them rendered in the written
// diagnostic report, not silently dropped.
func TestFinalizeFailed_RendersPartialResults(t *testing.T) {
	svc, storeRepo := newTestService(t)

	id := uuid.NewString()
	record := &store.ResearchHistory{
		ID:          id,
		Query:       "partial results query",
		Mode:        string(types.ModeQuick),
		Status:      string(types.StatusInProgress),
		CreatedAt:   time.Now().UTC(),
		ProgressLog: "[]",
	}
	if err := storeRepo.CreateResearch(record); err != nil {
		t.Fatalf("create research: %v", err)
	}

	findingsRepo := findings.New("partial results query")
	findingsRepo.AppendLinks([]types.SearchResult{{Title: "a source", Link: "https://a.test", Snippet: "relevant snippet"}})
	findingsRepo.AppendFinding(types.Finding{
		Phase:    "standard",
		Question: "what was already found",
		Content:  "some knowledge gathered before the crash",
	})

	svc.finalizeFailed(id, "partial results query", errors.New("search engine crashed mid-run"), findingsRepo)

	updated, err := storeRepo.GetResearch(id)
	if err != nil {
		t.Fatalf("get research: %v", err)
	}
	if updated.Status != string(types.StatusFailed) {
		t.Fatalf("status = %q, want failed", updated.Status)
	}
	if updated.ReportPath == "" {
		t.Fatal("expected a diagnostic report path")
	}

	content, err := os.ReadFile(updated.ReportPath)
	if err != nil {
		t.Fatalf("read diagnostic report: %v", err)
	}
	body := string(content)
	if !strings.Contains(body, "what was already found") {
		t.Fatalf("diagnostic report missing partial finding, got:\n%s", body)
	}
	if !strings.Contains(body, "a source") {
		t.Fatalf("diagnostic report missing partial search result, got:\n%s", body)
	}
}

func TestSanitizeFilename_TruncatesAndStripsPunctuation(t *testing.T) {
	long := "What's the Weather in Paulo?! and also a very long trailing question about many other things entirely"
	got := sanitizeFilename(long)
	if len(got) > 50 {
		t.Fatalf("sanitizeFilename produced %d chars, want <= 50", len(got))
	}
	if got != "whats_the_weather_in_paulo_and_also_a_very_long_tr" {
		t.Fatalf("sanitizeFilename = %q", got)
	}
}
