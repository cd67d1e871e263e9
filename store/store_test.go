package store

import (
	"testing"
	"time"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	repo, err := NewRepository(db, 0)
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	return repo
}

func TestCreateAndGetResearch_RoundTrips(t *testing.T) {
	repo := newTestRepository(t)
	h := &ResearchHistory{ID: "r1", Query: "capital of France", Mode: "quick", Status: "in_progress", CreatedAt: time.Now().UTC()}

	if err := repo.CreateResearch(h); err != nil {
		t.Fatalf("CreateResearch() error = %v", err)
	}

	got, err := repo.GetResearch("r1")
	if err != nil {
		t.Fatalf("GetResearch() error = %v", err)
	}
	if got.Query != "capital of France" {
		t.Errorf("Query = %q", got.Query)
	}
}

func TestInProgressResearches_FiltersByStatus(t *testing.T) {
	repo := newTestRepository(t)
	repo.CreateResearch(&ResearchHistory{ID: "a", Status: "in_progress", CreatedAt: time.Now().UTC()})
	repo.CreateResearch(&ResearchHistory{ID: "b", Status: "completed", CreatedAt: time.Now().UTC()})

	got, err := repo.InProgressResearches()
	if err != nil {
		t.Fatalf("InProgressResearches() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("got %+v, want only research a", got)
	}
}

func TestAppendLogAndLogs_OrderedByTime(t *testing.T) {
	repo := newTestRepository(t)
	repo.CreateResearch(&ResearchHistory{ID: "r1", Status: "in_progress", CreatedAt: time.Now().UTC()})

	base := time.Now().UTC()
	repo.AppendLog(&ResearchLog{ResearchID: "r1", Time: base, Message: "first"})
	repo.AppendLog(&ResearchLog{ResearchID: "r1", Time: base.Add(time.Second), Message: "second"})

	logs, err := repo.Logs("r1")
	if err != nil {
		t.Fatalf("Logs() error = %v", err)
	}
	if len(logs) != 2 || logs[0].Message != "first" || logs[1].Message != "second" {
		t.Fatalf("got %+v, want ordered [first, second]", logs)
	}
}

func TestAddResource_GeneratesUniqueIDs(t *testing.T) {
	repo := newTestRepository(t)
	repo.CreateResearch(&ResearchHistory{ID: "r1", Status: "in_progress", CreatedAt: time.Now().UTC()})

	a, err := repo.AddResource("r1", "Paris", "https://example.com/paris", "wikipedia", 1)
	if err != nil {
		t.Fatalf("AddResource() error = %v", err)
	}
	b, err := repo.AddResource("r1", "France", "https://example.com/france", "wikipedia", 2)
	if err != nil {
		t.Fatalf("AddResource() error = %v", err)
	}
	if a.ID == b.ID {
		t.Error("expected distinct Snowflake IDs")
	}

	resources, err := repo.Resources("r1")
	if err != nil {
		t.Fatalf("Resources() error = %v", err)
	}
	if len(resources) != 2 || resources[0].Index != 1 || resources[1].Index != 2 {
		t.Fatalf("got %+v, want index-ordered resources", resources)
	}
}

func TestCurrentSettings_CreatesDefaultOnFirstCall(t *testing.T) {
	repo := newTestRepository(t)
	s, err := repo.CurrentSettings()
	if err != nil {
		t.Fatalf("CurrentSettings() error = %v", err)
	}
	if s.Iterations == 0 {
		t.Error("expected a non-zero default iteration count")
	}

	again, err := repo.CurrentSettings()
	if err != nil {
		t.Fatalf("CurrentSettings() second call error = %v", err)
	}
	if again.ID != s.ID {
		t.Error("expected CurrentSettings to return the same row on repeated calls")
	}
}

func TestDeleteResearch_RemovesHistoryLogsAndResources(t *testing.T) {
	repo := newTestRepository(t)
	repo.CreateResearch(&ResearchHistory{ID: "r1", Status: "completed", CreatedAt: time.Now().UTC()})
	repo.AppendLog(&ResearchLog{ResearchID: "r1", Time: time.Now().UTC(), Message: "done"})
	repo.AddResource("r1", "Paris", "https://example.com/paris", "wikipedia", 1)

	if err := repo.DeleteResearch("r1"); err != nil {
		t.Fatalf("DeleteResearch() error = %v", err)
	}

	if _, err := repo.GetResearch("r1"); err == nil {
		t.Error("expected GetResearch to fail after delete")
	}
	logs, _ := repo.Logs("r1")
	if len(logs) != 0 {
		t.Errorf("expected logs to be deleted, got %d", len(logs))
	}
	resources, _ := repo.Resources("r1")
	if len(resources) != 0 {
		t.Errorf("expected resources to be deleted, got %d", len(resources))
	}
}
