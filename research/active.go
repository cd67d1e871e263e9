// Package research implements ResearchService: the lifecycle (start,
// worker, finalize, terminate) around a SearchStrategy run, the
// single-active-research invariant, and the settings snapshot, per
// spec.md §4.9.
package research

import "sync"

// ActiveResearchManager enforces "at most one record is in_progress at a
// time per process" by tracking which research IDs currently have a
// live worker goroutine, independent of what the database says (a
// crashed process can leave a stale in_progress row behind).
type ActiveResearchManager struct {
	mu    sync.Mutex
	alive map[string]bool
}

// NewActiveResearchManager builds an empty manager.
func NewActiveResearchManager() *ActiveResearchManager {
	return &ActiveResearchManager{alive: map[string]bool{}}
}

// TryStart marks id alive if no other research is alive, returning false
// if one already is.
func (m *ActiveResearchManager) TryStart(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, live := range m.alive {
		if live {
			return false
		}
	}
	m.alive[id] = true
	return true
}

// Finish marks id no longer alive.
func (m *ActiveResearchManager) Finish(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.alive, id)
}

// IsAlive reports whether id currently has a live worker.
func (m *ActiveResearchManager) IsAlive(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alive[id]
}
