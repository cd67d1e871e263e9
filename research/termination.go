package research

import (
	"sync"

	"github.com/ujesh-sakariya/deepresearch-go/strategy"
)

// terminationFlags is the process-wide per-research termination-flag set
// polled cooperatively by the strategy at every phase boundary.
type terminationFlags struct {
	mu    sync.Mutex
	flags map[string]bool
}

func newTerminationFlags() *terminationFlags {
	return &terminationFlags{flags: map[string]bool{}}
}

func (t *terminationFlags) set(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flags[id] = true
}

func (t *terminationFlags) clear(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.flags, id)
}

func (t *terminationFlags) checker(id string) strategy.TerminationChecker {
	return strategy.TerminationFunc(func() bool {
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.flags[id]
	})
}
