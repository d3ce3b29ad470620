package index

import "sync"

// CoverageTracker records why each known path is or isn't represented in
// the index, surfaced verbatim in search diagnostics.
type CoverageTracker struct {
	mu     sync.RWMutex
	states map[string]CoverageState
	reasons map[string]CoverageReason
}

// NewCoverageTracker returns an empty tracker.
func NewCoverageTracker() *CoverageTracker {
	return &CoverageTracker{
		states:  make(map[string]CoverageState),
		reasons: make(map[string]CoverageReason),
	}
}

func (c *CoverageTracker) MarkIndexed(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[path] = StateIndexed
	delete(c.reasons, path)
}

func (c *CoverageTracker) MarkSkipped(path string, reason CoverageReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[path] = StateSkipped
	c.reasons[path] = reason
}

func (c *CoverageTracker) MarkError(path string, reason CoverageReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[path] = StateError
	c.reasons[path] = reason
}

func (c *CoverageTracker) MarkPending(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[path] = StatePending
	c.reasons[path] = ReasonPendingIngest
}

// Summary returns a snapshot of path -> state for diagnostics, plus a count
// by state.
func (c *CoverageTracker) Summary() (map[string]CoverageState, map[CoverageState]int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	states := make(map[string]CoverageState, len(c.states))
	counts := make(map[CoverageState]int)
	for p, s := range c.states {
		states[p] = s
		counts[s]++
	}
	return states, counts
}

func (c *CoverageTracker) Reason(path string) (CoverageReason, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.reasons[path]
	return r, ok
}

func (c *CoverageTracker) PendingPaths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var pending []string
	for p, s := range c.states {
		if s == StatePending {
			pending = append(pending, p)
		}
	}
	return pending
}
