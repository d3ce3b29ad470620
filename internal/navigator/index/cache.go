package index

import (
	"sync"

	"github.com/google/uuid"
)

// CachedQuery is one refinable search's stored result set.
type CachedQuery struct {
	CandidateIDs []SymbolID
	Query        string
	Filters      FilterSet
	Parent       *QueryID
}

// QueryID is the UUID-shaped handle a caller passes back via `refine`.
type QueryID string

// QueryCache is an append-only (on the write path) map from QueryID to the
// candidate set a prior search produced, letting a follow-up query narrow
// within those results.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[QueryID]CachedQuery
}

// NewQueryCache returns an empty cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[QueryID]CachedQuery)}
}

// Store records a new cached query and returns its freshly minted id.
func (c *QueryCache) Store(q CachedQuery) QueryID {
	id := QueryID(uuid.NewString())
	c.mu.Lock()
	c.entries[id] = q
	c.mu.Unlock()
	return id
}

// Lookup returns the cached query for id, if present.
func (c *QueryCache) Lookup(id QueryID) (CachedQuery, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.entries[id]
	return q, ok
}

// ParseQueryID validates that s is UUID-shaped, per spec.md's "refine is
// parsed as a UUID-shaped QueryId".
func ParseQueryID(s string) (QueryID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return QueryID(s), nil
}
