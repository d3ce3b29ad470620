package index

import (
	"context"
	"sync"
	"sync/atomic"

	"navshell/internal/logging"
)

// IndexState is the index's own health, independent of per-path coverage.
type IndexState string

const (
	StateEmpty   IndexState = "empty"
	StateReady   IndexState = "ready"
	StateBuilding IndexState = "building"
	StateFailed  IndexState = "failed"
)

// Index owns the workspace's symbol/text snapshot plus its incremental
// watcher, query cache, and coverage tracker. A build mutex serializes
// full rebuilds; readers always see either the pre- or post-rebuild
// snapshot via an atomic pointer swap, never a partial one.
type Index struct {
	root string

	buildMu sync.Mutex
	current atomic.Pointer[IndexSnapshot]
	state   atomic.Value // IndexState

	builder  *IndexBuilder
	watcher  *Watcher
	cache    *QueryCache
	coverage *CoverageTracker

	autoIndexing atomic.Bool

	log *logging.Logger
}

// NewIndex constructs an Index rooted at workspaceRoot, loading any
// persisted snapshot (or starting empty if none exists or it's corrupt).
func NewIndex(workspaceRoot string) *Index {
	snapshot, _ := Load(workspaceRoot)
	idx := &Index{
		root:     workspaceRoot,
		builder:  NewIndexBuilder(workspaceRoot),
		cache:    NewQueryCache(),
		coverage: NewCoverageTracker(),
		log:      logging.Get(logging.CategoryNavigator),
	}
	idx.current.Store(snapshot)
	if len(snapshot.Files) > 0 {
		idx.state.Store(StateReady)
	} else {
		idx.state.Store(StateEmpty)
	}
	idx.autoIndexing.Store(true)
	return idx
}

// Snapshot returns the current atomically-swapped snapshot.
func (idx *Index) Snapshot() *IndexSnapshot {
	return idx.current.Load()
}

// State returns the index's current health as a string for diagnostics.
func (idx *Index) State() string {
	if v, ok := idx.state.Load().(IndexState); ok {
		return string(v)
	}
	return string(StateEmpty)
}

// Rebuild performs a full rebuild under the build mutex, offloaded
// conceptually to a background worker (the caller decides whether to run
// it in a goroutine). On success the snapshot is swapped atomically and
// persisted; on failure the state flips to Failed and the error is
// returned without mutating the live snapshot.
func (idx *Index) Rebuild(ctx context.Context) error {
	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()

	idx.state.Store(StateBuilding)
	snapshot, outcomes, err := idx.builder.BuildFull(ctx)
	if err != nil {
		idx.state.Store(StateFailed)
		return err
	}
	idx.applyOutcomes(outcomes)
	idx.current.Store(snapshot)
	idx.state.Store(StateReady)

	if err := Persist(idx.root, snapshot); err != nil {
		idx.log.Warn("snapshot persist failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// IngestPaths reindexes a delta set of paths in place without a full
// rebuild, used by the watcher's flush callback.
func (idx *Index) IngestPaths(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}
	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()

	base := idx.current.Load()
	next, outcomes := idx.builder.Ingest(ctx, base, paths)
	idx.applyOutcomes(outcomes)
	idx.current.Store(next)

	if err := Persist(idx.root, next); err != nil {
		idx.log.Warn("snapshot persist failed", map[string]any{"error": err.Error()})
	}
}

func (idx *Index) applyOutcomes(outcomes map[string]FileOutcome) {
	for path, outcome := range outcomes {
		switch outcome {
		case OutcomeIndexed, OutcomeIndexedTextOnly:
			idx.coverage.MarkIndexed(path)
		case OutcomeSkipped:
			idx.coverage.MarkSkipped(path, ReasonOversize)
		}
	}
}

// StartWatching begins the debounced filesystem watcher, feeding flushed
// batches into IngestPaths. Auto-indexing can be toggled off via
// SetAutoIndexing(false); a disabled watcher still records pending paths
// in the coverage tracker so "explicit rebuild resumes it" has something
// to catch up on.
func (idx *Index) StartWatching(ctx context.Context) error {
	w, err := NewWatcher(idx.root, func(paths []string) {
		if !idx.autoIndexing.Load() {
			for _, p := range paths {
				idx.coverage.MarkPending(p)
			}
			return
		}
		idx.IngestPaths(ctx, paths)
	})
	if err != nil {
		return err
	}
	idx.watcher = w
	return w.Start(ctx, idx.builder)
}

// StopWatching halts the watcher, if running.
func (idx *Index) StopWatching() {
	if idx.watcher != nil {
		idx.watcher.Stop()
	}
}

// SetAutoIndexing toggles whether watcher flushes trigger immediate
// reindexing; it is modeled as an explicit atomic, not an implicit
// singleton, per the two acceptable process-wide knobs.
func (idx *Index) SetAutoIndexing(on bool) {
	idx.autoIndexing.Store(on)
}

func (idx *Index) AutoIndexing() bool {
	return idx.autoIndexing.Load()
}

// Atlas returns the current directory summary tree.
func (idx *Index) Atlas() AtlasSnapshot {
	return idx.Snapshot().Atlas
}

// Coverage returns the per-path coverage states and a count by state, for
// the CLI's doctor command and other diagnostics callers.
func (idx *Index) Coverage() (map[string]CoverageState, map[CoverageState]int) {
	return idx.coverage.Summary()
}

// PendingPaths returns paths the watcher has seen but not yet reindexed,
// e.g. because auto-indexing was disabled.
func (idx *Index) PendingPaths() []string {
	return idx.coverage.PendingPaths()
}
