package index

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"navshell/internal/logging"
)

const watcherDebounce = 250 * time.Millisecond

// Watcher accumulates filesystem change events under a workspace root and
// delivers debounced batches of workspace-relative paths to a flush
// callback, mirroring the teacher's MangleWatcher select-loop shape but
// generalized to the whole workspace instead of one rule directory.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher
	onFlush func([]string)

	mu      sync.Mutex
	pending map[string]time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWatcher creates (but does not start) a workspace watcher. onFlush is
// invoked with the batch of changed paths once they've settled past the
// debounce window.
func NewWatcher(root string, onFlush func([]string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, newIndexError("watch", root, err)
	}
	return &Watcher{
		root:    root,
		watcher: fw,
		onFlush: onFlush,
		pending: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start adds the workspace root (recursively, directory by directory) to
// the underlying watch set and begins the debounced event loop.
func (w *Watcher) Start(ctx context.Context, builder *IndexBuilder) error {
	paths, err := builder.Walk()
	if err != nil {
		return err
	}
	dirs := map[string]struct{}{w.root: {}}
	for _, p := range paths {
		dirs[filepath.Dir(filepath.Join(w.root, filepath.FromSlash(p)))] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			logging.Get(logging.CategoryNavigator).Warn("watch add failed", map[string]any{"dir": dir, "error": err.Error()})
		}
	}

	go w.run(ctx)
	return nil
}

// Stop halts the event loop and closes the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.record(event)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		case <-ticker.C:
			w.flushSettled()
		}
	}
}

func (w *Watcher) record(event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.pending[filepath.ToSlash(rel)] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flushSettled() {
	now := time.Now()
	var settled []string

	w.mu.Lock()
	for path, at := range w.pending {
		if now.Sub(at) >= watcherDebounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(settled) > 0 && w.onFlush != nil {
		w.onFlush(settled)
	}
}
