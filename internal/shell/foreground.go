package shell

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultForegroundBudgetMS int64 = 60_000

var foregroundBudgetMS atomic.Int64

func init() {
	foregroundBudgetMS.Store(defaultForegroundBudgetMS)
}

func foregroundBudget() time.Duration {
	return time.Duration(foregroundBudgetMS.Load()) * time.Millisecond
}

// SetForegroundBudgetForTests overrides the global foreground budget and
// returns a restore func that puts the previous value back; callers
// should defer the restore so concurrent tests don't leak state.
func SetForegroundBudgetForTests(d time.Duration) (restore func()) {
	previous := foregroundBudgetMS.Swap(d.Milliseconds())
	return func() {
		foregroundBudgetMS.Store(previous)
	}
}

type foregroundLifecycleKind int

const (
	lifecycleRunning foregroundLifecycleKind = iota
	lifecyclePromoted
	lifecycleCompleted
)

type foregroundLifecycle struct {
	kind       foregroundLifecycleKind
	promotedBy PromotedBy
}

// foregroundStateHandle is a single-producer/many-observer watch over a
// foreground process's lifecycle, used by WaitForeground to block until
// promotion or completion.
type foregroundStateHandle struct {
	mu      sync.Mutex
	state   foregroundLifecycle
	waiters []chan struct{}
}

func newForegroundStateHandle() *foregroundStateHandle {
	return &foregroundStateHandle{state: foregroundLifecycle{kind: lifecycleRunning}}
}

func (h *foregroundStateHandle) send(state foregroundLifecycle) {
	h.mu.Lock()
	h.state = state
	waiters := h.waiters
	h.waiters = nil
	h.mu.Unlock()
	for _, w := range waiters {
		close(w)
	}
}

func (h *foregroundStateHandle) waitForTerminal(ctx context.Context) {
	h.mu.Lock()
	if h.state.kind != lifecycleRunning {
		h.mu.Unlock()
		return
	}
	ch := make(chan struct{})
	h.waiters = append(h.waiters, ch)
	h.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
	}
}
