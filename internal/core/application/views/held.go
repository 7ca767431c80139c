package views

import (
	"sync"

	"shopdispatch/internal/core/domain/model/kernel"
)

// Held guards the snapshot a reconciliation loop diffs against. Update runs the
// whole read-compute-replace step under one lock, so a cancelled or failed fetch
// that never reaches Update cannot leave a half-applied snapshot behind.
type Held[T any] struct {
	mu   sync.RWMutex
	snap kernel.Snapshot[T]
}

// Load returns the current snapshot.
func (h *Held[T]) Load() kernel.Snapshot[T] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Update replaces the snapshot with fn's result.
func (h *Held[T]) Update(fn func(prev kernel.Snapshot[T]) kernel.Snapshot[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = fn(h.snap)
}

// Reset forgets the snapshot; the next Update starts from a baseline.
func (h *Held[T]) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = kernel.Snapshot[T]{}
}
