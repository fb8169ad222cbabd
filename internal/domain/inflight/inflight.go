// Package inflight tracks work that is currently running per key so a second
// attempt for the same key can be refused instead of run twice.
package inflight

import (
	"context"
	"sync"
	"sync/atomic"
)

// Tracker marks keys as busy for the duration of one call.
type Tracker interface {
	// Acquire marks id as in flight. It returns false if id is already in
	// flight or the tracker is full.
	Acquire(ctx context.Context, id string) bool

	// Release clears id. Releasing an id that is not held is a no-op.
	Release(ctx context.Context, id string)

	// Held reports whether id is currently in flight.
	Held(ctx context.Context, id string) bool

	Size() int64
}

// inMemoryTracker implements Tracker with a guarded set.
// maxSize <= 0 means unbounded.
type inMemoryTracker struct {
	mu      sync.Mutex
	busy    map[string]struct{}
	maxSize int
	size    atomic.Int64
}

// NewInMemoryTracker creates a tracker with configuration options.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{}
	for _, opt := range opts {
		opt(t)
	}
	t.busy = make(map[string]struct{})
	return t
}

func (t *inMemoryTracker) Acquire(_ context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, held := t.busy[id]; held {
		return false
	}
	// Held entries are never evicted; a full tracker refuses new work.
	if t.maxSize > 0 && len(t.busy) >= t.maxSize {
		return false
	}
	t.busy[id] = struct{}{}
	t.size.Add(1)
	return true
}

func (t *inMemoryTracker) Release(_ context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, held := t.busy[id]; held {
		delete(t.busy, id)
		t.size.Add(-1)
	}
}

func (t *inMemoryTracker) Held(_ context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, held := t.busy[id]
	return held
}

// Size returns the number of keys currently in flight.
func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
