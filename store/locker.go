package store

import (
	"context"
	"sync"

	"github.com/hupe1980/mazemesh/core"
)

// InMemoryLocker implements core.Locker with one binary semaphore per
// experiment id. Acquire waits for the semaphore or for ctx cancellation.
// Locks for different experiments never contend with each other.
//
// Unlike the postgres advisory locker there is no session teardown to lean
// on: a caller that never invokes Unlock wedges its experiment. That is
// acceptable for the in-process use this type targets, where the lock scope
// is a function call.
type InMemoryLocker struct {
	mu    sync.Mutex
	slots map[int64]chan struct{}
}

// NewInMemoryLocker constructs an empty in-memory locker.
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{slots: make(map[int64]chan struct{})}
}

func (l *InMemoryLocker) slot(experimentID int64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[experimentID]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[experimentID] = s
	}
	return s
}

// Acquire blocks until the experiment-scoped lock is held or ctx is done.
func (l *InMemoryLocker) Acquire(ctx context.Context, experimentID int64) (core.Unlock, error) {
	s := l.slot(experimentID)
	select {
	case s <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-s }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
