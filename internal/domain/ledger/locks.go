package ledger

import (
	"sync"

	"inventa/internal/core/id"
)

// itemLocks is a registry of per-item mutexes.
//
// Locks are created lazily and never removed: the working set equals the
// item catalog, which is small relative to request volume. Callers that
// need more than one item lock must acquire them in ascending item-ID
// order (see posting.Engine); this total order is the sole deadlock
// avoidance mechanism.
type itemLocks struct {
	mu    sync.Mutex
	locks map[id.ID]*sync.Mutex
}

func newItemLocks() *itemLocks {
	return &itemLocks{
		locks: make(map[id.ID]*sync.Mutex),
	}
}

// acquire locks the mutex for itemID and returns its unlock function.
func (l *itemLocks) acquire(itemID id.ID) func() {
	l.mu.Lock()
	m, ok := l.locks[itemID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[itemID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
