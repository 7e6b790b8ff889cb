package draft

import (
	"sync"

	"github.com/google/uuid"
)

// draftLocks serialises commands per draft within this process.
type draftLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newDraftLocks() *draftLocks {
	return &draftLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock blocks until the draft's mutex is held and returns its release func.
func (l *draftLocks) lock(draftID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[draftID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[draftID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// forget drops the mutex of a deleted draft. Callers must hold it.
func (l *draftLocks) forget(draftID uuid.UUID) {
	l.mu.Lock()
	delete(l.locks, draftID)
	l.mu.Unlock()
}
