package service

import "sync"

// openDayLocks hands out one mutex per open day so the admission sequence
// (duplicate check, capacity check, write) runs serialized per event.
// Mutexes are never removed; the set is bounded by the number of open days.
type openDayLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newOpenDayLocks() *openDayLocks {
	return &openDayLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for the open day and returns its unlock function.
func (l *openDayLocks) Lock(jpoID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[jpoID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[jpoID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
