package mastery

import "sync"

// keyedLocks serializes writers per key. Updates to the same
// (user, subject, topic) take a read-modify-write over a bounded window,
// so they need at-most-one-writer discipline; different keys proceed
// independently.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock func.
// Entries are never evicted; the map is bounded by the number of
// distinct user-topic keys the process touches.
func (k *keyedLocks) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
