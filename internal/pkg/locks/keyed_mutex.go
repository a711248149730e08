// Package locks provides a keyed mutex used to serialize operations that
// target the same order. Operations on different orders proceed in parallel;
// a transition and a concurrent location update on one order never interleave.
package locks

import "sync"

// KeyedMutex is a set of mutexes addressed by string key. Entries are
// created on first use and removed once the last holder releases them, so
// the map does not grow with the number of orders ever seen.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*entry)}
}

// Lock acquires the mutex for key, blocking until it is available, and
// returns the function that releases it. Callers must invoke the returned
// function exactly once, typically via defer.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
