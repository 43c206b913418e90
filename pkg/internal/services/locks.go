package services

import "sync"

// keyedMutex hands out one mutex per key so independent keys never contend.
// Entries are reference counted and dropped once the last holder releases.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{entries: make(map[string]*lockEntry)}
}

func (k *keyedMutex) Lock(key string) {
	k.mu.Lock()
	entry, ok := k.entries[key]
	if !ok {
		entry = &lockEntry{}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

func (k *keyedMutex) Unlock(key string) {
	k.mu.Lock()
	entry := k.entries[key]
	entry.refs--
	if entry.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	entry.mu.Unlock()
}
