package bcoll

import (
	"sync"
)

// SyncMap is a map guarded by a sync.RWMutex.
type SyncMap[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func NewSyncMap[K comparable, V any]() *SyncMap[K, V] {
	return &SyncMap[K, V]{
		m: make(map[K]V),
	}
}

func (sm *SyncMap[K, V]) Get(key K) (V, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	val, ok := sm.m[key]
	return val, ok
}

// SetIfAbsent stores value under key unless the key is taken, and reports whether it stored it.
func (sm *SyncMap[K, V]) SetIfAbsent(key K, value V) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, exists := sm.m[key]; exists {
		return false
	}
	sm.m[key] = value
	return true
}

func (sm *SyncMap[K, V]) Delete(key K) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.m, key)
}

func (sm *SyncMap[K, V]) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.m)
}
