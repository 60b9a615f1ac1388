package permcache

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/rbac"
)

type memoryEntry struct {
	set       rbac.PermissionSet
	expiresAt time.Time
}

// MemoryStore is an in-memory Store backed by a mutex-guarded map. A janitor
// goroutine evicts expired entries so the map does not grow unbounded
// between invalidations.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	ticker  *time.Ticker
	done    chan struct{}
}

// NewMemoryStore creates an in-memory store. A positive cleanupInterval
// starts the background janitor; pass 0 to disable it (tests).
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		entries: make(map[uuid.UUID]memoryEntry),
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, userID uuid.UUID) (rbac.PermissionSet, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[userID]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, userID)
		m.mu.Unlock()
		return nil, false, nil
	}

	// Copy so callers cannot mutate the cached set.
	set := make(rbac.PermissionSet, len(entry.set))
	maps.Copy(set, entry.set)
	return set, true, nil
}

// Set implements Store.
func (m *MemoryStore) Set(ctx context.Context, userID uuid.UUID, set rbac.PermissionSet, ttl time.Duration) error {
	entryCopy := make(rbac.PermissionSet, len(set))
	maps.Copy(entryCopy, set)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[userID] = memoryEntry{
		set:       entryCopy,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete implements Store. Deleting an absent entry is a no-op.
func (m *MemoryStore) Delete(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, userID)
	return nil
}

// DeleteAll implements Store.
func (m *MemoryStore) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[uuid.UUID]memoryEntry)
	return nil
}

// Close stops the janitor goroutine.
func (m *MemoryStore) Close() {
	if m.ticker != nil {
		m.ticker.Stop()
	}
	close(m.done)
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			m.deleteExpired()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryStore) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
}
