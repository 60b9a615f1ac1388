package tokens

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RevocationStore is the time-bounded registry of revoked tokens. Entries
// expire with the token they shadow, so the registry never needs explicit
// cleanup beyond TTL expiry.
//
// Implementations wrap backend failures with ErrRegistryUnavailable.
type RevocationStore interface {
	// Revoke records a jti for the given TTL.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a jti is currently recorded.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// SetWatermark records the user's tokens-issued-before cutoff.
	SetWatermark(ctx context.Context, userID uuid.UUID, cutoff time.Time, ttl time.Duration) error

	// Watermark returns the user's cutoff, if one is set.
	Watermark(ctx context.Context, userID uuid.UUID) (time.Time, bool, error)
}

type revokedEntry struct {
	expiresAt time.Time
}

type watermarkEntry struct {
	cutoff    time.Time
	expiresAt time.Time
}

// MemoryRevocationStore is an in-process RevocationStore. Entries are
// dropped lazily on read and swept by Cleanup; since tokens are short-lived
// the registry stays small.
type MemoryRevocationStore struct {
	mu         sync.RWMutex
	revoked    map[string]revokedEntry
	watermarks map[uuid.UUID]watermarkEntry
}

// NewMemoryRevocationStore creates an empty in-memory registry.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked:    make(map[string]revokedEntry),
		watermarks: make(map[uuid.UUID]watermarkEntry),
	}
}

// Revoke implements RevocationStore.
func (m *MemoryRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.revoked[jti] = revokedEntry{expiresAt: time.Now().Add(ttl)}
	return nil
}

// IsRevoked implements RevocationStore.
func (m *MemoryRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	m.mu.RLock()
	entry, ok := m.revoked[jti]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock: a concurrent Revoke may have
		// refreshed the entry between the read and here, and deleting a
		// live revocation record would un-revoke the token.
		if e, ok := m.revoked[jti]; ok && time.Now().After(e.expiresAt) {
			delete(m.revoked, jti)
		}
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// SetWatermark implements RevocationStore.
func (m *MemoryRevocationStore) SetWatermark(ctx context.Context, userID uuid.UUID, cutoff time.Time, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.watermarks[userID] = watermarkEntry{cutoff: cutoff, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Watermark implements RevocationStore.
func (m *MemoryRevocationStore) Watermark(ctx context.Context, userID uuid.UUID) (time.Time, bool, error) {
	m.mu.RLock()
	entry, ok := m.watermarks[userID]
	m.mu.RUnlock()

	if !ok {
		return time.Time{}, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		// Same re-check as IsRevoked: a watermark refreshed by a
		// concurrent SetWatermark must survive this lazy cleanup, or a
		// mass revocation would be silently undone.
		if e, ok := m.watermarks[userID]; ok && time.Now().After(e.expiresAt) {
			delete(m.watermarks, userID)
		}
		m.mu.Unlock()
		return time.Time{}, false, nil
	}
	return entry.cutoff, true, nil
}

// Cleanup sweeps expired entries and returns how many were removed.
func (m *MemoryRevocationStore) Cleanup(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for jti, entry := range m.revoked {
		if now.After(entry.expiresAt) {
			delete(m.revoked, jti)
			removed++
		}
	}
	for userID, entry := range m.watermarks {
		if now.After(entry.expiresAt) {
			delete(m.watermarks, userID)
			removed++
		}
	}
	return removed
}
