package permcache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/rbac"
)

// Store is the cache backend holding permission sets keyed by user id.
// All mutations to a given key are atomic; deleting an absent key is not an
// error. Implementations wrap backend failures with ErrCacheUnavailable.
type Store interface {
	// Get returns the cached set and true, or false on a miss.
	Get(ctx context.Context, userID uuid.UUID) (rbac.PermissionSet, bool, error)

	// Set stores a set under the user id with the given TTL.
	Set(ctx context.Context, userID uuid.UUID, set rbac.PermissionSet, ttl time.Duration) error

	// Delete removes the entry for the user id, if any.
	Delete(ctx context.Context, userID uuid.UUID) error

	// DeleteAll removes every permission entry owned by this store.
	DeleteAll(ctx context.Context) error
}
