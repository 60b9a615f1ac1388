package permcache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/rbac"
)

// DefaultTTL is the baseline lifetime of a cached permission set.
const DefaultTTL = 30 * time.Minute

// defaultJitter spreads entry expiry by ±10% to avoid synchronized mass
// expiry across users cached in the same burst.
const defaultJitter = 0.1

// PermissionResolver computes a user's effective permission set. Satisfied
// by *rbac.Resolver.
type PermissionResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (rbac.PermissionSet, error)
}

// RoleMembership answers which users hold a role, for cascade invalidation.
// Satisfied by any rbac.GrantStore.
type RoleMembership interface {
	UserIDsByRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
}

// Cache is a read-through permission cache. On a miss it resolves through
// the PermissionResolver, with at most one resolution in flight per user id;
// concurrent callers for the same id wait for that resolution's result
// instead of issuing their own.
type Cache struct {
	store      Store
	resolver   PermissionResolver
	membership RoleMembership
	ttl        time.Duration
	jitter     float64
	group      singleflight.Group
	log        *slog.Logger

	mu     sync.Mutex
	states map[string]*flightState
}

// flightState orders a user's cache writes against invalidations. A
// resolution in flight when an invalidation runs must not write its
// pre-mutation result back: the epoch bump makes it drop the write, and
// holding mu across the store delete means a write that already passed
// the epoch check lands before the delete and is removed by it.
type flightState struct {
	mu    sync.Mutex
	epoch atomic.Uint64
}

// Option customizes a Cache.
type Option func(*Cache)

// WithTTL overrides the baseline entry TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithJitter sets the relative TTL jitter in [0, 1). Zero disables jitter.
func WithJitter(jitter float64) Option {
	return func(c *Cache) {
		if jitter >= 0 && jitter < 1 {
			c.jitter = jitter
		}
	}
}

// WithLogger sets a custom logger for cache events.
func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// New creates a read-through cache over the given backend and resolver.
// The membership source is consulted only for role-cascade invalidation;
// it may be nil when roles are not used, in which case InvalidateRole
// returns ErrNoMembershipSource.
func New(store Store, resolver PermissionResolver, membership RoleMembership, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		resolver:   resolver,
		membership: membership,
		ttl:        DefaultTTL,
		jitter:     defaultJitter,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		states:     make(map[string]*flightState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Permissions returns the user's effective permission set, resolving and
// caching on a miss. Backend and resolution failures are returned to the
// caller; they must be treated as deny, never as an empty "allow anyway".
func (c *Cache) Permissions(ctx context.Context, userID uuid.UUID) (rbac.PermissionSet, error) {
	set, hit, err := c.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if hit {
		return set, nil
	}

	key := userID.String()
	st := c.state(key)
	result, err, shared := c.group.Do(key, func() (any, error) {
		start := st.epoch.Load()
		resolved, err := c.resolver.Resolve(ctx, userID)
		if err != nil {
			return nil, err
		}
		st.mu.Lock()
		if st.epoch.Load() != start {
			// An invalidation ran while this resolution was in flight;
			// the result may predate the mutation and must not be cached.
			st.mu.Unlock()
			return resolved, nil
		}
		if err := c.store.Set(ctx, userID, resolved, c.entryTTL()); err != nil {
			// The set is correct even if caching it failed; log and serve it.
			c.log.WarnContext(ctx, "failed to cache permission set",
				logger.UserID(userID),
				logger.Error(err),
				logger.Component("permcache"),
			)
		}
		st.mu.Unlock()
		return resolved, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.DebugContext(ctx, "shared in-flight resolution",
			logger.UserID(userID),
			logger.Component("permcache"),
		)
	}
	return result.(rbac.PermissionSet), nil
}

// Warm resolves and caches the user's permission set ahead of demand. Used
// as a login-time convenience for the authenticating user only.
func (c *Cache) Warm(ctx context.Context, userID uuid.UUID) error {
	_, err := c.Permissions(ctx, userID)
	return err
}

// InvalidateUser removes the user's cached set. It is idempotent. It also
// bumps the user's invalidation epoch, so a resolution that was already in
// flight discards its write instead of re-caching a pre-mutation set, and
// forgets the singleflight key so a check that starts after a grant
// mutation returns cannot adopt a pre-mutation result.
func (c *Cache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	key := userID.String()
	st := c.state(key)

	st.mu.Lock()
	st.epoch.Add(1)
	err := c.store.Delete(ctx, userID)
	st.mu.Unlock()

	c.group.Forget(key)
	if err != nil {
		return fmt.Errorf("invalidate user %s: %w", userID, err)
	}
	return nil
}

// InvalidateRole removes the cached set of every user holding the role.
// The cache keeps no role→user index of its own; membership comes from the
// grant store, so an unreachable store fails the invalidation (and with it
// the triggering mutation) rather than leaving stale entries behind.
func (c *Cache) InvalidateRole(ctx context.Context, roleID uuid.UUID) error {
	if c.membership == nil {
		return fmt.Errorf("invalidate role %s: %w", roleID, ErrNoMembershipSource)
	}
	userIDs, err := c.membership.UserIDsByRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("invalidate role %s: %w", roleID, err)
	}
	for _, userID := range userIDs {
		if err := c.InvalidateUser(ctx, userID); err != nil {
			return err
		}
	}
	c.log.InfoContext(ctx, "role cache invalidation cascaded",
		logger.RoleID(roleID),
		slog.Int("users", len(userIDs)),
		logger.Component("permcache"),
	)
	return nil
}

// InvalidateAll drops every cached permission set.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	if err := c.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("invalidate all: %w", err)
	}
	return nil
}

// state returns the per-user flight state, creating it on first use. The
// registry is keyed by user id and holds one small entry per distinct user
// seen by this process.
func (c *Cache) state(key string) *flightState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[key]
	if !ok {
		st = &flightState{}
		c.states[key] = st
	}
	return st
}

// entryTTL applies the configured jitter to the baseline TTL.
func (c *Cache) entryTTL() time.Duration {
	if c.jitter == 0 {
		return c.ttl
	}
	spread := 1 + c.jitter*(2*rand.Float64()-1)
	return time.Duration(float64(c.ttl) * spread)
}
