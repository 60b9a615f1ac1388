// Package permcache memoizes permission-resolution results per user so that
// request-time authorization checks rarely touch the grant store.
//
// The cache is read-through: a miss triggers exactly one resolution per user
// id at a time (a singleflight guard collapses concurrent misses for the
// same key), and the result is stored with a jittered TTL to avoid
// synchronized mass expiry. Entries are disposable; the grant store remains
// the source of truth and any entry can be rebuilt at any time.
//
// Invalidation is explicit and synchronous. Grant mutations call
// InvalidateUser, InvalidateRole (which cascades to every user holding the
// role), or InvalidateAll before reporting success to their caller, so a
// check that starts after a mutation returns always observes fresh grants.
//
// Two Store backends ship with the package: MemoryStore for single-process
// deployments and RedisStore for shared caches.
//
//	cache := permcache.New(store, resolver, grants)
//	set, err := cache.Permissions(ctx, userID)
//	if err != nil {
//	    // backend or resolution failure: deny
//	}
package permcache
