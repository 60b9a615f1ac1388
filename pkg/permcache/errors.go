package permcache

import "errors"

var (
	// ErrCacheUnavailable is returned (wrapped) when the cache backend
	// cannot be reached. Authorization callers must fail closed on it.
	ErrCacheUnavailable = errors.New("permcache: cache backend unavailable")

	// ErrEncoding is returned when a cached entry cannot be encoded or
	// decoded. A corrupt entry is treated as a miss by the cache itself;
	// the sentinel surfaces only from direct Store usage.
	ErrEncoding = errors.New("permcache: entry encoding failed")

	// ErrNoMembershipSource is returned by InvalidateRole when the cache
	// was built without a role membership source.
	ErrNoMembershipSource = errors.New("permcache: no role membership source configured")
)
