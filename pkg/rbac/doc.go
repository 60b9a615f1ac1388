// Package rbac implements the permission-resolution core of a role-based
// access control system: users hold roles, roles hold permissions, and users
// may additionally hold direct permission grants that bypass roles.
//
// The central operation is Resolver.Resolve, which computes a user's
// effective permission set as the union of role-derived grants and direct
// grants, honoring active flags and grant expiry. Superusers short-circuit
// to a distinguished wildcard set; deactivated users resolve to the empty
// set regardless of grants.
//
// Grant relations are owned by an external store behind the GrantStore
// interface. The package ships two implementations: MemoryGrantStore for
// tests and single-process setups, and PGGrantStore backed by pgx/v5.
//
// Basic usage:
//
//	store := rbac.NewMemoryGrantStore()
//	resolver := rbac.NewResolver(store)
//
//	set, err := resolver.Resolve(ctx, userID)
//	if err != nil {
//	    // store unreachable: callers must treat this as deny
//	}
//	if set.Contains("document:write") {
//	    // allowed
//	}
//
// Resolution failures are reported as errors wrapping ErrStoreUnavailable.
// They are never converted into an empty (or full) permission set; the
// caller decides, and the only safe decision is deny.
package rbac
