package rbac

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Resolver computes effective permission sets from grant relations.
type Resolver struct {
	store GrantStore
	now   func() time.Time
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithResolverClock overrides the clock used for grant-expiry checks.
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// NewResolver creates a resolver reading from the given grant store.
func NewResolver(store GrantStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve computes the user's effective permission set:
//
//   - superusers get the wildcard set without touching grant relations;
//   - deactivated users resolve to the empty set regardless of grants;
//   - otherwise the result is the union of permission codes reachable
//     through active, non-expired role grants of active roles, and codes
//     from active direct grants; in both cases only active permissions.
//
// A store failure is returned wrapping ErrStoreUnavailable and must be
// treated as deny by authorization callers.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (PermissionSet, error) {
	user, err := r.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Unknown identity resolves to no permissions rather than an
			// error: tokens can outlive their user record.
			return NewPermissionSet(), nil
		}
		return nil, fmt.Errorf("resolve user %s: %w", userID, err)
	}

	if !user.Active {
		return NewPermissionSet(), nil
	}
	if user.Superuser {
		return Wildcard(), nil
	}

	set := NewPermissionSet()
	now := r.now()

	roleGrants, err := r.store.UserRoleGrants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve role grants for %s: %w", userID, err)
	}
	for _, rg := range roleGrants {
		if !rg.Active || rg.Expired(now) || !rg.Role.Active {
			continue
		}
		permGrants, err := r.store.RolePermissionGrants(ctx, rg.Role.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve permissions of role %s: %w", rg.Role.ID, err)
		}
		addActive(set, permGrants)
	}

	directGrants, err := r.store.UserPermissionGrants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve direct grants for %s: %w", userID, err)
	}
	addActive(set, directGrants)

	return set, nil
}

// addActive unions grants whose relation and permission are both active.
func addActive(set PermissionSet, grants []PermissionGrant) {
	for _, g := range grants {
		if g.Active && g.Permission.Active {
			set.Add(g.Permission.Code)
		}
	}
}
