package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/rbac"
)

// PermissionSource returns a user's effective permission set. Satisfied by
// *permcache.Cache (the usual wiring) and by *rbac.Resolver directly when
// no cache is wanted.
type PermissionSource interface {
	Permissions(ctx context.Context, userID uuid.UUID) (rbac.PermissionSet, error)
}

// Gate is the request-time allow/deny check. It has no side effects beyond
// the cache population its PermissionSource may perform.
type Gate struct {
	perms PermissionSource
}

// NewGate creates a gate over the given permission source.
func NewGate(perms PermissionSource) *Gate {
	return &Gate{perms: perms}
}

// Authorize allows iff the user's effective set is the wildcard or contains
// the permission code exactly. Any resolution failure is a deny carrying
// the underlying cause, so callers can log it; it is never an allow.
func (g *Gate) Authorize(ctx context.Context, userID uuid.UUID, permission string) error {
	set, err := g.perms.Permissions(ctx, userID)
	if err != nil {
		return fmt.Errorf("authorize %s: %w", userID, errors.Join(ErrPermissionDenied, err))
	}
	if !set.Contains(permission) {
		return ErrPermissionDenied
	}
	return nil
}
