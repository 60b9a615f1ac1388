package rbac

import (
	"context"

	"github.com/google/uuid"
)

// GrantStore provides read access to the authoritative grant relations.
// The store is the single writer-of-record for grants and is assumed to
// provide its own transactional consistency; the resolver only reads.
//
// Implementations must wrap backend failures with ErrStoreUnavailable so
// callers can distinguish "store down" from "no rows".
type GrantStore interface {
	// GetUser returns the user record or ErrUserNotFound.
	GetUser(ctx context.Context, userID uuid.UUID) (User, error)

	// UserRoleGrants returns the user's role grants joined with their roles,
	// including inactive and expired ones. Filtering is the resolver's job.
	UserRoleGrants(ctx context.Context, userID uuid.UUID) ([]RoleGrant, error)

	// RolePermissionGrants returns the role's permission grants joined with
	// their permissions.
	RolePermissionGrants(ctx context.Context, roleID uuid.UUID) ([]PermissionGrant, error)

	// UserPermissionGrants returns the user's direct permission grants
	// joined with their permissions.
	UserPermissionGrants(ctx context.Context, userID uuid.UUID) ([]PermissionGrant, error)

	// UserIDsByRole returns the ids of all users holding an active grant of
	// the role. Used for cascade cache invalidation.
	UserIDsByRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
}
