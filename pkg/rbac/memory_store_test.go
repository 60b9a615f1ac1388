package rbac_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/rbac"
)

func TestMemoryGrantStore_OptimisticConcurrency(t *testing.T) {
	ctx := context.Background()
	store := rbac.NewMemoryGrantStore()

	user := rbac.User{ID: uuid.New(), Identifier: "bob", Active: true}
	require.NoError(t, store.CreateUser(ctx, user))

	fresh, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)

	fresh.Active = false
	require.NoError(t, store.UpdateUser(ctx, fresh))

	// Second writer still holds the old version.
	fresh.Active = true
	err = store.UpdateUser(ctx, fresh)
	assert.ErrorIs(t, err, rbac.ErrOptimisticConflict)
}

func TestMemoryGrantStore_RoleCodeImmutableWhileGranted(t *testing.T) {
	ctx := context.Background()
	store := rbac.NewMemoryGrantStore()

	user := rbac.User{ID: uuid.New(), Identifier: "bob", Active: true}
	require.NoError(t, store.CreateUser(ctx, user))

	role := rbac.Role{ID: uuid.New(), Code: "editor", Active: true}
	require.NoError(t, store.CreateRole(ctx, role))
	require.NoError(t, store.GrantRoleToUser(ctx, user.ID, role.ID, nil))

	role.Version = 1
	role.Code = "writer"
	err := store.UpdateRole(ctx, role)
	assert.ErrorIs(t, err, rbac.ErrRoleCodeImmutable)

	// Other fields remain mutable while granted.
	role.Code = "editor"
	role.Active = false
	assert.NoError(t, store.UpdateRole(ctx, role))
}

func TestMemoryGrantStore_DuplicateCodes(t *testing.T) {
	ctx := context.Background()
	store := rbac.NewMemoryGrantStore()

	perm := rbac.Permission{ID: uuid.New(), Code: "user:read", Name: "Read users", Active: true}
	require.NoError(t, store.CreatePermission(ctx, perm))

	dup := rbac.Permission{ID: uuid.New(), Code: "user:read", Name: "Duplicate", Active: true}
	assert.ErrorIs(t, store.CreatePermission(ctx, dup), rbac.ErrDuplicateCode)

	bad := rbac.Permission{ID: uuid.New(), Code: "not-a-code", Active: true}
	assert.ErrorIs(t, store.CreatePermission(ctx, bad), rbac.ErrInvalidPermissionCode)

	role := rbac.Role{ID: uuid.New(), Code: "editor", Active: true}
	require.NoError(t, store.CreateRole(ctx, role))
	dupRole := rbac.Role{ID: uuid.New(), Code: "editor", Active: true}
	assert.ErrorIs(t, store.CreateRole(ctx, dupRole), rbac.ErrDuplicateCode)
}

func TestMemoryGrantStore_RegrantReactivates(t *testing.T) {
	ctx := context.Background()
	store := rbac.NewMemoryGrantStore()

	user := rbac.User{ID: uuid.New(), Identifier: "bob", Active: true}
	require.NoError(t, store.CreateUser(ctx, user))
	role := rbac.Role{ID: uuid.New(), Code: "editor", Active: true}
	require.NoError(t, store.CreateRole(ctx, role))

	require.NoError(t, store.GrantRoleToUser(ctx, user.ID, role.ID, nil))
	require.NoError(t, store.RevokeRoleFromUser(ctx, user.ID, role.ID))

	ids, err := store.UserIDsByRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.GrantRoleToUser(ctx, user.ID, role.ID, nil))
	ids, err = store.UserIDsByRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{user.ID}, ids)
}
