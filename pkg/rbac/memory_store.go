package rbac

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// userRoleRow and the sibling row types mirror the relational grant tables.
type userRoleRow struct {
	userID    uuid.UUID
	roleID    uuid.UUID
	active    bool
	expiresAt *time.Time
}

type rolePermRow struct {
	roleID uuid.UUID
	permID uuid.UUID
	active bool
}

type userPermRow struct {
	userID uuid.UUID
	permID uuid.UUID
	active bool
}

// MemoryGrantStore is an in-memory GrantStore for tests and single-process
// deployments. It is safe for concurrent use and enforces the same
// invariants the relational store does: code uniqueness, role-code
// immutability while granted, and optimistic version checks on updates.
type MemoryGrantStore struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]User
	roles       map[uuid.UUID]Role
	permissions map[uuid.UUID]Permission
	userRoles   []userRoleRow
	rolePerms   []rolePermRow
	userPerms   []userPermRow
}

// NewMemoryGrantStore creates an empty in-memory grant store.
func NewMemoryGrantStore() *MemoryGrantStore {
	return &MemoryGrantStore{
		users:       make(map[uuid.UUID]User),
		roles:       make(map[uuid.UUID]Role),
		permissions: make(map[uuid.UUID]Permission),
	}
}

// CreateUser inserts a new user record.
func (s *MemoryGrantStore) CreateUser(ctx context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Version = 1
	s.users[user.ID] = user
	return nil
}

// UpdateUser replaces a user record. The submitted Version must match the
// stored one; on success the stored version is incremented.
func (s *MemoryGrantStore) UpdateUser(ctx context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if current.Version != user.Version {
		return ErrOptimisticConflict
	}
	user.Version++
	s.users[user.ID] = user
	return nil
}

// CreateRole inserts a new role. Role codes are unique.
func (s *MemoryGrantStore) CreateRole(ctx context.Context, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.roles {
		if r.Code == role.Code {
			return ErrDuplicateCode
		}
	}
	role.Version = 1
	s.roles[role.ID] = role
	return nil
}

// UpdateRole replaces a role record with a version check. Changing the code
// of a role that is referenced by any user-role grant is rejected; renames
// require an explicit migration, not an in-place overwrite.
func (s *MemoryGrantStore) UpdateRole(ctx context.Context, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.roles[role.ID]
	if !ok {
		return ErrRoleNotFound
	}
	if current.Version != role.Version {
		return ErrOptimisticConflict
	}
	if role.Code != current.Code {
		for _, row := range s.userRoles {
			if row.roleID == role.ID {
				return ErrRoleCodeImmutable
			}
		}
	}
	role.Version++
	s.roles[role.ID] = role
	return nil
}

// CreatePermission inserts a new permission after validating its code.
func (s *MemoryGrantStore) CreatePermission(ctx context.Context, perm Permission) error {
	if err := ValidateCode(perm.Code); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.permissions {
		if p.Code == perm.Code {
			return ErrDuplicateCode
		}
	}
	perm.Version = 1
	s.permissions[perm.ID] = perm
	return nil
}

// UpdatePermission replaces a permission record with a version check.
func (s *MemoryGrantStore) UpdatePermission(ctx context.Context, perm Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.permissions[perm.ID]
	if !ok {
		return ErrPermissionNotFound
	}
	if current.Version != perm.Version {
		return ErrOptimisticConflict
	}
	perm.Version++
	s.permissions[perm.ID] = perm
	return nil
}

// GrantRoleToUser records a user-role grant, optionally expiring.
// Re-granting an existing pair reactivates and updates the expiry.
func (s *MemoryGrantStore) GrantRoleToUser(ctx context.Context, userID, roleID uuid.UUID, expiresAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrUserNotFound
	}
	if _, ok := s.roles[roleID]; !ok {
		return ErrRoleNotFound
	}
	for i, row := range s.userRoles {
		if row.userID == userID && row.roleID == roleID {
			s.userRoles[i].active = true
			s.userRoles[i].expiresAt = expiresAt
			return nil
		}
	}
	s.userRoles = append(s.userRoles, userRoleRow{userID: userID, roleID: roleID, active: true, expiresAt: expiresAt})
	return nil
}

// RevokeRoleFromUser deactivates a user-role grant. Revoking an absent
// grant is a no-op.
func (s *MemoryGrantStore) RevokeRoleFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, row := range s.userRoles {
		if row.userID == userID && row.roleID == roleID {
			s.userRoles[i].active = false
		}
	}
	return nil
}

// GrantPermissionToRole records a role-permission grant.
func (s *MemoryGrantStore) GrantPermissionToRole(ctx context.Context, roleID, permID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[roleID]; !ok {
		return ErrRoleNotFound
	}
	if _, ok := s.permissions[permID]; !ok {
		return ErrPermissionNotFound
	}
	for i, row := range s.rolePerms {
		if row.roleID == roleID && row.permID == permID {
			s.rolePerms[i].active = true
			return nil
		}
	}
	s.rolePerms = append(s.rolePerms, rolePermRow{roleID: roleID, permID: permID, active: true})
	return nil
}

// RevokePermissionFromRole deactivates a role-permission grant.
func (s *MemoryGrantStore) RevokePermissionFromRole(ctx context.Context, roleID, permID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, row := range s.rolePerms {
		if row.roleID == roleID && row.permID == permID {
			s.rolePerms[i].active = false
		}
	}
	return nil
}

// GrantPermissionToUser records a direct user-permission grant.
func (s *MemoryGrantStore) GrantPermissionToUser(ctx context.Context, userID, permID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrUserNotFound
	}
	if _, ok := s.permissions[permID]; !ok {
		return ErrPermissionNotFound
	}
	for i, row := range s.userPerms {
		if row.userID == userID && row.permID == permID {
			s.userPerms[i].active = true
			return nil
		}
	}
	s.userPerms = append(s.userPerms, userPermRow{userID: userID, permID: permID, active: true})
	return nil
}

// RevokePermissionFromUser deactivates a direct user-permission grant.
func (s *MemoryGrantStore) RevokePermissionFromUser(ctx context.Context, userID, permID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, row := range s.userPerms {
		if row.userID == userID && row.permID == permID {
			s.userPerms[i].active = false
		}
	}
	return nil
}

// GetUser implements GrantStore.
func (s *MemoryGrantStore) GetUser(ctx context.Context, userID uuid.UUID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// GetUserByIdentifier returns the user with the given login identifier.
func (s *MemoryGrantStore) GetUserByIdentifier(ctx context.Context, identifier string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Identifier == identifier {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

// UserRoleGrants implements GrantStore.
func (s *MemoryGrantStore) UserRoleGrants(ctx context.Context, userID uuid.UUID) ([]RoleGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var grants []RoleGrant
	for _, row := range s.userRoles {
		if row.userID != userID {
			continue
		}
		role, ok := s.roles[row.roleID]
		if !ok {
			continue
		}
		grants = append(grants, RoleGrant{Role: role, Active: row.active, ExpiresAt: row.expiresAt})
	}
	return grants, nil
}

// RolePermissionGrants implements GrantStore.
func (s *MemoryGrantStore) RolePermissionGrants(ctx context.Context, roleID uuid.UUID) ([]PermissionGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var grants []PermissionGrant
	for _, row := range s.rolePerms {
		if row.roleID != roleID {
			continue
		}
		perm, ok := s.permissions[row.permID]
		if !ok {
			continue
		}
		grants = append(grants, PermissionGrant{Permission: perm, Active: row.active})
	}
	return grants, nil
}

// UserPermissionGrants implements GrantStore.
func (s *MemoryGrantStore) UserPermissionGrants(ctx context.Context, userID uuid.UUID) ([]PermissionGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var grants []PermissionGrant
	for _, row := range s.userPerms {
		if row.userID != userID {
			continue
		}
		perm, ok := s.permissions[row.permID]
		if !ok {
			continue
		}
		grants = append(grants, PermissionGrant{Permission: perm, Active: row.active})
	}
	return grants, nil
}

// UserIDsByRole implements GrantStore.
func (s *MemoryGrantStore) UserIDsByRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []uuid.UUID
	for _, row := range s.userRoles {
		if row.roleID == roleID && row.active {
			ids = append(ids, row.userID)
		}
	}
	return ids, nil
}
