package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGGrantStore is a GrantStore backed by PostgreSQL via pgx/v5. It only
// reads the grant relations; mutations stay with the administrative service
// that owns the schema (see migrations/ for the expected tables).
type PGGrantStore struct {
	pool *pgxpool.Pool
}

// NewPGGrantStore creates a grant store reading from the given pool.
func NewPGGrantStore(pool *pgxpool.Pool) *PGGrantStore {
	return &PGGrantStore{pool: pool}
}

// GetUser implements GrantStore.
func (s *PGGrantStore) GetUser(ctx context.Context, userID uuid.UUID) (User, error) {
	const q = `
		SELECT id, identifier, password_hash, is_active, is_superuser, version
		FROM users
		WHERE id = $1`

	var u User
	err := s.pool.QueryRow(ctx, q, userID).
		Scan(&u.ID, &u.Identifier, &u.PasswordHash, &u.Active, &u.Superuser, &u.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, storeErr("get user", err)
	}
	return u, nil
}

// GetUserByIdentifier returns the user with the given login identifier.
func (s *PGGrantStore) GetUserByIdentifier(ctx context.Context, identifier string) (User, error) {
	const q = `
		SELECT id, identifier, password_hash, is_active, is_superuser, version
		FROM users
		WHERE identifier = $1`

	var u User
	err := s.pool.QueryRow(ctx, q, identifier).
		Scan(&u.ID, &u.Identifier, &u.PasswordHash, &u.Active, &u.Superuser, &u.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, storeErr("get user by identifier", err)
	}
	return u, nil
}

// UserRoleGrants implements GrantStore.
func (s *PGGrantStore) UserRoleGrants(ctx context.Context, userID uuid.UUID) ([]RoleGrant, error) {
	const q = `
		SELECT r.id, r.code, r.is_active, r.version, ur.is_active, ur.expires_at
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, storeErr("query user role grants", err)
	}
	defer rows.Close()

	var grants []RoleGrant
	for rows.Next() {
		var g RoleGrant
		if err := rows.Scan(&g.Role.ID, &g.Role.Code, &g.Role.Active, &g.Role.Version, &g.Active, &g.ExpiresAt); err != nil {
			return nil, storeErr("scan user role grant", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate user role grants", err)
	}
	return grants, nil
}

// RolePermissionGrants implements GrantStore.
func (s *PGGrantStore) RolePermissionGrants(ctx context.Context, roleID uuid.UUID) ([]PermissionGrant, error) {
	const q = `
		SELECT p.id, p.code, p.name, p.is_active, p.version, rp.is_active
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = $1`

	return s.queryPermissionGrants(ctx, q, roleID)
}

// UserPermissionGrants implements GrantStore.
func (s *PGGrantStore) UserPermissionGrants(ctx context.Context, userID uuid.UUID) ([]PermissionGrant, error) {
	const q = `
		SELECT p.id, p.code, p.name, p.is_active, p.version, up.is_active
		FROM user_permissions up
		JOIN permissions p ON p.id = up.permission_id
		WHERE up.user_id = $1`

	return s.queryPermissionGrants(ctx, q, userID)
}

func (s *PGGrantStore) queryPermissionGrants(ctx context.Context, q string, id uuid.UUID) ([]PermissionGrant, error) {
	rows, err := s.pool.Query(ctx, q, id)
	if err != nil {
		return nil, storeErr("query permission grants", err)
	}
	defer rows.Close()

	var grants []PermissionGrant
	for rows.Next() {
		var g PermissionGrant
		if err := rows.Scan(&g.Permission.ID, &g.Permission.Code, &g.Permission.Name,
			&g.Permission.Active, &g.Permission.Version, &g.Active); err != nil {
			return nil, storeErr("scan permission grant", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate permission grants", err)
	}
	return grants, nil
}

// UserIDsByRole implements GrantStore.
func (s *PGGrantStore) UserIDsByRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	const q = `
		SELECT user_id
		FROM user_roles
		WHERE role_id = $1 AND is_active`

	rows, err := s.pool.Query(ctx, q, roleID)
	if err != nil {
		return nil, storeErr("query users by role", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("scan user id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate users by role", err)
	}
	return ids, nil
}

// storeErr wraps a backend failure so callers can errors.Is it against
// ErrStoreUnavailable and fail closed.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStoreUnavailable, err))
}
