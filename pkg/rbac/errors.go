package rbac

import "errors"

// Domain errors for grant storage and permission resolution.
var (
	// ErrStoreUnavailable is returned (wrapped) when the grant store cannot
	// be reached or times out. Callers must fail closed on this error.
	ErrStoreUnavailable = errors.New("rbac: grant store unavailable")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("rbac: user not found")

	// ErrRoleNotFound is returned when the referenced role does not exist.
	ErrRoleNotFound = errors.New("rbac: role not found")

	// ErrPermissionNotFound is returned when the referenced permission does not exist.
	ErrPermissionNotFound = errors.New("rbac: permission not found")

	// ErrInvalidPermissionCode is returned when a permission code does not
	// match the resource:action format.
	ErrInvalidPermissionCode = errors.New("rbac: invalid permission code")

	// ErrDuplicateCode is returned when creating a role or permission whose
	// code is already taken.
	ErrDuplicateCode = errors.New("rbac: code already exists")

	// ErrRoleCodeImmutable is returned when renaming a role that is already
	// referenced by user-role grants.
	ErrRoleCodeImmutable = errors.New("rbac: role code is immutable while granted")

	// ErrOptimisticConflict is returned when a mutation is submitted against
	// a stale record version. The caller should re-read and retry.
	ErrOptimisticConflict = errors.New("rbac: version conflict")
)
