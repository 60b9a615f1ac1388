package authz

import "errors"

var (
	// ErrUnauthenticated covers every identity failure: bad credentials and
	// malformed, expired, or revoked tokens. Maps to 401 at the boundary.
	ErrUnauthenticated = errors.New("authz: unauthenticated")

	// ErrInvalidCredentials is joined with ErrUnauthenticated when a login
	// fails. It deliberately does not distinguish unknown identifiers from
	// wrong passwords.
	ErrInvalidCredentials = errors.New("authz: invalid credentials")

	// ErrPermissionDenied means the identity is valid but the permission is
	// missing. Maps to 403; the missing permission is not named.
	ErrPermissionDenied = errors.New("authz: permission denied")
)
