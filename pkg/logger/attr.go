package logger

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Error returns a standardized attribute for error values. A nil error
// produces an empty string so log lines stay greppable.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Component identifies the subsystem emitting the record, e.g.
// "permcache" or "authz".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event names a discrete occurrence, e.g. "login", "token_revoked".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// UserID tags the record with the acting or affected user.
func UserID(id uuid.UUID) slog.Attr {
	return slog.String("user_id", id.String())
}

// RoleID tags the record with a role involved in the operation.
func RoleID(id uuid.UUID) slog.Attr {
	return slog.String("role_id", id.String())
}

// PermissionCode tags the record with the permission being checked or
// granted.
func PermissionCode(code string) slog.Attr {
	return slog.String("permission", code)
}

// TokenID tags the record with a token's jti claim.
func TokenID(id string) slog.Attr {
	return slog.String("token_id", id)
}

// Duration records elapsed time in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64("duration_ms", d.Milliseconds())
}
