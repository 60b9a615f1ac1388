package rbac

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// WildcardCode is the distinguished permission code reserved for superusers.
// It is never stored as a grant; ValidateCode rejects it.
const WildcardCode = "*"

// codePattern enforces the resource:action form, e.g. "user:read".
var codePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*:[a-z][a-z0-9_]*$`)

// ValidateCode checks that a permission code is well-formed. Permission
// codes form a closed string domain validated at grant-creation time, not
// free-form strings checked only at authorization time.
func ValidateCode(code string) error {
	if !codePattern.MatchString(code) {
		return ErrInvalidPermissionCode
	}
	return nil
}

// User is an identity record. Users are soft-deleted (Active=false) rather
// than physically removed, so audit history stays referentially intact.
type User struct {
	ID           uuid.UUID
	Identifier   string // login name or email, unique
	PasswordHash []byte
	Active       bool
	Superuser    bool
	Version      int64
}

// Role is a named collection of permissions. The code is immutable once any
// user-role grant references the role.
type Role struct {
	ID      uuid.UUID
	Code    string
	Active  bool
	Version int64
}

// Permission is an atomic capability identified by a resource:action code.
type Permission struct {
	ID      uuid.UUID
	Code    string
	Name    string
	Active  bool
	Version int64
}

// RoleGrant is a user-role relation joined with the role it references.
// An inactive or expired grant contributes nothing to resolution.
type RoleGrant struct {
	Role      Role
	Active    bool
	ExpiresAt *time.Time // nil means no expiry
}

// Expired reports whether the grant had expired as of now.
func (g RoleGrant) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && !now.Before(*g.ExpiresAt)
}

// PermissionGrant is a role-permission or user-permission relation joined
// with the permission it references.
type PermissionGrant struct {
	Permission Permission
	Active     bool
}

// PermissionSet is a user's effective set of permission codes. The zero
// value is not usable; construct with NewPermissionSet or Wildcard.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the given codes, deduplicating.
func NewPermissionSet(codes ...string) PermissionSet {
	s := make(PermissionSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Wildcard returns the distinguished all-permissions set. Membership checks
// against it succeed for every code, including codes not yet created.
func Wildcard() PermissionSet {
	return PermissionSet{WildcardCode: {}}
}

// IsWildcard reports whether the set is the distinguished wildcard set.
func (s PermissionSet) IsWildcard() bool {
	_, ok := s[WildcardCode]
	return ok
}

// Contains reports whether the set grants the given code. The wildcard set
// matches any code. There is no prefix or glob matching: "user:*" is just
// another stored code and does not imply "user:read".
func (s PermissionSet) Contains(code string) bool {
	if s.IsWildcard() {
		return true
	}
	_, ok := s[code]
	return ok
}

// Add inserts a code into the set.
func (s PermissionSet) Add(code string) {
	s[code] = struct{}{}
}

// Codes returns the set's codes in unspecified order.
func (s PermissionSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	return codes
}

// MarshalJSON encodes the set as a JSON array of codes, the form cache
// backends store.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Codes())
}

// UnmarshalJSON decodes a JSON array of codes.
func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return err
	}
	*s = NewPermissionSet(codes...)
	return nil
}
