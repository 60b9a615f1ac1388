package tokens

import "time"

// Kind discriminates access tokens from refresh tokens. Verification pins
// the expected kind so a long-lived refresh token cannot be replayed as an
// access token.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the signed payload of an issued token. Temporal fields are Unix
// timestamps per RFC 7519.
type Claims struct {
	ID        string `json:"jti"`  // unique token id, used for revocation
	Subject   string `json:"sub"`  // user id
	Kind      Kind   `json:"kind"` // access or refresh
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Expired reports whether the token's expiry had passed as of now.
func (c Claims) Expired(now time.Time) bool {
	return now.Unix() > c.ExpiresAt
}

// Remaining returns the token's remaining validity, clamped at zero.
func (c Claims) Remaining(now time.Time) time.Duration {
	rem := time.Unix(c.ExpiresAt, 0).Sub(now)
	if rem < 0 {
		return 0
	}
	return rem
}
