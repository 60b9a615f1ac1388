package tokens

import "errors"

var (
	// ErrMalformedToken covers structural corruption, bad signatures, and
	// kind mismatches. Terminal; never retried.
	ErrMalformedToken = errors.New("tokens: malformed token")

	// ErrExpiredToken is returned when the token's expiry is in the past.
	ErrExpiredToken = errors.New("tokens: token is expired")

	// ErrRevokedToken is returned when the token's jti is blocklisted or
	// its issued-at predates the user's revocation watermark.
	ErrRevokedToken = errors.New("tokens: token is revoked")

	// ErrMissingSigningKey is returned when constructing a service without
	// a signing key.
	ErrMissingSigningKey = errors.New("tokens: missing signing key")

	// ErrRegistryUnavailable is returned (wrapped) when the revocation
	// registry cannot be reached. Verification fails closed on it;
	// otherwise revocation would be unenforceable during an outage.
	ErrRegistryUnavailable = errors.New("tokens: revocation registry unavailable")
)
