package tokens

import "time"

// Config holds token service settings loaded from the environment.
type Config struct {
	SigningKey string        `env:"AUTH_TOKEN_SIGNING_KEY,required"`          // SigningKey is the HMAC key; use at least 32 random bytes.
	AccessTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"15m"`   // AccessTTL is the access token lifetime.
	RefreshTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" envDefault:"168h"` // RefreshTTL is the refresh token lifetime (7 days).
}
