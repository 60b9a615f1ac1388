package credentials

import "errors"

var (
	// ErrPasswordMismatch is returned when a password does not match the hash.
	ErrPasswordMismatch = errors.New("credentials: password mismatch")

	// ErrPasswordTooLong is returned when a password exceeds bcrypt's
	// 72-byte input limit. Silently truncating would weaken the check.
	ErrPasswordTooLong = errors.New("credentials: password exceeds 72 bytes")

	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("credentials: empty password")
)
