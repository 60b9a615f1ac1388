package config

import "errors"

var (
	// ErrParsingConfig indicates that environment variables could not be
	// parsed into the target struct, typically a missing required
	// variable or a malformed value.
	ErrParsingConfig = errors.New("config: failed to parse environment")

	// ErrLoadingEnvFile indicates that an existing dotenv file could not
	// be read.
	ErrLoadingEnvFile = errors.New("config: failed to load env file")
)
