package redis

import "errors"

var (
	// ErrInvalidConnectionURL indicates the Redis URL could not be parsed.
	ErrInvalidConnectionURL = errors.New("redis: invalid connection url")

	// ErrConnectionFailed indicates the server did not respond to a ping
	// within the connect timeout.
	ErrConnectionFailed = errors.New("redis: connection failed")
)
