package pg

import "errors"

var (
	// ErrInvalidConnectionString indicates the database URL could not be
	// parsed.
	ErrInvalidConnectionString = errors.New("pg: invalid connection string")

	// ErrConnectionFailed indicates the database did not respond within
	// the connect timeout.
	ErrConnectionFailed = errors.New("pg: connection failed")

	// ErrMigrationFailed indicates that applying schema migrations did
	// not complete.
	ErrMigrationFailed = errors.New("pg: migration failed")
)
