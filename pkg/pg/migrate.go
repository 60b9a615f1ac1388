package pg

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies pending goose SQL migrations from fsys against the
// pool's database. The module ships its auth schema under migrations/;
// applications embed that directory (or their own superset) and run
// Migrate at startup before serving requests.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, opts ...MigrateOption) error {
	options := migrateOptions{
		dir: ".",
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&options)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		// The pool stays open; only the database/sql wrapper is released.
		_ = db.Close()
	}()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	if err := goose.UpContext(ctx, db, options.dir); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	options.log.InfoContext(ctx, "migrations applied", slog.Int64("db_version", version))
	return nil
}

type migrateOptions struct {
	dir string
	log *slog.Logger
}

// MigrateOption customizes Migrate behavior.
type MigrateOption func(*migrateOptions)

// WithMigrationsDir sets the directory inside fsys holding the SQL
// files. Defaults to the fsys root.
func WithMigrationsDir(dir string) MigrateOption {
	return func(o *migrateOptions) {
		if dir != "" {
			o.dir = dir
		}
	}
}

// WithMigrateLogger logs the applied database version.
func WithMigrateLogger(log *slog.Logger) MigrateOption {
	return func(o *migrateOptions) {
		if log != nil {
			o.log = log
		}
	}
}
