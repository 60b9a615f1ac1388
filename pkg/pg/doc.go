// Package pg provides connection bootstrap, schema migration, and
// health probing for the PostgreSQL database backing the grant store
// (rbac.PGGrantStore).
//
// Typical startup sequence:
//
//	cfg := config.MustLoad[pg.Config]()
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrationsFS); err != nil {
//		log.Fatal(err)
//	}
//
//	store := rbac.NewPGGrantStore(pool)
//
// Migrations are plain goose SQL files; the module's own schema lives
// in the migrations/ directory at the repository root.
package pg
