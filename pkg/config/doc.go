// Package config loads typed configuration structs from environment
// variables.
//
// Each package in the module declares its own Config struct with `env`
// tags (see tokens.Config, pg.Config, redis.Config); applications
// compose them and load everything at startup:
//
//	type appConfig struct {
//		Tokens tokens.Config
//		DB     pg.Config
//		Redis  redis.Config
//	}
//
//	func main() {
//		_ = config.LoadEnv(".env")
//		cfg := config.MustLoad[appConfig]()
//		...
//	}
//
// LoadEnv is optional sugar for local development; in production the
// environment is expected to be set by the orchestrator.
package config
