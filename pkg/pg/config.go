package pg

import "time"

// Config holds PostgreSQL connection settings for the grant store.
type Config struct {
	ConnectionString string        `env:"DATABASE_URL,required"`
	MaxOpenConns     int32         `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MinOpenConns     int32         `env:"DATABASE_MIN_OPEN_CONNS" envDefault:"2"`
	ConnMaxLifetime  time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnectTimeout   time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"30s"`
	RetryInterval    time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"5s"`
	MigrationsDir    string        `env:"DATABASE_MIGRATIONS_DIR" envDefault:"migrations"`
}
