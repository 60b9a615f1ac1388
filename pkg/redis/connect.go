package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect establishes a Redis connection and verifies it with a ping,
// retrying on the configured interval until the connect timeout
// elapses. Retrying here covers the common case of the cache starting
// alongside the application in the same deployment.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidConnectionURL, err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = time.Second
	}

	for {
		pingErr := client.Ping(ctx).Err()
		if pingErr == nil {
			return client, nil
		}

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, errors.Join(ErrConnectionFailed, pingErr, ctx.Err())
		case <-time.After(interval):
		}
	}
}
