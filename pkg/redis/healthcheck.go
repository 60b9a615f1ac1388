package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Healthcheck returns a probe function suitable for readiness
// endpoints. A failing probe should take the permission cache out of
// rotation rather than let authorization checks degrade to misses.
func Healthcheck(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
