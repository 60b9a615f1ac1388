// Package redis provides connection bootstrap and health probing for
// the Redis backends used by the module: the shared permission cache
// (permcache.RedisStore) and the token revocation registry
// (tokens.RedisRevocationStore).
//
// Connect blocks until the server answers a ping or the configured
// timeout elapses, so applications fail fast at startup instead of
// serving permission checks against an unreachable cache:
//
//	cfg := config.MustLoad[redis.Config]()
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	cache := permcache.New(permcache.NewRedisStore(client), resolver, store)
//	registry := tokens.NewRedisRevocationStore(client)
//
// Both stores treat backend failures as unavailability and their
// callers deny access on error, so a single *redis.Client can safely
// back both concerns.
package redis
