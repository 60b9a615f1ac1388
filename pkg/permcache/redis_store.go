package permcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authkit/pkg/rbac"
)

// keyPrefix namespaces permission entries so DeleteAll cannot touch
// unrelated keys sharing the redis database.
const keyPrefix = "perm:user:"

// RedisStore is a Store backed by an expiring redis key-value store, for
// deployments where multiple processes share one permission cache.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a redis-backed store using the given client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

// Get implements Store. A corrupt entry is deleted and reported as a miss
// so the caller re-resolves instead of failing.
func (r *RedisStore) Get(ctx context.Context, userID uuid.UUID) (rbac.PermissionSet, bool, error) {
	data, err := r.client.Get(ctx, redisKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", userID, errors.Join(ErrCacheUnavailable, err))
	}

	var set rbac.PermissionSet
	if err := json.Unmarshal(data, &set); err != nil {
		_ = r.client.Del(ctx, redisKey(userID)).Err()
		return nil, false, nil
	}
	return set, true, nil
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, userID uuid.UUID, set rbac.PermissionSet, ttl time.Duration) error {
	data, err := json.Marshal(set)
	if err != nil {
		return errors.Join(ErrEncoding, err)
	}
	if err := r.client.Set(ctx, redisKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", userID, errors.Join(ErrCacheUnavailable, err))
	}
	return nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, redisKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", userID, errors.Join(ErrCacheUnavailable, err))
	}
	return nil
}

// DeleteAll implements Store. Uses SCAN rather than KEYS so the sweep does
// not block the redis server on large databases.
func (r *RedisStore) DeleteAll(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete %s: %w", iter.Val(), errors.Join(ErrCacheUnavailable, err))
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}
