package tokens

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	blockKeyPrefix     = "auth:blocked:"
	watermarkKeyPrefix = "auth:watermark:"
)

// RedisRevocationStore is a RevocationStore backed by an expiring redis
// key-value store, shared by every process verifying tokens.
type RedisRevocationStore struct {
	client redis.UniversalClient
}

// NewRedisRevocationStore creates a registry using the given client.
func NewRedisRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

// Revoke implements RevocationStore.
func (r *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, blockKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke %s: %w", jti, errors.Join(ErrRegistryUnavailable, err))
	}
	return nil
}

// IsRevoked implements RevocationStore.
func (r *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, blockKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check %s: %w", jti, errors.Join(ErrRegistryUnavailable, err))
	}
	return n > 0, nil
}

// SetWatermark implements RevocationStore.
func (r *RedisRevocationStore) SetWatermark(ctx context.Context, userID uuid.UUID, cutoff time.Time, ttl time.Duration) error {
	value := strconv.FormatInt(cutoff.Unix(), 10)
	if err := r.client.Set(ctx, watermarkKeyPrefix+userID.String(), value, ttl).Err(); err != nil {
		return fmt.Errorf("set watermark for %s: %w", userID, errors.Join(ErrRegistryUnavailable, err))
	}
	return nil
}

// Watermark implements RevocationStore.
func (r *RedisRevocationStore) Watermark(ctx context.Context, userID uuid.UUID) (time.Time, bool, error) {
	value, err := r.client.Get(ctx, watermarkKeyPrefix+userID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("get watermark for %s: %w", userID, errors.Join(ErrRegistryUnavailable, err))
	}

	unix, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		// An unreadable watermark means revocation state exists but cannot
		// be confirmed. Reporting "no watermark" here would re-validate
		// every mass-revoked token, so surface it as a registry failure
		// and let verification deny.
		return time.Time{}, false, fmt.Errorf("parse watermark for %s: %w", userID, errors.Join(ErrRegistryUnavailable, err))
	}
	return time.Unix(unix, 0), true, nil
}
