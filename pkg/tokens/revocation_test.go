package tokens_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/tokens"
)

func TestMemoryRevocationStore(t *testing.T) {
	ctx := context.Background()

	t.Run("revocation expires with the token", func(t *testing.T) {
		store := tokens.NewMemoryRevocationStore()

		require.NoError(t, store.Revoke(ctx, "jti-1", 20*time.Millisecond))
		revoked, err := store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		time.Sleep(40 * time.Millisecond)
		revoked, err = store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("zero ttl is a no-op", func(t *testing.T) {
		store := tokens.NewMemoryRevocationStore()
		require.NoError(t, store.Revoke(ctx, "jti-2", 0))
		revoked, err := store.IsRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("watermark round trip", func(t *testing.T) {
		store := tokens.NewMemoryRevocationStore()
		userID := uuid.New()

		_, ok, err := store.Watermark(ctx, userID)
		require.NoError(t, err)
		assert.False(t, ok)

		cutoff := time.Now().Truncate(time.Second)
		require.NoError(t, store.SetWatermark(ctx, userID, cutoff, time.Minute))

		got, ok, err := store.Watermark(ctx, userID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.Equal(cutoff))
	})

	t.Run("watermark set during lazy cleanup survives", func(t *testing.T) {
		store := tokens.NewMemoryRevocationStore()
		userID := uuid.New()
		cutoff := time.Now().Truncate(time.Second)

		// Reads of an expired entry trigger its lazy deletion; a fresh
		// watermark landing concurrently must never be deleted with it,
		// because that would undo a mass revocation. Repeat to give the
		// interleaving a chance to occur.
		for range 500 {
			require.NoError(t, store.SetWatermark(ctx, userID, cutoff, -time.Second))

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _, _ = store.Watermark(ctx, userID)
			}()
			go func() {
				defer wg.Done()
				_ = store.SetWatermark(ctx, userID, cutoff, time.Hour)
			}()
			wg.Wait()

			got, ok, err := store.Watermark(ctx, userID)
			require.NoError(t, err)
			require.True(t, ok, "concurrently recorded watermark was dropped by lazy cleanup")
			require.True(t, got.Equal(cutoff))
		}
	})

	t.Run("revocation recorded during lazy cleanup survives", func(t *testing.T) {
		store := tokens.NewMemoryRevocationStore()

		for range 500 {
			require.NoError(t, store.Revoke(ctx, "jti-race", time.Nanosecond))

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _ = store.IsRevoked(ctx, "jti-race")
			}()
			go func() {
				defer wg.Done()
				_ = store.Revoke(ctx, "jti-race", time.Hour)
			}()
			wg.Wait()

			revoked, err := store.IsRevoked(ctx, "jti-race")
			require.NoError(t, err)
			require.True(t, revoked, "concurrently recorded revocation was dropped by lazy cleanup")

			// Reset for the next round.
			store.Cleanup(time.Now().Add(2 * time.Hour))
		}
	})

	t.Run("cleanup sweeps expired entries", func(t *testing.T) {
		store := tokens.NewMemoryRevocationStore()
		require.NoError(t, store.Revoke(ctx, "jti-3", time.Millisecond))
		require.NoError(t, store.Revoke(ctx, "jti-4", time.Hour))
		require.NoError(t, store.SetWatermark(ctx, uuid.New(), time.Now(), time.Millisecond))

		time.Sleep(10 * time.Millisecond)
		removed := store.Cleanup(time.Now())
		assert.Equal(t, 2, removed)
	})
}

func TestRedisRevocationStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := tokens.NewRedisRevocationStore(client)

	t.Run("revocation expires with the token", func(t *testing.T) {
		require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
		revoked, err := store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		mr.FastForward(2 * time.Minute)
		revoked, err = store.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("watermark round trip", func(t *testing.T) {
		userID := uuid.New()
		cutoff := time.Now().Truncate(time.Second)
		require.NoError(t, store.SetWatermark(ctx, userID, cutoff, time.Hour))

		got, ok, err := store.Watermark(ctx, userID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.Equal(cutoff))
	})

	t.Run("corrupt watermark fails closed", func(t *testing.T) {
		userID := uuid.New()
		key := "auth:watermark:" + userID.String()
		require.NoError(t, mr.Set(key, "not-a-timestamp"))

		_, _, err := store.Watermark(ctx, userID)
		require.Error(t, err)
		assert.ErrorIs(t, err, tokens.ErrRegistryUnavailable)

		// The record stays in place for operators to inspect; deleting it
		// would re-validate every token the watermark had revoked.
		assert.True(t, mr.Exists(key))
	})

	t.Run("outage surfaces as registry unavailable", func(t *testing.T) {
		deadMR := miniredis.RunT(t)
		deadClient := redis.NewClient(&redis.Options{Addr: deadMR.Addr()})
		t.Cleanup(func() { _ = deadClient.Close() })
		deadStore := tokens.NewRedisRevocationStore(deadClient)
		deadMR.Close()

		_, err := deadStore.IsRevoked(ctx, "jti-x")
		assert.ErrorIs(t, err, tokens.ErrRegistryUnavailable)
	})
}

func TestService_VerifyDeniesOnCorruptWatermark(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc, err := tokens.NewService(tokens.Config{
		SigningKey: "test-signing-key-thats-long-enough",
	}, tokens.NewRedisRevocationStore(client))
	require.NoError(t, err)

	userID := uuid.New()
	pair, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, pair.AccessToken, tokens.KindAccess)
	require.NoError(t, err)

	require.NoError(t, mr.Set("auth:watermark:"+userID.String(), "garbage"))

	_, err = svc.Verify(ctx, pair.AccessToken, tokens.KindAccess)
	require.Error(t, err, "unconfirmable revocation state must deny, not allow")
	assert.ErrorIs(t, err, tokens.ErrRegistryUnavailable)
}
