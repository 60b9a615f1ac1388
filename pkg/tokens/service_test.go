package tokens_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/tokens"
)

const testSigningKey = "test-signing-key-thats-long-enough"

func newTestService(t *testing.T, now *time.Time, opts ...tokens.ServiceOption) *tokens.Service {
	t.Helper()
	cfg := tokens.Config{
		SigningKey: testSigningKey,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	all := append([]tokens.ServiceOption{tokens.WithClock(func() time.Time { return *now })}, opts...)
	svc, err := tokens.NewService(cfg, tokens.NewMemoryRevocationStore(), all...)
	require.NoError(t, err)
	return svc
}

func TestService_IssueVerifyRoundTrip(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	svc := newTestService(t, &now)
	userID := uuid.New()

	pair, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.EqualValues(t, 900, pair.ExpiresIn)

	claims, err := svc.Verify(ctx, pair.AccessToken, tokens.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, tokens.KindAccess, claims.Kind)
	assert.NotEmpty(t, claims.ID)

	refreshClaims, err := svc.Verify(ctx, pair.RefreshToken, tokens.KindRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, refreshClaims.ID, "each token carries its own jti")
}

func TestService_VerifyFailures(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	svc := newTestService(t, &now)
	userID := uuid.New()

	pair, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	t.Run("expired after access ttl", func(t *testing.T) {
		issuedAt := now
		now = issuedAt.Add(16 * time.Minute)
		defer func() { now = issuedAt }()

		_, err := svc.Verify(ctx, pair.AccessToken, tokens.KindAccess)
		assert.ErrorIs(t, err, tokens.ErrExpiredToken)
	})

	t.Run("kind mismatch is malformed", func(t *testing.T) {
		_, err := svc.Verify(ctx, pair.RefreshToken, tokens.KindAccess)
		assert.ErrorIs(t, err, tokens.ErrMalformedToken)
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		parts := strings.Split(pair.AccessToken, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "x." + parts[2]

		_, err := svc.Verify(ctx, tampered, tokens.KindAccess)
		assert.ErrorIs(t, err, tokens.ErrMalformedToken)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := svc.Verify(ctx, "not-a-token", tokens.KindAccess)
		assert.ErrorIs(t, err, tokens.ErrMalformedToken)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		other, err := tokens.NewService(tokens.Config{SigningKey: "a-completely-different-signing-key"},
			tokens.NewMemoryRevocationStore())
		require.NoError(t, err)

		_, err = other.Verify(ctx, pair.AccessToken, tokens.KindAccess)
		assert.ErrorIs(t, err, tokens.ErrMalformedToken)
	})
}

func TestService_RevokeSingleToken(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	svc := newTestService(t, &now)

	pair, err := svc.Issue(ctx, uuid.New())
	require.NoError(t, err)

	_, err = svc.Verify(ctx, pair.AccessToken, tokens.KindAccess)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, pair.AccessToken))

	_, err = svc.Verify(ctx, pair.AccessToken, tokens.KindAccess)
	assert.ErrorIs(t, err, tokens.ErrRevokedToken)

	// The refresh token carries a different jti and stays valid.
	_, err = svc.Verify(ctx, pair.RefreshToken, tokens.KindRefresh)
	assert.NoError(t, err)
}

func TestService_RefreshRotation(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	svc := newTestService(t, &now)
	userID := uuid.New()

	pair, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	claims, err := svc.Verify(ctx, fresh.AccessToken, tokens.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)

	// Rotation makes the old refresh token single-use.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, tokens.ErrRevokedToken)

	// An access token is never accepted by Refresh.
	_, err = svc.Refresh(ctx, fresh.AccessToken)
	assert.ErrorIs(t, err, tokens.ErrMalformedToken)
}

func TestService_RevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	svc := newTestService(t, &now)
	userID := uuid.New()

	// Token issued one second before the watermark.
	now = now.Add(-time.Second)
	before, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	now = now.Add(time.Second)

	require.NoError(t, svc.RevokeAllForUser(ctx, userID))

	_, err = svc.Verify(ctx, before.AccessToken, tokens.KindAccess)
	assert.ErrorIs(t, err, tokens.ErrRevokedToken)
	_, err = svc.Verify(ctx, before.RefreshToken, tokens.KindRefresh)
	assert.ErrorIs(t, err, tokens.ErrRevokedToken)

	// A fresh login after the watermark verifies normally.
	now = now.Add(time.Second)
	after, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, after.AccessToken, tokens.KindAccess)
	assert.NoError(t, err)

	// Other users are untouched.
	otherID := uuid.New()
	other, err := svc.Issue(ctx, otherID)
	require.NoError(t, err)
	_, err = svc.Verify(ctx, other.AccessToken, tokens.KindAccess)
	assert.NoError(t, err)
}

// failingRegistry simulates a revocation registry outage.
type failingRegistry struct{}

func (failingRegistry) Revoke(context.Context, string, time.Duration) error {
	return tokens.ErrRegistryUnavailable
}

func (failingRegistry) IsRevoked(context.Context, string) (bool, error) {
	return false, tokens.ErrRegistryUnavailable
}

func (failingRegistry) SetWatermark(context.Context, uuid.UUID, time.Time, time.Duration) error {
	return tokens.ErrRegistryUnavailable
}

func (failingRegistry) Watermark(context.Context, uuid.UUID) (time.Time, bool, error) {
	return time.Time{}, false, tokens.ErrRegistryUnavailable
}

func TestService_RegistryOutageFailsClosed(t *testing.T) {
	ctx := context.Background()
	cfg := tokens.Config{SigningKey: testSigningKey}
	svc, err := tokens.NewService(cfg, failingRegistry{})
	require.NoError(t, err)

	pair, err := svc.Issue(ctx, uuid.New())
	require.NoError(t, err, "issuance does not consult the registry")

	_, err = svc.Verify(ctx, pair.AccessToken, tokens.KindAccess)
	assert.ErrorIs(t, err, tokens.ErrRegistryUnavailable,
		"an unreachable registry must not verify as non-revoked")
}

func TestNewService_RequiresSigningKey(t *testing.T) {
	_, err := tokens.NewService(tokens.Config{}, tokens.NewMemoryRevocationStore())
	assert.ErrorIs(t, err, tokens.ErrMissingSigningKey)
}
