package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Pair is an issued access/refresh token pair. ExpiresIn is the access
// token's lifetime in seconds, for the login response.
type Pair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Service issues, verifies, refreshes, and revokes tokens.
type Service struct {
	signer     *signer
	registry   RevocationStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock overrides the clock, for expiry and watermark tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a token service from the given config and registry.
func NewService(cfg Config, registry RevocationStore, opts ...ServiceOption) (*Service, error) {
	sig, err := newSigner([]byte(cfg.SigningKey))
	if err != nil {
		return nil, err
	}

	s := &Service{
		signer:     sig,
		registry:   registry,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = 15 * time.Minute
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = 168 * time.Hour
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a fresh access/refresh pair for the user. Each token gets
// its own jti so they can be revoked independently.
func (s *Service) Issue(ctx context.Context, userID uuid.UUID) (Pair, error) {
	now := s.now()

	accessToken, err := s.signToken(userID, KindAccess, now, s.accessTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.signToken(userID, KindRefresh, now, s.refreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return Pair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Verify checks the token's signature, kind, expiry, and revocation status,
// in that order, and returns its claims. Revocation covers both the jti
// blocklist and the user's watermark. A registry outage is an error, not a
// pass: revocation must stay enforceable.
func (s *Service) Verify(ctx context.Context, tokenString string, kind Kind) (Claims, error) {
	claims, err := s.signer.Parse(tokenString)
	if err != nil {
		return Claims{}, err
	}
	if claims.Kind != kind {
		return Claims{}, ErrMalformedToken
	}

	now := s.now()
	if claims.Expired(now) {
		return Claims{}, ErrExpiredToken
	}

	revoked, err := s.registry.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Claims{}, err
	}
	if revoked {
		return Claims{}, ErrRevokedToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Claims{}, errors.Join(ErrMalformedToken, err)
	}
	cutoff, ok, err := s.registry.Watermark(ctx, userID)
	if err != nil {
		return Claims{}, err
	}
	if ok && claims.IssuedAt < cutoff.Unix() {
		return Claims{}, ErrRevokedToken
	}

	return claims, nil
}

// Refresh rotates a refresh token: the old token is verified, its jti is
// revoked for its remaining validity, and a fresh pair is issued. The old
// refresh token is single-use; replaying it yields ErrRevokedToken.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Pair, error) {
	claims, err := s.Verify(ctx, refreshToken, KindRefresh)
	if err != nil {
		return Pair{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Pair{}, errors.Join(ErrMalformedToken, err)
	}

	if err := s.registry.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return Pair{}, err
	}

	return s.Issue(ctx, userID)
}

// Revoke blocklists a single token for its remaining validity. An already
// expired token needs no registry entry; malformed input is reported.
func (s *Service) Revoke(ctx context.Context, tokenString string) error {
	claims, err := s.signer.Parse(tokenString)
	if err != nil {
		return err
	}

	remaining := claims.Remaining(s.now())
	if remaining == 0 {
		return nil
	}
	return s.registry.Revoke(ctx, claims.ID, remaining)
}

// RevokeAllForUser revokes every outstanding token of the user by setting
// the revocation watermark to now. Tokens issued at or after the watermark
// (a later fresh login) verify normally. The watermark entry lives as long
// as the longest-lived token could.
func (s *Service) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.registry.SetWatermark(ctx, userID, s.now(), s.refreshTTL)
}

func (s *Service) signToken(userID uuid.UUID, kind Kind, now time.Time, ttl time.Duration) (string, error) {
	return s.signer.Sign(Claims{
		ID:        uuid.NewString(),
		Subject:   userID.String(),
		Kind:      kind,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	})
}
