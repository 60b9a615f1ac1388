package authz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/credentials"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/permcache"
	"github.com/dmitrymomot/authkit/pkg/rbac"
	"github.com/dmitrymomot/authkit/pkg/tokens"
)

// UserSource looks up user records for authentication. Satisfied by
// *rbac.MemoryGrantStore and *rbac.PGGrantStore.
type UserSource interface {
	GetUser(ctx context.Context, userID uuid.UUID) (rbac.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (rbac.User, error)
}

// Dependencies are the collaborators a Service composes. All fields are
// required.
type Dependencies struct {
	Tokens *tokens.Service
	Cache  *permcache.Cache
	Users  UserSource
	Hasher *credentials.Hasher
}

// Service is the facade the transport layer consumes: session lifecycle on
// one side, request-time authorization on the other, and the cache
// invalidation hooks grant mutations must call.
type Service struct {
	tokens      *tokens.Service
	cache       *permcache.Cache
	gate        *Gate
	users       UserSource
	hasher      *credentials.Hasher
	warmOnLogin bool
	log         *slog.Logger
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

// WithoutLoginWarmup disables the login-time permission cache warm-up.
func WithoutLoginWarmup() ServiceOption {
	return func(s *Service) {
		s.warmOnLogin = false
	}
}

// NewService wires the facade.
func NewService(deps Dependencies, opts ...ServiceOption) (*Service, error) {
	if deps.Tokens == nil || deps.Cache == nil || deps.Users == nil || deps.Hasher == nil {
		return nil, errors.New("authz: all dependencies are required")
	}

	s := &Service{
		tokens:      deps.Tokens,
		cache:       deps.Cache,
		gate:        NewGate(deps.Cache),
		users:       deps.Users,
		hasher:      deps.Hasher,
		warmOnLogin: true,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Authorize verifies the bearer token and checks the required permission.
// On success it returns the authenticated user id; the id is also returned
// alongside ErrPermissionDenied so callers can log who was denied.
func (s *Service) Authorize(ctx context.Context, tokenString, permission string) (uuid.UUID, error) {
	claims, err := s.tokens.Verify(ctx, tokenString, tokens.KindAccess)
	if err != nil {
		return uuid.Nil, errors.Join(ErrUnauthenticated, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.Join(ErrUnauthenticated, err)
	}

	if err := s.gate.Authorize(ctx, userID, permission); err != nil {
		return userID, err
	}
	return userID, nil
}

// Login authenticates by identifier and password and issues a token pair.
// Unknown identifiers, wrong passwords, and deactivated users all collapse
// into the same invalid-credentials failure. A grant-store outage is
// reported as-is: it is a retryable service error, not a rejection.
func (s *Service) Login(ctx context.Context, identifier, password string) (tokens.Pair, error) {
	user, err := s.users.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, rbac.ErrUserNotFound) {
			return tokens.Pair{}, errors.Join(ErrUnauthenticated, ErrInvalidCredentials)
		}
		return tokens.Pair{}, fmt.Errorf("login lookup: %w", err)
	}

	if !user.Active {
		return tokens.Pair{}, errors.Join(ErrUnauthenticated, ErrInvalidCredentials)
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, credentials.ErrPasswordMismatch) {
			return tokens.Pair{}, errors.Join(ErrUnauthenticated, ErrInvalidCredentials)
		}
		return tokens.Pair{}, fmt.Errorf("login verify: %w", err)
	}

	pair, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return tokens.Pair{}, fmt.Errorf("login issue: %w", err)
	}

	// Warm-up is a convenience for the first authorized request; a failure
	// here must not fail an otherwise valid login.
	if s.warmOnLogin {
		if err := s.cache.Warm(ctx, user.ID); err != nil {
			s.log.WarnContext(ctx, "login cache warm-up failed",
				logger.UserID(user.ID),
				logger.Error(err),
				logger.Component("authz"),
			)
		}
	}

	return pair, nil
}

// Logout revokes the presented access token. With allDevices it instead
// sets the user's revocation watermark, invalidating every outstanding
// token at once.
func (s *Service) Logout(ctx context.Context, tokenString string, allDevices bool) error {
	claims, err := s.tokens.Verify(ctx, tokenString, tokens.KindAccess)
	if err != nil {
		return errors.Join(ErrUnauthenticated, err)
	}

	if allDevices {
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return errors.Join(ErrUnauthenticated, err)
		}
		return s.tokens.RevokeAllForUser(ctx, userID)
	}
	return s.tokens.Revoke(ctx, tokenString)
}

// RefreshSession rotates a refresh token into a fresh pair. The user must
// still exist and be active; a deactivated account cannot keep a session
// alive through refresh.
func (s *Service) RefreshSession(ctx context.Context, refreshToken string) (tokens.Pair, error) {
	claims, err := s.tokens.Verify(ctx, refreshToken, tokens.KindRefresh)
	if err != nil {
		return tokens.Pair{}, errors.Join(ErrUnauthenticated, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return tokens.Pair{}, errors.Join(ErrUnauthenticated, err)
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, rbac.ErrUserNotFound) {
			return tokens.Pair{}, errors.Join(ErrUnauthenticated, err)
		}
		return tokens.Pair{}, fmt.Errorf("refresh lookup: %w", err)
	}
	if !user.Active {
		return tokens.Pair{}, errors.Join(ErrUnauthenticated, ErrInvalidCredentials)
	}

	pair, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		return tokens.Pair{}, errors.Join(ErrUnauthenticated, err)
	}
	return pair, nil
}

// OnRoleGrantChanged must be called after granting or revoking a role for
// a user, before the mutating call reports success.
func (s *Service) OnRoleGrantChanged(ctx context.Context, userID uuid.UUID) error {
	return s.cache.InvalidateUser(ctx, userID)
}

// OnRoleDefinitionChanged must be called after a role's permission set or
// status changes; it cascades to every user holding the role.
func (s *Service) OnRoleDefinitionChanged(ctx context.Context, roleID uuid.UUID) error {
	return s.cache.InvalidateRole(ctx, roleID)
}

// OnDirectGrantChanged must be called after granting or revoking a direct
// permission for a user.
func (s *Service) OnDirectGrantChanged(ctx context.Context, userID uuid.UUID) error {
	return s.cache.InvalidateUser(ctx, userID)
}
