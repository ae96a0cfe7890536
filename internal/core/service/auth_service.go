package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/usermanagement/accounts/internal/core/domain"
	"github.com/usermanagement/accounts/internal/core/ports"
)

// AuthService implements login and session resolution. The cookie value is a
// signed JWT whose ID claim names the server-side session.
type AuthService struct {
	identities ports.IdentityLoader
	hasher     ports.PasswordHasher
	sessions   ports.SessionStore
	secret     []byte
	ttl        time.Duration
	logger     zerolog.Logger
}

func NewAuthService(
	identities ports.IdentityLoader,
	hasher ports.PasswordHasher,
	sessions ports.SessionStore,
	secret string,
	ttl time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &AuthService{
		identities: identities,
		hasher:     hasher,
		sessions:   sessions,
		secret:     []byte(secret),
		ttl:        ttl,
		logger:     logger,
	}
}

// Login checks the credentials against the stored digest and opens a session.
// Unknown usernames and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.AuthPrincipal, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrAuthenticationFailed
	}

	principal, err := s.identities.LoadPrincipal(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownIdentity) {
			return "", nil, domain.ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if !s.hasher.Matches(password, principal.Password) {
		return "", nil, domain.ErrAuthenticationFailed
	}

	sessionID := uuid.NewString()
	caller := domain.Caller{Username: principal.Username, Authorities: principal.Authorities}
	if err := s.sessions.Create(ctx, sessionID, caller, s.ttl); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	token, err := s.signSession(sessionID, principal.Username)
	if err != nil {
		_ = s.sessions.Delete(ctx, sessionID)
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.logger.Info().Str("username", principal.Username).Msg("user logged in")
	return token, principal, nil
}

// Authenticate resolves a session cookie into the caller it belongs to. The
// authorities come from the stored account, not from the session, so role
// changes apply on the next request. A session whose account is gone is ended.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Caller, error) {
	sessionID, err := s.sessionID(token)
	if err != nil {
		return nil, domain.ErrNoActiveSession
	}
	caller, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	principal, err := s.identities.LoadPrincipal(ctx, caller.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownIdentity) {
			_ = s.sessions.Delete(ctx, sessionID)
			s.logger.Info().Str("username", caller.Username).Msg("session ended: account no longer exists")
			return nil, domain.ErrNoActiveSession
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return &domain.Caller{Username: principal.Username, Authorities: principal.Authorities}, nil
}

// Logout ends the session. Unknown or already expired sessions are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sessionID, err := s.sessionID(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) signSession(sessionID, username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) sessionID(token string) (string, error) {
	if token == "" {
		return "", domain.ErrNoActiveSession
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.ID == "" {
		return "", domain.ErrNoActiveSession
	}
	return claims.ID, nil
}
