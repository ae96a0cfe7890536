package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/usermanagement/accounts/internal/core/domain"
)

func newTestAuthService(users *stubUserRepo, sessions *stubSessionStore) *AuthService {
	return NewAuthService(NewIdentityService(users), testHasher(), sessions, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Login_Success(t *testing.T) {
	users := newStubUserRepo()
	users.seed(&domain.User{Username: "carol", Password: mustHash("s3cret"), Roles: []domain.Role{adminRole}})
	sessions := newStubSessionStore()
	svc := newTestAuthService(users, sessions)

	token, principal, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if principal.Username != "carol" {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != "carol" {
		t.Fatalf("expected subject carol, got %q", claims.Subject)
	}

	stored, ok := sessions.sessions[claims.ID]
	if !ok {
		t.Fatalf("session %q not stored", claims.ID)
	}
	if !stored.IsAdmin() {
		t.Fatalf("session lost authorities: %+v", stored)
	}
	if sessions.ttls[claims.ID] != time.Hour {
		t.Fatalf("unexpected ttl %v", sessions.ttls[claims.ID])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	users := newStubUserRepo()
	users.seed(&domain.User{Username: "dave", Password: mustHash("goodpass")})
	sessions := newStubSessionStore()
	svc := newTestAuthService(users, sessions)

	if _, _, err := svc.Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatalf("no session must be opened")
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubSessionStore())

	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for empty input, got %v", err)
	}
}

func TestAuthService_Login_SessionStoreFailure(t *testing.T) {
	users := newStubUserRepo()
	users.seed(&domain.User{Username: "erin", Password: mustHash("pw")})
	sessions := newStubSessionStore()
	sessions.createErr = errBoom
	svc := newTestAuthService(users, sessions)

	if _, _, err := svc.Login(context.Background(), "erin", "pw"); !errors.Is(err, errBoom) {
		t.Fatalf("expected session store error, got %v", err)
	}
}

func TestAuthService_AuthenticateAndLogout(t *testing.T) {
	users := newStubUserRepo()
	users.seed(&domain.User{Username: "frank", Password: mustHash("pw"), Roles: []domain.Role{userRole}})
	sessions := newStubSessionStore()
	svc := newTestAuthService(users, sessions)

	token, _, err := svc.Login(context.Background(), "frank", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	caller, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if caller.Username != "frank" || caller.IsAdmin() {
		t.Fatalf("unexpected caller %+v", caller)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession after logout, got %v", err)
	}
	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("second logout must be a no-op, got %v", err)
	}
}

func TestAuthService_Authenticate_ReflectsCurrentRoles(t *testing.T) {
	users := newStubUserRepo()
	seeded := users.seed(&domain.User{Username: "grace", Password: mustHash("pw"), Roles: []domain.Role{adminRole}})
	sessions := newStubSessionStore()
	svc := newTestAuthService(users, sessions)

	token, _, err := svc.Login(context.Background(), "grace", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	users.users[seeded.ID].Roles = []domain.Role{userRole}

	caller, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if caller.IsAdmin() || !caller.HasAuthority(domain.AuthorityUser) {
		t.Fatalf("revoked authority still active: %+v", caller)
	}
}

func TestAuthService_Authenticate_DeletedAccount(t *testing.T) {
	users := newStubUserRepo()
	seeded := users.seed(&domain.User{Username: "heidi", Password: mustHash("pw"), Roles: []domain.Role{adminRole}})
	sessions := newStubSessionStore()
	svc := newTestAuthService(users, sessions)

	token, _, err := svc.Login(context.Background(), "heidi", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	delete(users.users, seeded.ID)

	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatalf("session of a deleted account must be ended")
	}
}

func TestAuthService_Authenticate_LookupFailure(t *testing.T) {
	users := newStubUserRepo()
	users.seed(&domain.User{Username: "ivan", Password: mustHash("pw")})
	sessions := newStubSessionStore()
	svc := newTestAuthService(users, sessions)

	token, _, err := svc.Login(context.Background(), "ivan", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	users.findErr = errBoom

	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, errBoom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	if len(sessions.sessions) != 1 {
		t.Fatalf("a storage failure must not end the session")
	}
}

func TestAuthService_Authenticate_RejectsForeignTokens(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubSessionStore())

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: "abc"}).SignedString([]byte("other"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for _, token := range []string{"", "not-a-token", forged} {
		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrNoActiveSession) {
			t.Fatalf("token %q: expected ErrNoActiveSession, got %v", token, err)
		}
	}
}
