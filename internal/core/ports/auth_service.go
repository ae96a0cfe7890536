package ports

import (
	"context"

	"github.com/usermanagement/accounts/internal/core/domain"
)

// IdentityLoader resolves a username into the principal used at login.
type IdentityLoader interface {
	LoadPrincipal(ctx context.Context, username string) (*domain.AuthPrincipal, error)
}

// AuthService handles login sessions. Tokens are signed session cookies; the
// session record in the SessionStore is authoritative.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.AuthPrincipal, error)
	Authenticate(ctx context.Context, token string) (*domain.Caller, error)
	Logout(ctx context.Context, token string) error
}
