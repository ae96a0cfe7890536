package ports

import (
	"context"

	"github.com/usermanagement/accounts/internal/core/domain"
)

// UserService owns the account lifecycle.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, candidate *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, candidate *domain.User) (*domain.User, error)
	// DeleteUser must only be reachable by callers holding
	// domain.AuthorityAdmin; the transport layer enforces it.
	DeleteUser(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, caller *domain.Caller, form domain.ChangePasswordForm) (*domain.User, error)
	GetLoggedInUser(ctx context.Context, caller *domain.Caller) (*domain.User, error)
}

// RoleService exposes the role catalogue.
type RoleService interface {
	ListRoles(ctx context.Context) ([]domain.Role, error)
	ResolveRoles(ctx context.Context, names []string) ([]domain.Role, error)
	EnsureDefaults(ctx context.Context) error
}
