package ports

import (
	"context"

	"github.com/usermanagement/accounts/internal/core/domain"
)

// UserRepository is the system of record for accounts. Lookups that find
// nothing return domain.ErrUserNotFound.
type UserRepository interface {
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Save inserts the user when ID is zero (assigning a new id) and replaces
	// the stored record otherwise.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, user *domain.User) error
}

// RoleRepository persists roles. FindByName returns domain.ErrRoleNotFound
// when no role has that name.
type RoleRepository interface {
	FindAll(ctx context.Context) ([]domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	Save(ctx context.Context, role *domain.Role) (*domain.Role, error)
}
