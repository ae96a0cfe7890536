package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/usermanagement/accounts/internal/core/domain"
	"github.com/usermanagement/accounts/internal/core/ports"
)

// IdentityService turns a stored user into the principal checked at login.
// It never verifies credentials itself.
type IdentityService struct {
	repo ports.UserRepository
}

func NewIdentityService(repo ports.UserRepository) *IdentityService {
	return &IdentityService{repo: repo}
}

func (s *IdentityService) LoadPrincipal(ctx context.Context, username string) (*domain.AuthPrincipal, error) {
	if username == "" {
		return nil, domain.ErrUnknownIdentity
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownIdentity
		}
		return nil, fmt.Errorf("load principal: %w", err)
	}

	return &domain.AuthPrincipal{
		Username:    user.Username,
		Password:    user.Password,
		Authorities: user.Authorities(),
	}, nil
}
