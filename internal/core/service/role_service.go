package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/usermanagement/accounts/internal/core/domain"
	"github.com/usermanagement/accounts/internal/core/ports"
)

type RoleService struct {
	repo   ports.RoleRepository
	logger zerolog.Logger
}

func NewRoleService(repo ports.RoleRepository, logger zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, logger: logger}
}

func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.repo.FindAll(ctx)
}

// ResolveRoles looks up every name. Duplicate names resolve once.
func (s *RoleService) ResolveRoles(ctx context.Context, names []string) ([]domain.Role, error) {
	seen := make(map[string]struct{}, len(names))
	roles := make([]domain.Role, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		role, err := s.repo.FindByName(ctx, name)
		if err != nil {
			if errors.Is(err, domain.ErrRoleNotFound) {
				return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
			}
			return nil, fmt.Errorf("resolve roles: %w", err)
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

// EnsureDefaults creates any of domain.DefaultRoles that do not exist yet.
func (s *RoleService) EnsureDefaults(ctx context.Context) error {
	for _, def := range domain.DefaultRoles {
		_, err := s.repo.FindByName(ctx, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRoleNotFound) {
			return fmt.Errorf("ensure default roles: %w", err)
		}

		role := def
		created, err := s.repo.Save(ctx, &role)
		if err != nil {
			return fmt.Errorf("ensure default roles: save %s: %w", def.Name, err)
		}
		s.logger.Info().Int64("role_id", created.ID).Str("role", created.Name).Msg("default role created")
	}
	return nil
}
