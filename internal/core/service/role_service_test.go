package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/usermanagement/accounts/internal/core/domain"
)

func TestRoleService_EnsureDefaults_Idempotent(t *testing.T) {
	repo := newStubRoleRepo()
	svc := NewRoleService(repo, zerolog.Nop())

	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}
	if err := svc.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("EnsureDefaults (second run): %v", err)
	}
	if repo.saved != len(domain.DefaultRoles) {
		t.Fatalf("expected %d saves, got %d", len(domain.DefaultRoles), repo.saved)
	}

	roles, _ := svc.ListRoles(context.Background())
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %+v", roles)
	}
}

func TestRoleService_EnsureDefaults_RepoFailure(t *testing.T) {
	repo := newStubRoleRepo()
	repo.errFor[domain.RoleNameAdmin] = errBoom
	svc := NewRoleService(repo, zerolog.Nop())

	if err := svc.EnsureDefaults(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestRoleService_ResolveRoles(t *testing.T) {
	repo := newStubRoleRepo(adminRole, userRole)
	svc := NewRoleService(repo, zerolog.Nop())

	roles, err := svc.ResolveRoles(context.Background(), []string{"USER", "ADMIN", "USER"})
	if err != nil {
		t.Fatalf("ResolveRoles: %v", err)
	}
	if len(roles) != 2 || roles[0].ID != userRole.ID || roles[1].ID != adminRole.ID {
		t.Fatalf("unexpected roles %+v", roles)
	}

	if _, err := svc.ResolveRoles(context.Background(), []string{"GHOST"}); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}
