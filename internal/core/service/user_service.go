package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/usermanagement/accounts/internal/core/domain"
	"github.com/usermanagement/accounts/internal/core/ports"
)

var passwordTooLong = fmt.Sprintf("Password must not exceed %d bytes", domain.MaxPasswordBytes)

// UserService implements ports.UserService.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateUser validates the candidate, hashes its password and stores it.
// Nothing is written when a check fails.
func (s *UserService) CreateUser(ctx context.Context, candidate *domain.User) (*domain.User, error) {
	if err := s.validateNewUser(ctx, candidate); err != nil {
		s.logger.Debug().Err(err).Str("username", candidate.Username).Msg("create user rejected")
		return nil, err
	}

	hash, err := s.hasher.Hash(candidate.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := *candidate
	user.ID = 0
	user.Password = hash
	user.ConfirmPassword = ""
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.repo.Save(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

func (s *UserService) validateNewUser(ctx context.Context, candidate *domain.User) error {
	_, err := s.repo.FindByUsername(ctx, candidate.Username)
	switch {
	case err == nil:
		return domain.NewValidationError("username", "Username not available")
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("create user: lookup username: %w", err)
	}

	if candidate.ConfirmPassword == "" {
		return domain.NewValidationError("confirmPassword", "Confirm Password is required")
	}
	if candidate.Password != candidate.ConfirmPassword {
		return domain.NewValidationError("password", "Password and Confirm Password are not the same")
	}
	if len(candidate.Password) > domain.MaxPasswordBytes {
		return domain.NewValidationError("password", passwordTooLong)
	}
	return nil
}

// UpdateUser copies username, names, email and roles onto the stored record.
// The password and id are never touched here.
func (s *UserService) UpdateUser(ctx context.Context, candidate *domain.User) (*domain.User, error) {
	existing, err := s.repo.FindByID(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}

	existing.Username = candidate.Username
	existing.FirstName = candidate.FirstName
	existing.LastName = candidate.LastName
	existing.Email = candidate.Email
	existing.Roles = append([]domain.Role(nil), candidate.Roles...)
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info().Int64("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// ChangePassword replaces the stored digest. Administrators skip the
// current-password check; every other precondition applies to everyone.
func (s *UserService) ChangePassword(ctx context.Context, caller *domain.Caller, form domain.ChangePasswordForm) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, form.ID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && !s.hasher.Matches(form.CurrentPassword, user.Password) {
		s.logger.Debug().Int64("user_id", user.ID).Msg("password change rejected: current password invalid")
		return nil, domain.ErrInvalidCredentials
	}

	if form.NewPassword == "" {
		return nil, domain.NewValidationError("newPassword", "New Password is required")
	}
	if len(form.NewPassword) > domain.MaxPasswordBytes {
		return nil, domain.NewValidationError("newPassword", passwordTooLong)
	}

	if s.hasher.Matches(form.NewPassword, user.Password) {
		return nil, domain.ErrNoOpPasswordChange
	}

	if form.NewPassword != form.ConfirmPassword {
		return nil, domain.ErrConfirmationMismatch
	}

	hash, err := s.hasher.Hash(form.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("change password: hash password: %w", err)
	}
	user.Password = hash
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}

	by := ""
	if caller != nil {
		by = caller.Username
	}
	s.logger.Info().Int64("user_id", updated.ID).Str("changed_by", by).Msg("password changed")
	return updated, nil
}

// GetLoggedInUser returns the stored record behind the request's caller.
func (s *UserService) GetLoggedInUser(ctx context.Context, caller *domain.Caller) (*domain.User, error) {
	if caller == nil || caller.Username == "" {
		return nil, domain.ErrNoActiveSession
	}
	return s.repo.FindByUsername(ctx, caller.Username)
}
