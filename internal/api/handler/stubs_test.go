package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/usermanagement/accounts/internal/core/domain"
)

type stubUserService struct {
	listFn           func(ctx context.Context) ([]*domain.User, error)
	getFn            func(ctx context.Context, id int64) (*domain.User, error)
	createFn         func(ctx context.Context, u *domain.User) (*domain.User, error)
	updateFn         func(ctx context.Context, u *domain.User) (*domain.User, error)
	deleteFn         func(ctx context.Context, id int64) error
	changePasswordFn func(ctx context.Context, caller *domain.Caller, form domain.ChangePasswordForm) (*domain.User, error)
	loggedInFn       func(ctx context.Context, caller *domain.Caller) (*domain.User, error)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	return s.createFn(ctx, u)
}

func (s *stubUserService) UpdateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	return s.updateFn(ctx, u)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) ChangePassword(ctx context.Context, caller *domain.Caller, form domain.ChangePasswordForm) (*domain.User, error) {
	return s.changePasswordFn(ctx, caller, form)
}

func (s *stubUserService) GetLoggedInUser(ctx context.Context, caller *domain.Caller) (*domain.User, error) {
	return s.loggedInFn(ctx, caller)
}

// stubRoleService knows ADMIN and USER.
type stubRoleService struct{}

var testRoles = map[string]domain.Role{
	domain.RoleNameAdmin: {ID: 1, Name: domain.RoleNameAdmin, Description: domain.AuthorityAdmin},
	domain.RoleNameUser:  {ID: 2, Name: domain.RoleNameUser, Description: domain.AuthorityUser},
}

func (stubRoleService) ListRoles(context.Context) ([]domain.Role, error) {
	return []domain.Role{testRoles[domain.RoleNameAdmin], testRoles[domain.RoleNameUser]}, nil
}

func (stubRoleService) ResolveRoles(_ context.Context, names []string) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(names))
	for _, n := range names {
		r, ok := testRoles[n]
		if !ok {
			return nil, domain.ErrRoleNotFound
		}
		out = append(out, r)
	}
	return out, nil
}

func (stubRoleService) EnsureDefaults(context.Context) error { return nil }

type stubAuthService struct {
	loginFn   func(ctx context.Context, username, password string) (string, *domain.AuthPrincipal, error)
	loggedOut []string
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.AuthPrincipal, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Caller, error) {
	return nil, domain.ErrNoActiveSession
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.loggedOut = append(s.loggedOut, token)
	return nil
}

func newTestContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
