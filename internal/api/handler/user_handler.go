package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usermanagement/accounts/internal/api/metrics"
	"github.com/usermanagement/accounts/internal/core/domain"
	"github.com/usermanagement/accounts/internal/core/ports"
)

// UserHandler serves the account CRUD and password endpoints.
type UserHandler struct {
	users ports.UserService
	roles ports.RoleService
}

func NewUserHandler(users ports.UserService, roles ports.RoleService) *UserHandler {
	return &UserHandler{users: users, roles: roles}
}

// List handles GET /users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Get handles GET /users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Create handles POST /users. Routed behind the administrator guard.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	roles, err := h.updatedRoles(c, id, req.Roles)
	if err != nil {
		return err
	}

	user, err := h.users.CreateUser(ctx, &domain.User{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Roles:           roles,
	})
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.WithLabelValues("admin").Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update handles PUT /users/:id. The password is never changed here, and
// only administrators may change roles.
//
// @Summary      Update a user profile and roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Profile"
// @Success      200   {object}  userResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	roles, err := h.updatedRoles(c, id, req.Roles)
	if err != nil {
		return err
	}

	user, err := h.users.UpdateUser(ctx, &domain.User{
		ID:        id,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Roles:     roles,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /users/:id. Routed behind the administrator guard.
//
// @Summary      Delete a user
// @Tags         users
// @Param        id   path      int  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	metrics.UsersDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword handles POST /users/:id/password.
//
// @Summary      Change a user's password
// @Description  Administrators may omit current_password.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "User id"
// @Param        body  body      changePasswordRequest  true  "Passwords"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /users/{id}/password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	_, err = h.users.ChangePassword(c.Request().Context(), ctxCaller(c), domain.ChangePasswordForm{
		ID:              id,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	metrics.PasswordChangesTotal.WithLabelValues(passwordChangeResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Success"})
}

// Me handles GET /me.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.users.GetLoggedInUser(c.Request().Context(), ctxCaller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// updatedRoles resolves the roles for an update. Administrators get the
// requested roles. Anyone else keeps the stored roles and is refused when the
// request asks for different ones.
func (h *UserHandler) updatedRoles(c echo.Context, id int64, names []string) ([]domain.Role, error) {
	ctx := c.Request().Context()
	if ctxCaller(c).IsAdmin() {
		return h.roles.ResolveRoles(ctx, names)
	}

	current, err := h.users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if names != nil && !sameRoleNames(current.Roles, names) {
		return nil, domain.ErrForbidden
	}
	return current.Roles, nil
}

func sameRoleNames(roles []domain.Role, names []string) bool {
	have := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		have[r.Name] = struct{}{}
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := have[n]; !ok {
			return false
		}
		want[n] = struct{}{}
	}
	return len(want) == len(have)
}

func passwordChangeResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrNoOpPasswordChange):
		return "no_op"
	case errors.Is(err, domain.ErrConfirmationMismatch):
		return "mismatch"
	case errors.As(err, &ve), errors.Is(err, domain.ErrUserNotFound):
		return "invalid"
	default:
		return "error"
	}
}
