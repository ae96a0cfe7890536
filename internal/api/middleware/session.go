package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usermanagement/accounts/internal/core/domain"
)

// Context keys populated by Session.
const (
	CallerKey = "caller"
	TokenKey  = "session_token"
)

// Authenticator resolves a session cookie value into its caller.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Caller, error)
}

// Session requires a live login session and stores the caller in the context.
func Session(auth Authenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}

			caller, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, domain.ErrNoActiveSession) {
					return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
				}
				return err
			}

			c.Set(CallerKey, caller)
			c.Set(TokenKey, cookie.Value)
			return next(c)
		}
	}
}
