package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usermanagement/accounts/internal/core/domain"
)

// RequireAuthority lets the request through when the caller holds at least
// one of the listed authorities. It must run after Session.
func RequireAuthority(authorities ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, _ := c.Get(CallerKey).(*domain.Caller)
			for _, a := range authorities {
				if caller.HasAuthority(a) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
