package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/policy"
)

// RequireAction rejects the request early when the caller's role can never
// perform action.  Ownership is checked later by the service once the
// record is loaded.
func RequireAction(action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := policy.RoleOnly(Actor(c), action)
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, policy.ErrUnauthorized):
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
			default:
				msg := "forbidden"
				var d *policy.Denied
				if errors.As(err, &d) {
					msg = d.Message()
				}
				return c.JSON(http.StatusForbidden, echo.Map{"error": msg})
			}
		}
	}
}

