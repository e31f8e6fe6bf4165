package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/session"
	"github.com/iliyamo/land-looker/internal/utils"
)

// JWTAuth validates the Bearer access token and stores the caller's id,
// role, token id and token expiry in the echo context.  Tokens revoked at
// logout, and any token of that user issued before the logout, are
// rejected until they expire.
func JWTAuth(secret string, revoker session.Revoker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			role := model.Role(claims.Role)
			if !role.Valid() {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			revoked, err := revoker.IsRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				c.Logger().Warnf("jwt: revocation lookup failed: %v", err)
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
			}
			if revoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token revoked"})
			}
			uid, _ := claims.UserID()
			before, err := revoker.RevokedBefore(c.Request().Context(), uid)
			if err != nil {
				c.Logger().Warnf("jwt: revocation lookup failed: %v", err)
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
			}
			if !before.IsZero() && (claims.IssuedAt == nil || claims.IssuedAt.Time.Before(before)) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token revoked"})
			}

			c.Set(KeyUserID, uid)
			c.Set(KeyRole, role)
			c.Set(KeyTokenID, claims.ID)
			c.Set(KeyTokenExp, claims.ExpiresAt.Time)
			return next(c)
		}
	}
}
