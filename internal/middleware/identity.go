package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/policy"
)

// Context keys set by JWTAuth.
const (
	KeyUserID   = "user_id"
	KeyRole     = "role"
	KeyTokenID  = "jti"
	KeyTokenExp = "token_exp"
)

// Actor returns the authenticated caller, or nil for a guest.
func Actor(c echo.Context) *policy.Actor {
	id, ok := c.Get(KeyUserID).(uint64)
	if !ok || id == 0 {
		return nil
	}
	role, _ := c.Get(KeyRole).(model.Role)
	return &policy.Actor{ID: id, Role: role}
}

// TokenID returns the jti and expiry of the access token on the request.
func TokenID(c echo.Context) (string, time.Time) {
	jti, _ := c.Get(KeyTokenID).(string)
	exp, _ := c.Get(KeyTokenExp).(time.Time)
	return jti, exp
}

// userKey identifies the caller for rate limiting; guests share "anon".
func userKey(c echo.Context) string {
	if a := Actor(c); a != nil {
		return strconv.FormatUint(a.ID, 10)
	}
	return "anon"
}
