// Package router registers the HTTP routes of the API on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/land-looker/internal/config"
	"github.com/iliyamo/land-looker/internal/handler"
	"github.com/iliyamo/land-looker/internal/middleware"
	"github.com/iliyamo/land-looker/internal/policy"
	"github.com/iliyamo/land-looker/internal/session"
)

// Deps carries everything the routes need.  Redis may be nil, in which case
// caching is off and rate limiting stays in process.
type Deps struct {
	JWTSecret string
	Revoker   session.Revoker
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	DB        handler.Pinger

	Auth       *handler.AuthHandler
	Properties *handler.PropertyHandler
	Locations  *handler.LocationHandler
	Bookings   *handler.BookingHandler
}

// chains holds the middleware stacks shared by the route files.
type chains struct {
	auth       echo.MiddlewareFunc
	limit      echo.MiddlewareFunc
	cache      echo.MiddlewareFunc
	invalidate echo.MiddlewareFunc
}

// public is for guest reads: limited and cached.
func (m chains) public() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{m.limit, m.cache}
}

// read requires a token and the role allowed to perform action.
func (m chains) read(action policy.Action) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{m.auth, m.limit, middleware.RequireAction(action)}
}

// write is read plus cache invalidation after a successful change.
func (m chains) write(action policy.Action) []echo.MiddlewareFunc {
	return append(m.read(action), m.invalidate)
}

// Register mounts /healthz and every /api route.
func Register(e *echo.Echo, d Deps) {
	m := chains{
		auth:       middleware.JWTAuth(d.JWTSecret, d.Revoker),
		limit:      middleware.NewTokenBucket(d.RateLimit, d.Redis),
		cache:      middleware.NewRedisCache(d.Cache, d.Redis),
		invalidate: middleware.InvalidateCache(d.Cache, d.Redis),
	}

	e.GET("/healthz", handler.Health(d.DB))

	api := e.Group("/api")
	registerAuth(api, d.Auth, m)
	registerCatalog(api, d.Properties, d.Locations, m)
	registerBookings(api, d.Bookings, m)
}

// registerAuth mounts account endpoints.  Register, login and refresh are
// open; logout and me need a valid access token.
func registerAuth(g *echo.Group, a *handler.AuthHandler, m chains) {
	g.POST("/register", a.Register, m.limit)
	g.POST("/login", a.Login, m.limit)
	g.POST("/refresh", a.Refresh, m.limit)
	g.POST("/logout", a.Logout, m.auth, m.limit)
	g.GET("/me", a.Me, m.auth, m.limit)
}
