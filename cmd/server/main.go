package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/land-looker/internal/config"
	"github.com/iliyamo/land-looker/internal/database"
	"github.com/iliyamo/land-looker/internal/handler"
	"github.com/iliyamo/land-looker/internal/queue"
	"github.com/iliyamo/land-looker/internal/repository"
	"github.com/iliyamo/land-looker/internal/router"
	"github.com/iliyamo/land-looker/internal/service"
	"github.com/iliyamo/land-looker/internal/session"
)

func logLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	}
	return log.INFO
}

func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	logger := e.Logger.(*log.Logger)

	db, err := database.Open(database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer db.Close()

	if cfg.DBMigrate {
		if err := database.Migrate(db.DB); err != nil {
			logger.Fatalf("migrate: %v", err)
		}
	}

	rdb, err := config.LoadRedisConfig().Connect(context.Background())
	if err != nil {
		logger.Warnf("redis unavailable (%v): cache off, in-memory rate limit and revocation", err)
	} else {
		defer rdb.Close()
	}

	events := queue.NewPublisher(cfg.AMQPURL, logger)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	locations := repository.NewLocationRepo(db)
	properties := repository.NewPropertyRepo(db)
	bookings := repository.NewBookingRepo(db)
	revoker := session.New(rdb)

	authSvc := service.NewAuthService(users, tokens, revoker, service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, logger)
	locationSvc := service.NewLocationService(locations, logger)
	propertySvc := service.NewPropertyService(properties, locations, logger)
	bookingSvc := service.NewBookingService(bookings, properties, users, events, logger, cfg.ConflictCheck)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Infoj(log.JSON{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			})
			return nil
		},
	}))

	router.Register(e, router.Deps{
		JWTSecret: cfg.JWTSecret,
		Revoker:   revoker,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		DB:        db,

		Auth:       handler.NewAuthHandler(authSvc),
		Properties: handler.NewPropertyHandler(propertySvc),
		Locations:  handler.NewLocationHandler(locationSvc),
		Bookings:   handler.NewBookingHandler(bookingSvc),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
