package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/usermgmt/user-management-api/internal/api/handler"
	"github.com/usermgmt/user-management-api/internal/api/middleware"
	"github.com/usermgmt/user-management-api/internal/core/domain"
	"github.com/usermgmt/user-management-api/internal/core/service"
	"github.com/usermgmt/user-management-api/internal/infrastructure/config"
	mongostore "github.com/usermgmt/user-management-api/internal/infrastructure/db/mongo"
	redisstore "github.com/usermgmt/user-management-api/internal/infrastructure/db/redis"
	"github.com/usermgmt/user-management-api/internal/infrastructure/faultlog"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, faults *faultlog.Sink, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth_http"))

	// --- Dependencies ---
	store := mongostore.NewIdentityStore(db)
	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret:      cfg.JWT.Secret,
		Issuer:      cfg.JWT.ValidIssuer,
		Audience:    cfg.JWT.ValidAudience,
		UserIDClaim: cfg.JWT.UserIDClaim,
		TTL:         cfg.JWT.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("build token service: %w", err)
	}
	authService := service.NewAuthService(store, tokens)
	authHandler := handler.NewAuthHandler(authService, faults)
	userHandler := handler.NewUserHandler(store)

	// jti markers live slightly longer than the tokens they track.
	replays := redisstore.NewReplayChecker(rdb, cfg.JWT.TokenTTL)
	authMiddleware := middleware.Auth(tokens, replays)

	// --- Authentication routes ---
	authGroup := e.Group("/api/Authentication")
	authGroup.POST("/Register", authHandler.Register)
	authGroup.POST("/Login", authHandler.Login)
	authGroup.GET("/Test", authHandler.Test)
	authGroup.GET("/RandomNumber", authHandler.RandomNumber, authMiddleware)

	// --- Admin routes ---
	e.GET("/api/Users", userHandler.List, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
