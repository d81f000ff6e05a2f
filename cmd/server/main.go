package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/usermgmt/user-management-api/internal/api"
	"github.com/usermgmt/user-management-api/internal/core/domain"
	"github.com/usermgmt/user-management-api/internal/infrastructure/config"
	mongostore "github.com/usermgmt/user-management-api/internal/infrastructure/db/mongo"
	redisstore "github.com/usermgmt/user-management-api/internal/infrastructure/db/redis"
	"github.com/usermgmt/user-management-api/internal/infrastructure/faultlog"
	"github.com/usermgmt/user-management-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Configuration faults (e.g. a missing JWT secret) abort startup;
		// they must never become per-request errors.
		log.Fatalf("load configuration: %v", err)
	}

	zl := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		zl.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	store := mongostore.NewIdentityStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		zl.Fatal().Err(err).Msg("ensure indexes")
	}
	if err := store.SeedRoles(ctx, domain.RoleAdmin, domain.RoleHR, domain.RoleUser); err != nil {
		zl.Fatal().Err(err).Msg("seed roles")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		zl.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	faults := faultlog.NewSink(cfg.FaultLogPath, zl)
	faults.Start(ctx)

	e, err := api.NewRouter(db, rdb, cfg, faults, zl)
	if err != nil {
		zl.Fatal().Err(err).Msg("build router")
	}

	go func() {
		zl.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil {
			zl.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error().Err(err).Msg("shutdown")
	}
}
