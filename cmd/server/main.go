// @title        SynapseCare API
// @version      1.0
// @description  Account registration, login and session-bound profile management.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/synapsecare/health-risk-api/internal/api"
	"github.com/synapsecare/health-risk-api/internal/api/handler"
	"github.com/synapsecare/health-risk-api/internal/api/middleware"
	"github.com/synapsecare/health-risk-api/internal/core/service"
	"github.com/synapsecare/health-risk-api/internal/infrastructure/config"
	mongodb "github.com/synapsecare/health-risk-api/internal/infrastructure/db/mongo"
	redisdb "github.com/synapsecare/health-risk-api/internal/infrastructure/db/redis"
	"github.com/synapsecare/health-risk-api/internal/infrastructure/password"
	"github.com/synapsecare/health-risk-api/internal/infrastructure/queue"
	"github.com/synapsecare/health-risk-api/pkg/logger"
)

const (
	serviceName     = "synapsecare-api"
	shutdownTimeout = 15 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Service: serviceName})
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() { _ = rdb.Close() }()

	users := mongodb.NewUserRepository(db, password.NewHasher())
	auditRepo := mongodb.NewAuditRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, auditRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, log)
	dispatcher.Start(context.WithoutCancel(ctx))

	authService := service.NewAuthService(
		users,
		redisdb.NewSessionStore(rdb),
		dispatcher,
		service.SessionPolicy{TTL: cfg.Session.TTL, RememberTTL: cfg.Session.RememberTTL},
		log.With().Str("component", "auth").Logger(),
	)

	e := api.NewRouter(api.Deps{
		Auth:   authService,
		Cookie: middleware.NewSessionCookie(cfg.Session.CookieName, cfg.SecretKey, cfg.Session.CookieSecure),
		Readiness: map[string]handler.Pinger{
			"mongodb": handler.MongoPinger{DB: db},
			"redis":   handler.RedisPinger{Client: rdb},
		},
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Log:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	// Drain pending audit events before the database goes away.
	dispatcher.Close()
	log.Info().Msg("shutdown complete")
}
