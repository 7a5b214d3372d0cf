// @title        Comedor Admin API
// @version      1.0
// @description  Administration backend for the school breakfast service.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/comedor/admin-api/docs"
	"github.com/comedor/admin-api/internal/api"
	"github.com/comedor/admin-api/internal/api/handler"
	"github.com/comedor/admin-api/internal/core/ports"
	"github.com/comedor/admin-api/internal/core/service"
	"github.com/comedor/admin-api/internal/infrastructure/db/mongo"
	"github.com/comedor/admin-api/internal/infrastructure/db/redis"
	"github.com/comedor/admin-api/internal/infrastructure/mail"
	"github.com/comedor/admin-api/internal/infrastructure/queue"
	"github.com/comedor/admin-api/internal/infrastructure/security"
	"github.com/comedor/admin-api/internal/infrastructure/tracing"
	"github.com/comedor/admin-api/internal/pkg/config"
	"github.com/comedor/admin-api/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: cfg.Tracing.ServiceName,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Env,
	}, logger.Component("tracing"))
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	userRepo := mongo.NewUserRepository(db, cfg.Mongo.Timeout)
	mongoRoles := mongo.NewRoleRepository(db, cfg.Mongo.Timeout)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongoRoles.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongoRoles.EnsureRoles(ctx, cfg.SeedRoles); err != nil {
		return err
	}

	pingers := map[string]handler.Pinger{
		"mongodb": handler.PingFunc(func(ctx context.Context) error {
			return mongoClient.Ping(ctx, readpref.Primary())
		}),
	}

	var roleRepo ports.RoleRepository = mongoRoles
	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		roleRepo = redis.NewRoleCache(mongoRoles, rdb, cfg.Redis.RoleTTL, logger.Component("role_cache"))
		pingers["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("role cache enabled")
	}

	// --- Credentials and mail ---
	generator, err := security.NewGenerator(security.PasswordPolicy{
		Length:  cfg.Credentials.PasswordLength,
		Digits:  cfg.Credentials.PasswordDigits,
		Symbols: cfg.Credentials.PasswordSymbols,
	})
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(cfg.Credentials.BcryptCost)

	var sender queue.Sender
	if cfg.SMTP.Enabled() {
		sender, err = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			From:     cfg.SMTP.From,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			Timeout:  cfg.SMTP.Timeout,
		})
		if err != nil {
			return err
		}
	} else {
		log.Warn().Msg("SMTP_HOST or SMTP_EMAIL not set, credential emails will be discarded")
		sender = mail.NewDiscardMailer(logger.Component("mail"))
	}

	dispatcher := queue.NewMailDispatcher(sender, cfg.Mail.Workers, cfg.Mail.QueueSize, cfg.SMTP.Timeout, logger.Component("mail_queue"))
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	dispatcher.Start(workerCtx)

	// --- Services ---
	users := service.NewUserService(service.UserServiceDeps{
		Users:       userRepo,
		Roles:       roleRepo,
		Generator:   generator,
		Hasher:      hasher,
		Notifier:    dispatcher,
		PhoneRegion: cfg.PhoneRegion,
	}, logger.Component("users"))

	e := api.NewRouter(api.RouterConfig{
		Users:          users,
		Roles:          service.NewRoleService(roleRepo, userRepo, logger.Component("roles")),
		Breakfasts:     service.NewBreakfastService(mongo.NewBreakfastRepository(db, cfg.Mongo.Timeout), logger.Component("breakfasts")),
		References:     service.NewReferenceService(mongo.NewRateRepository(db, cfg.Mongo.Timeout), mongo.NewCenterRepository(db, cfg.Mongo.Timeout), logger.Component("references")),
		Auth:           service.NewAuthService(userRepo, hasher, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Health:         handler.NewHealthHandler(pingers),
		Log:            logger.Component("http"),
		JWTSecret:      cfg.Auth.JWTSecret,
		AuthRequired:   cfg.Auth.Required,
		RequestTimeout: cfg.RequestTimeout,
		ServiceName:    cfg.Tracing.ServiceName,
	})

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("auth_required", cfg.Auth.Required).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case err := <-srvErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	// Drain queued credential emails before the process exits.
	dispatcher.Close()
	log.Info().Msg("server stopped")
	return nil
}
