package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/techone/pos-api/internal/api"
	"github.com/techone/pos-api/internal/core/domain"
	"github.com/techone/pos-api/internal/core/ports"
	"github.com/techone/pos-api/internal/infrastructure/config"
	"github.com/techone/pos-api/internal/infrastructure/db/memory"
	mongodb "github.com/techone/pos-api/internal/infrastructure/db/mongo"
	redisdb "github.com/techone/pos-api/internal/infrastructure/db/redis"
	"github.com/techone/pos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	audit := logger.Audit()

	if cfg.Auth.JWTSecret == "" {
		if cfg.Env != "development" {
			log.Fatal().Msg("JWT_SECRET is required outside development")
		}
		cfg.Auth.JWTSecret = "dev-only-secret"
		log.Warn().Msg("JWT_SECRET not set, using development default")
	}

	cred, err := resolveCredential(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve demo credential")
	}

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	if err := mongodb.SeedProducts(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed product master")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb ready")

	var tokenStore ports.RefreshTokenStore

	deps := api.Deps{
		Config:     cfg,
		Logger:     log,
		Audit:      audit,
		DB:         db,
		Credential: cred,
	}

	if cfg.Redis.Disabled {
		tokenStore = memory.NewTokenStore(nil)
		log.Warn().Msg("redis disabled, refresh rotation state is in-memory only")
	} else {
		rc, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		deps.Redis = rc
		tokenStore = redisdb.NewTokenStore(rc)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis ready")
	}
	deps.TokenStore = tokenStore

	e := api.NewRouter(deps)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("pos-api listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if deps.Redis != nil {
		_ = deps.Redis.Close()
	}
	_ = client.Disconnect(shutdownCtx)
	log.Info().Msg("stopped")
}

// resolveCredential builds the configured login identity. A bcrypt hash wins;
// a plaintext DEMO_PASSWORD is hashed at startup as a development convenience.
func resolveCredential(cfg *config.Config) (domain.Credential, error) {
	hash := cfg.Auth.DemoPasswordHash
	switch {
	case hash != "":
	case cfg.Auth.DemoPassword != "":
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return domain.Credential{}, err
		}
		hash = string(h)
	case cfg.Env == "development":
		h, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
		if err != nil {
			return domain.Credential{}, err
		}
		hash = string(h)
	default:
		return domain.Credential{}, errors.New("DEMO_PASSWORD_HASH (or DEMO_PASSWORD) is required outside development")
	}

	return domain.Credential{
		Username:     cfg.Auth.DemoUsername,
		PasswordHash: hash,
	}, nil
}
