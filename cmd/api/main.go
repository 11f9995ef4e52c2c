package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-phone-verify/internal/config"
	"github.com/go-phone-verify/internal/infrastructure/dynamo"
	"github.com/go-phone-verify/internal/infrastructure/memory"
	"github.com/go-phone-verify/internal/infrastructure/postgres"
	redisinfra "github.com/go-phone-verify/internal/infrastructure/redis"
	"github.com/go-phone-verify/internal/infrastructure/sns"
	"github.com/go-phone-verify/internal/pkg/clock"
	"github.com/go-phone-verify/internal/pkg/codehash"
	transporthttp "github.com/go-phone-verify/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDeps(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	if cfg.OTPHashKey == "" && !cfg.IsDevelopment() {
		slog.Warn("OTP_HASH_KEY is empty; stored code hashes are unkeyed")
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
		return
	}
	slog.Info("server stopped")
}

// buildDeps wires the configured store, SMS sender and throttle. The returned
// cleanup releases pooled connections.
func buildDeps(ctx context.Context, cfg *config.Config) (*transporthttp.Deps, func(), error) {
	deps := &transporthttp.Deps{
		Hasher: codehash.New(cfg.OTPHashKey),
		Clock:  clock.System{},
	}
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	switch cfg.StoreDriver {
	case config.StoreDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, cleanup, fmt.Errorf("dynamo client: %w", err)
		}
		// Creates the tables if they don't exist.
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		deps.VerificationRepo = dynamo.NewVerificationRepo(client, cfg.DynamoTables.Verifications)
		deps.UserRepo = dynamo.NewUserRepo(client, cfg.DynamoTables.Users)
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, cleanup, fmt.Errorf("postgres pool: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := postgres.Migrate(ctx, pool); err != nil {
			return nil, cleanup, fmt.Errorf("postgres migrate: %w", err)
		}
		deps.VerificationRepo = postgres.NewVerificationRepo(pool)
		deps.UserRepo = postgres.NewUserRepo(pool)
	case config.StoreMemory:
		slog.Warn("using in-memory store; codes and users are lost on restart")
		deps.VerificationRepo = memory.NewVerificationStore()
		deps.UserRepo = memory.NewUserStore()
	default:
		return nil, cleanup, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	// SNS sender (optional; production answers 503 on send without it).
	if sender, err := sns.NewSender(ctx, cfg); err == nil {
		deps.Notifier = sender
	} else {
		slog.Warn("SNS sender not available", "err", err)
	}

	if cfg.RedisAddr != "" {
		client := redisinfra.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		closers = append(closers, func() { _ = client.Close() })
		deps.Throttle = redisinfra.NewThrottle(client, cfg.SendWindow, cfg.SendMax)
	} else {
		slog.Info("REDIS_ADDR not set; per-phone send throttle disabled")
	}

	return deps, cleanup, nil
}
