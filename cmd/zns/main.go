package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/ZeusWPI/ZNS/internal/adapters/repository"
	"github.com/ZeusWPI/ZNS/internal/adapters/zauth"
	"github.com/ZeusWPI/ZNS/internal/config"
	"github.com/ZeusWPI/ZNS/internal/core/ports"
	"github.com/ZeusWPI/ZNS/internal/core/services"
	"github.com/ZeusWPI/ZNS/internal/dns/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("zns failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return err
	}

	repo := repository.NewPostgresRepository(db)

	var keys ports.KeyService
	if cfg.ZauthURL != "" {
		keys = zauth.NewClient(cfg.ZauthURL)
		logger.Info("ssh-key authorization enabled", "zauth_url", cfg.ZauthURL)
	}

	var rdb *redis.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return err
		}
		rdb = redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return err
		}
		logger.Info("connected to redis cache", "url", redisURL)
	}

	sig := services.NewSignatureVerifier()
	auth := services.NewAuthorizationEngine(cfg.Zone, repo, keys, sig)
	resolver := services.NewQueryResolver(cfg.Zone, repo, cfg.DefaultSOA, auth)
	update := services.NewUpdateExecutor(cfg.Zone, repo, auth)

	cache := server.NewCache(5*time.Minute, rdb)
	srv := server.New(cfg.Zone, cfg.Address, cfg.Port, resolver, update, cache, logger)

	return srv.Run(ctx)
}
