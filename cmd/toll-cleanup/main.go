// README: One-shot toll cache purge, meant to be run by an external scheduler.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ridecost/internal/config"
	"ridecost/internal/infra"
	"ridecost/internal/modules/toll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Only the connection the configured backend needs is opened.
	var (
		dbPool      *pgxpool.Pool
		redisClient *redis.Client
	)
	switch cfg.TollCache.Backend {
	case config.TollBackendPostgres:
		dbPool, err = infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatal("postgres init", zap.Error(err))
		}
		defer dbPool.Close()
	case config.TollBackendRedis:
		redisClient = infra.NewRedis(cfg.Redis.Addr)
		defer func() { _ = redisClient.Close() }()
	}

	store, err := infra.NewTollStore(ctx, cfg.TollCache, dbPool, redisClient)
	if err != nil {
		logger.Fatal("toll cache init", zap.Error(err))
	}

	svc := toll.NewService(store, nil, cfg.TollCache.TTL, logger.Named("toll"))
	deleted, err := svc.CleanupExpired(ctx)
	if err != nil {
		logger.Fatal("toll cache cleanup failed", zap.Error(err))
	}
	logger.Info("toll cache cleanup done",
		zap.String("backend", cfg.TollCache.Backend),
		zap.Int64("deleted", deleted))
}
