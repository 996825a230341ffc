// README: Entry point; loads config, wires services, starts HTTP server and the toll cache cleanup loop.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ridecost/internal/config"
	httptransport "ridecost/internal/http"
	"ridecost/internal/infra"
	"ridecost/internal/maps"
	"ridecost/internal/modules/matching"
	"ridecost/internal/modules/multiday"
	"ridecost/internal/modules/pricing"
	"ridecost/internal/modules/routing"
	"ridecost/internal/modules/toll"
)

const shutdownTimeout = 10 * time.Second

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

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("postgres init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer func() { _ = redisClient.Close() }()

	tollStore, err := infra.NewTollStore(ctx, cfg.TollCache, dbPool, redisClient)
	if err != nil {
		logger.Fatal("toll cache init", zap.Error(err))
	}
	if cfg.Routes.APIKey == "" {
		logger.Warn("ROUTES_API_KEY not set; routes and tolls will be estimated")
	}

	routesClient := maps.NewRoutesClient(cfg.Routes.BaseURL, cfg.Routes.Timeout())

	tollSvc := toll.NewService(tollStore, routesClient, cfg.TollCache.TTL, logger.Named("toll"))
	routingSvc := routing.NewService(routesClient, logger.Named("routing"))

	pricingStore := pricing.NewStore(dbPool, logger.Named("pricing"))
	engine := pricing.NewEngine(pricingStore, routingSvc, tollSvc, cfg.Routes.APIKey, logger.Named("pricing"))
	pricingSvc := pricing.NewService(engine, pricingStore, logger.Named("pricing"))

	matchingSvc := matching.NewService(matching.NewStore(redisClient), matching.DefaultLimits(), logger.Named("dispatch"))

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Pricing:          pricingSvc,
		Routing:          routingSvc,
		Tolls:            tollSvc,
		Matching:         matchingSvc,
		MultiDaySettings: multiday.DefaultSettings(),
		StaffingRules:    multiday.DefaultRules(),
		RoutesAPIKey:     cfg.Routes.APIKey,
		DispatchRadiusKm: cfg.Dispatch.RadiusKm,
		Logger:           logger.Named("http"),
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go tollSvc.RunCleanup(ctx, cfg.TollCache.CleanupInterval)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
	}()

	logger.Info("pricing api listening",
		zap.String("addr", cfg.HTTP.Addr),
		zap.String("toll_cache_backend", cfg.TollCache.Backend))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http server", zap.Error(err))
	}
}
