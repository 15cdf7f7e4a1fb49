package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sourcedesk/sourcedesk-backend/api/routes"
	"github.com/sourcedesk/sourcedesk-backend/internal/catalog"
	"github.com/sourcedesk/sourcedesk-backend/internal/compare"
	"github.com/sourcedesk/sourcedesk-backend/internal/contracts"
	"github.com/sourcedesk/sourcedesk-backend/internal/factories"
	"github.com/sourcedesk/sourcedesk-backend/internal/skus"
	"github.com/sourcedesk/sourcedesk-backend/internal/sourcing"
	"github.com/sourcedesk/sourcedesk-backend/pkg/config"
	"github.com/sourcedesk/sourcedesk-backend/pkg/db"
	"github.com/sourcedesk/sourcedesk-backend/pkg/logger"
	"github.com/sourcedesk/sourcedesk-backend/pkg/metrics"
	"github.com/sourcedesk/sourcedesk-backend/pkg/migrate"
	pkgredis "github.com/sourcedesk/sourcedesk-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	conn := dbClient.DB()
	factoriesRepo := factories.NewRepository(conn)
	catalogRepo := catalog.NewRepository(conn)
	skusRepo := skus.NewRepository(conn)
	sourcingRepo := sourcing.NewRepository(conn)
	compareRepo := compare.NewRepository(conn)
	contractsRepo := contracts.NewRepository(conn)

	factoriesService, err := factories.NewService(factoriesRepo)
	requireService(logg, "factories", err)
	catalogService, err := catalog.NewService(catalogRepo)
	requireService(logg, "catalog", err)
	skusService, err := skus.NewService(skusRepo)
	requireService(logg, "skus", err)
	sourcingService, err := sourcing.NewService(sourcingRepo)
	requireService(logg, "sourcing", err)
	compareService, err := compare.NewService(compareRepo, skusRepo, catalogRepo, sourcingRepo)
	requireService(logg, "compare", err)
	contractsService, err := contracts.NewService(contractsRepo, sourcingRepo, skusRepo, sourcingRepo, factoriesRepo, catalogRepo)
	requireService(logg, "contracts", err)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient, httpMetrics, registry,
			factoriesService, catalogService, skusService,
			sourcingService, compareService, contractsService,
		),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
