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
	"go.uber.org/multierr"

	"github.com/adityawarsita/gudangpos-backend/api/routes"
	"github.com/adityawarsita/gudangpos-backend/internal/catalog"
	"github.com/adityawarsita/gudangpos-backend/internal/orders"
	"github.com/adityawarsita/gudangpos-backend/internal/purchases"
	"github.com/adityawarsita/gudangpos-backend/internal/sequence"
	"github.com/adityawarsita/gudangpos-backend/internal/stock"
	"github.com/adityawarsita/gudangpos-backend/internal/stocklosses"
	"github.com/adityawarsita/gudangpos-backend/pkg/config"
	"github.com/adityawarsita/gudangpos-backend/pkg/db"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
	"github.com/adityawarsita/gudangpos-backend/pkg/metrics"
	"github.com/adityawarsita/gudangpos-backend/pkg/migrate"
	"github.com/adityawarsita/gudangpos-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.App, cfg.DB, cfg.Tx, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRun(context.Background(), cfg, dbClient, logg); err != nil {
		logg.Error(context.Background(), "failed to migrate schema", err)
		os.Exit(1)
	}

	engineMetrics := metrics.NewEngineMetrics(prometheus.DefaultRegisterer)
	dbClient.SetObserver(engineMetrics)

	// The cache is optional: without a redis endpoint the catalog serves
	// straight from the database.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.App, cfg.Redis, logg)
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
	catalogRepo := catalog.NewRepository(conn)
	stockRepo := stock.NewRepository(conn)
	allocator := sequence.NewAllocator()

	stockService, err := stock.NewService(stockRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, stockRepo, dbClient, cacheFor(redisClient), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	lossService, err := stocklosses.NewService(stocklosses.NewRepository(conn), catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock loss service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(conn), catalogRepo, stockRepo, allocator, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	purchasesService, err := purchases.NewService(purchases.NewRepository(conn), allocator, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchases service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient,
			catalogService, stockService, lossService, ordersService, purchasesService),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if serveErr := <-errCh; serveErr != nil && serveErr != http.ErrServerClosed {
			err = multierr.Append(err, serveErr)
		}
		if err != nil {
			logg.Error(ctx, "api server shutdown incomplete", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}

// cacheFor avoids handing the catalog a typed nil when redis is disabled.
func cacheFor(client *redis.Client) catalog.ProductCache {
	if client == nil {
		return nil
	}
	return client
}
