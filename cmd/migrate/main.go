package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/adityawarsita/gudangpos-backend/pkg/config"
	"github.com/adityawarsita/gudangpos-backend/pkg/db"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
	"github.com/adityawarsita/gudangpos-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	dbClient, err := db.New(ctx, cfg.App, cfg.DB, cfg.Tx, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if err := migrate.Run(ctx, dbClient, logg); err != nil {
		logg.Error(ctx, "schema migration failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
