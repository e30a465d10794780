package migrate

import (
	"context"
	"fmt"

	"github.com/adityawarsita/gudangpos-backend/pkg/config"
	"github.com/adityawarsita/gudangpos-backend/pkg/db"
	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
)

// Tables lists every model the engine persists, in dependency order.
func Tables() []any {
	return []any{
		&models.Product{},
		&models.StockRecord{},
		&models.Counter{},
		&models.Order{},
		&models.OrderItem{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.StockLoss{},
	}
}

// Run applies the schema for all engine tables. The client's naming
// strategy already carries the environment namespace prefix, so staging and
// production schemas never collide.
func Run(ctx context.Context, client *db.Client, logg *logger.Logger) error {
	if err := client.DB().WithContext(ctx).AutoMigrate(Tables()...); err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "schema migration completed")
	}
	return nil
}

// MaybeRun applies the schema when the auto-migrate flag is set.
func MaybeRun(ctx context.Context, cfg *config.Config, client *db.Client, logg *logger.Logger) error {
	if !cfg.DB.AutoMigrate {
		return nil
	}
	return Run(ctx, client, logg)
}
