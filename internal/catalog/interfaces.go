package catalog

import (
	"context"

	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists catalog entries keyed by SKU.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, product *models.Product) error
	Get(ctx context.Context, sku string) (*models.Product, error)
	GetMany(ctx context.Context, skus []string) ([]models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error

	// UpdateCostPrice writes back the latest purchase cost, the one catalog
	// field the ledger flows mutate.
	UpdateCostPrice(ctx context.Context, sku string, costPrice int64) error

	Delete(ctx context.Context, sku string) error

	// Rename moves the product to a new SKU in place.
	Rename(ctx context.Context, oldSKU, newSKU string) error
}
