package stock

import (
	"context"

	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists the authoritative stock quantity per SKU. All
// quantities are in the product's base unit.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// Get returns the stock record for the SKU; gorm.ErrRecordNotFound
	// passes through so callers can tell "absent" from "zero".
	Get(ctx context.Context, sku string) (*models.StockRecord, error)

	// Increment adds delta to the current stock, creating the record at
	// delta if absent. The arithmetic happens in the database.
	Increment(ctx context.Context, sku string, delta float64) error

	// Deduct subtracts qty only if the row still holds at least qty,
	// returning db.ErrTxConflict when the guard matches no row. Callers
	// validate availability first; a guard miss means a concurrent writer
	// got there in between.
	Deduct(ctx context.Context, sku string, qty float64) error

	// SetAbsolute overwrites the stock value, creating the record if
	// absent. Idempotent.
	SetAbsolute(ctx context.Context, sku string, value float64) error

	Delete(ctx context.Context, sku string) error

	// Rename moves the record to a new SKU in place.
	Rename(ctx context.Context, oldSKU, newSKU string) error
}
