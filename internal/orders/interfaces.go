package orders

import (
	"context"

	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists order documents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)

	// List returns orders newest first; a non-empty date (YYYY-MM-DD)
	// restricts to that day's sequence.
	List(ctx context.Context, date string) ([]models.Order, error)

	UpdateCustomerName(ctx context.Context, id, name string) error
}
