package purchases

import (
	"context"

	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists purchase documents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, purchase *models.Purchase) error
	Get(ctx context.Context, id string) (*models.Purchase, error)

	// List returns purchases newest first; a non-empty date (YYYY-MM-DD)
	// restricts to that day's sequence.
	List(ctx context.Context, date string) ([]models.Purchase, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a purchases repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *repository) Get(ctx context.Context, id string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *repository) List(ctx context.Context, date string) ([]models.Purchase, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Order("id DESC")
	if date != "" {
		query = query.Where("id LIKE ?", "PUR-"+date+"-%")
	}
	var purchases []models.Purchase
	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
