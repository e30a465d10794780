package catalog

import (
	"context"

	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) Get(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) GetMany(ctx context.Context, skus []string) ([]models.Product, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("sku IN ?", skus).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) List(ctx context.Context, category string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sku = ?", product.SKU).
		Updates(map[string]any{
			"name":                 product.Name,
			"category":             product.Category,
			"base_unit":            product.BaseUnit,
			"bulk_unit_name":       product.BulkUnitName,
			"bulk_unit_conversion": product.BulkUnitConversion,
			"cost_price":           product.CostPrice,
			"price_regular":        product.PriceRegular,
			"price_premium":        product.PricePremium,
			"price_star":           product.PriceStar,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateCostPrice(ctx context.Context, sku string, costPrice int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sku = ?", sku).
		Update("cost_price", costPrice)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, sku string) error {
	return r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Delete(&models.Product{}).Error
}

func (r *repository) Rename(ctx context.Context, oldSKU, newSKU string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sku = ?", oldSKU).
		Update("sku", newSKU)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
