package stock

import (
	"context"
	"fmt"

	"github.com/adityawarsita/gudangpos-backend/pkg/db"
	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stock repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Get(ctx context.Context, sku string) (*models.StockRecord, error) {
	var record models.StockRecord
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) Increment(ctx context.Context, sku string, delta float64) error {
	record := models.StockRecord{SKU: sku, CurrentStockBase: delta}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku"}},
			DoUpdates: clause.Assignments(map[string]any{
				"current_stock_base": gorm.Expr("current_stock_base + ?", delta),
			}),
		}).
		Create(&record).Error
}

func (r *repository) Deduct(ctx context.Context, sku string, qty float64) error {
	res := r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Where("sku = ? AND current_stock_base >= ?", sku, qty).
		Update("current_stock_base", gorm.Expr("current_stock_base - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the record vanished or a concurrent deduction drained
		// it below qty since the caller's read. Both re-validate on
		// retry, and the guard means a negative value is never stored.
		return fmt.Errorf("stock guard missed for %s: %w", sku, db.ErrTxConflict)
	}
	return nil
}

func (r *repository) SetAbsolute(ctx context.Context, sku string, value float64) error {
	record := models.StockRecord{SKU: sku, CurrentStockBase: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku"}},
			DoUpdates: clause.Assignments(map[string]any{
				"current_stock_base": value,
			}),
		}).
		Create(&record).Error
}

func (r *repository) Delete(ctx context.Context, sku string) error {
	return r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Delete(&models.StockRecord{}).Error
}

func (r *repository) Rename(ctx context.Context, oldSKU, newSKU string) error {
	return r.db.WithContext(ctx).
		Model(&models.StockRecord{}).
		Where("sku = ?", oldSKU).
		Update("sku", newSKU).Error
}
