// Package catalog manages product reference data. The ledger engines read
// products through here; the only catalog field they write back is the cost
// price captured while receiving a purchase.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/adityawarsita/gudangpos-backend/internal/stock"
	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	pkgerrors "github.com/adityawarsita/gudangpos-backend/pkg/errors"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
	"github.com/adityawarsita/gudangpos-backend/pkg/redis"
	"gorm.io/gorm"
)

const productCacheTTL = 5 * time.Minute

type txRunner interface {
	WithRetryableTransaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error
}

// ProductCache is the slice of the redis client the catalog needs. Cache
// failures are soft: reads fall through to the database.
type ProductCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ProductKey(sku string) string
}

// Service exposes catalog operations.
type Service interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Get(ctx context.Context, sku string) (*models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)

	// UpdateCostPrice records the latest per-base-unit purchase cost.
	UpdateCostPrice(ctx context.Context, sku string, costPrice int64) error

	// Delete removes the product together with its stock record.
	Delete(ctx context.Context, sku string) error

	// Rename moves a product and its stock record to a new SKU in one
	// transaction, so a crash can never strand the stock under a SKU that
	// no longer exists.
	Rename(ctx context.Context, oldSKU, newSKU string) error
}

type service struct {
	repo  Repository
	stock stock.Repository
	tx    txRunner
	cache ProductCache
	logg  *logger.Logger
}

// NewService builds the catalog service. The cache is optional.
func NewService(repo Repository, stockRepo stock.Repository, tx txRunner, cache ProductCache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, stock: stockRepo, tx: tx, cache: cache, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	err := s.tx.WithRetryableTransaction(ctx, "catalog_create", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		_, err := repo.Get(ctx, product.SKU)
		if err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("product %s already exists", product.SKU))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return repo.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, product.SKU)
	return product, nil
}

func (s *service) Get(ctx context.Context, sku string) (*models.Product, error) {
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}

	if cached := s.fromCache(ctx, sku); cached != nil {
		return cached, nil
	}

	product, err := s.repo.Get(ctx, sku)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("product %s not found", sku))
	}
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, product)
	return product, nil
}

func (s *service) List(ctx context.Context, category string) ([]models.Product, error) {
	return s.repo.List(ctx, category)
}

func (s *service) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	err := s.repo.Update(ctx, product)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("product %s not found", product.SKU))
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, product.SKU)
	return product, nil
}

func (s *service) UpdateCostPrice(ctx context.Context, sku string, costPrice int64) error {
	if sku == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if costPrice < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost price must be non-negative")
	}

	err := s.repo.UpdateCostPrice(ctx, sku, costPrice)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("product %s not found", sku))
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, sku)
	return nil
}

func (s *service) Delete(ctx context.Context, sku string) error {
	if sku == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}

	err := s.tx.WithRetryableTransaction(ctx, "catalog_delete", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Get(ctx, sku); errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("product %s not found", sku))
		} else if err != nil {
			return err
		}
		if err := repo.Delete(ctx, sku); err != nil {
			return err
		}
		return s.stock.WithTx(tx).Delete(ctx, sku)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, sku)
	if s.logg != nil {
		s.logg.Info(s.logg.WithSKU(ctx, sku), "product retired")
	}
	return nil
}

func (s *service) Rename(ctx context.Context, oldSKU, newSKU string) error {
	if oldSKU == "" || newSKU == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "old and new sku required")
	}
	if oldSKU == newSKU {
		return pkgerrors.New(pkgerrors.CodeValidation, "new sku must differ")
	}

	err := s.tx.WithRetryableTransaction(ctx, "catalog_rename", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.Get(ctx, newSKU); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("product %s already exists", newSKU))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err := repo.Rename(ctx, oldSKU, newSKU)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("product %s not found", oldSKU))
		}
		if err != nil {
			return err
		}
		return s.stock.WithTx(tx).Rename(ctx, oldSKU, newSKU)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, oldSKU, newSKU)
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"old_sku": oldSKU,
			"new_sku": newSKU,
		}), "product renamed")
	}
	return nil
}

func (s *service) fromCache(ctx context.Context, sku string) *models.Product {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.ProductKey(sku))
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logg != nil {
			s.logg.Warn(s.logg.WithSKU(ctx, sku), "product cache read failed")
		}
		return nil
	}
	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return nil
	}
	return &product
}

func (s *service) toCache(ctx context.Context, product *models.Product) {
	if s.cache == nil || product == nil {
		return
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.ProductKey(product.SKU), string(raw), productCacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithSKU(ctx, product.SKU), "product cache write failed")
	}
}

func (s *service) invalidate(ctx context.Context, skus ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(skus))
	for _, sku := range skus {
		keys = append(keys, s.cache.ProductKey(sku))
	}
	if err := s.cache.Del(ctx, keys...); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "product cache invalidation failed")
	}
}

func validateProduct(product *models.Product) error {
	if product == nil || product.SKU == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if product.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if !product.BaseUnit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid base unit %q", product.BaseUnit))
	}
	if product.HasBulkUnit() {
		f := product.BulkUnitConversion
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				"bulk unit conversion must be a positive finite number")
		}
	}
	for field, price := range map[string]int64{
		"cost_price":    product.CostPrice,
		"price_regular": product.PriceRegular,
		"price_premium": product.PricePremium,
		"price_star":    product.PriceStar,
	} {
		if price < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%s must be non-negative", field))
		}
	}
	return nil
}
