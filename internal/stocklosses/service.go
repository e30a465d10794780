// Package stocklosses records non-sale stock decreases (expiry, damage,
// shrinkage) with their estimated monetary impact. The stock correction
// itself goes through the stock ledger; this package only books the loss.
package stocklosses

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/adityawarsita/gudangpos-backend/internal/units"
	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"github.com/adityawarsita/gudangpos-backend/pkg/enums"
	pkgerrors "github.com/adityawarsita/gudangpos-backend/pkg/errors"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
	"gorm.io/gorm"
)

// Repository persists stock loss records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, loss *models.StockLoss) error
	List(ctx context.Context, sku string) ([]models.StockLoss, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stock-loss repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, loss *models.StockLoss) error {
	return r.db.WithContext(ctx).Create(loss).Error
}

func (r *repository) List(ctx context.Context, sku string) ([]models.StockLoss, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if sku != "" {
		query = query.Where("sku = ?", sku)
	}
	var losses []models.StockLoss
	if err := query.Find(&losses).Error; err != nil {
		return nil, err
	}
	return losses, nil
}

type productReader interface {
	Get(ctx context.Context, sku string) (*models.Product, error)
}

// CreateLossInput books one loss event. Qty is in the product's base unit.
type CreateLossInput struct {
	SKU    string  `json:"sku" validate:"required"`
	Qty    float64 `json:"qty" validate:"required,gt=0"`
	Reason string  `json:"reason" validate:"required"`
}

// Service exposes loss recording.
type Service interface {
	CreateLoss(ctx context.Context, input CreateLossInput) (*models.StockLoss, error)
	List(ctx context.Context, sku string) ([]models.StockLoss, error)
}

type service struct {
	repo    Repository
	catalog productReader
	now     func() time.Time
	logg    *logger.Logger
}

// NewService builds the stock-loss service.
func NewService(repo Repository, catalogRepo productReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock loss repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	return &service{repo: repo, catalog: catalogRepo, now: time.Now, logg: logg}, nil
}

// NewServiceAt pins the clock; used by tests.
func NewServiceAt(repo Repository, catalogRepo productReader, logg *logger.Logger, now func() time.Time) (Service, error) {
	svc, err := NewService(repo, catalogRepo, logg)
	if err != nil {
		return nil, err
	}
	svc.(*service).now = now
	return svc, nil
}

func (s *service) CreateLoss(ctx context.Context, input CreateLossInput) (*models.StockLoss, error) {
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if input.Qty <= 0 || math.IsNaN(input.Qty) || math.IsInf(input.Qty, 0) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be a positive finite number")
	}
	reason, err := enums.ParseLossReason(input.Reason)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	product, err := s.catalog.Get(ctx, input.SKU)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("product %s not found", input.SKU))
	}
	if err != nil {
		return nil, err
	}

	at := s.now()
	loss := &models.StockLoss{
		ID:            lossID(at, input.SKU),
		SKU:           input.SKU,
		ProductName:   product.Name,
		Qty:           input.Qty,
		Reason:        reason,
		CostPrice:     product.CostPrice,
		EstimatedLoss: units.LineTotal(input.Qty, product.CostPrice),
	}
	if err := s.repo.Create(ctx, loss); err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"sku":    loss.SKU,
			"reason": loss.Reason,
			"qty":    loss.Qty,
		}), "stock loss recorded")
	}
	return loss, nil
}

func (s *service) List(ctx context.Context, sku string) ([]models.StockLoss, error) {
	return s.repo.List(ctx, sku)
}

func lossID(at time.Time, sku string) string {
	return fmt.Sprintf("LOSS-%s-%s-%s", at.Format("2006-01-02"), at.Format("150405"), sku)
}
