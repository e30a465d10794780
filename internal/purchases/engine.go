// Package purchases records goods-received documents. Recording and stock
// intake are deliberately decoupled: bulk receiving and manual stock
// increases both feed the stock ledger through one shared path, so this
// engine only allocates an ID and persists the document.
package purchases

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/adityawarsita/gudangpos-backend/internal/units"
	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"github.com/adityawarsita/gudangpos-backend/pkg/enums"
	pkgerrors "github.com/adityawarsita/gudangpos-backend/pkg/errors"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithRetryableTransaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error
}

type idAllocator interface {
	Allocate(ctx context.Context, tx *gorm.DB, docType enums.DocumentType) (string, error)
}

// Service exposes purchase operations.
type Service interface {
	// CreatePurchase allocates a PUR- ID and persists the document
	// atomically. Stock is not touched here.
	CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*models.Purchase, error)

	Get(ctx context.Context, id string) (*models.Purchase, error)
	List(ctx context.Context, date string) ([]models.Purchase, error)
}

type service struct {
	repo Repository
	seq  idAllocator
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the purchase engine.
func NewService(repo Repository, seq idAllocator, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	if seq == nil {
		return nil, fmt.Errorf("sequence allocator required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, seq: seq, tx: tx, logg: logg}, nil
}

func (s *service) CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*models.Purchase, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	items := make([]models.PurchaseItem, 0, len(input.Items))
	var grandTotal int64
	for _, line := range input.Items {
		subtotal := units.LineTotal(line.Qty, line.UnitCost)
		grandTotal += subtotal
		items = append(items, models.PurchaseItem{
			SKU:      line.SKU,
			Name:     line.Name,
			Qty:      line.Qty,
			Unit:     line.Unit,
			UnitCost: line.UnitCost,
			Subtotal: subtotal,
		})
	}

	var purchase *models.Purchase
	err := s.tx.WithRetryableTransaction(ctx, "purchase_create", func(tx *gorm.DB) error {
		id, err := s.seq.Allocate(ctx, tx, enums.DocumentTypePurchases)
		if err != nil {
			return err
		}
		purchase = &models.Purchase{
			ID:           id,
			SupplierName: input.SupplierName,
			ReceiptRef:   input.ReceiptRef,
			GrandTotal:   grandTotal,
			Items:        items,
		}
		return s.repo.WithTx(tx).Create(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "purchase_id", purchase.ID), "purchase recorded")
	}
	return purchase, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Purchase, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	purchase, err := s.repo.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("purchase %s not found", id))
	}
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *service) List(ctx context.Context, date string) ([]models.Purchase, error) {
	return s.repo.List(ctx, date)
}

func validateInput(input CreatePurchaseInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line item required")
	}
	for i, item := range input.Items {
		if item.SKU == "" {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: sku required", i))
		}
		if item.Qty <= 0 || math.IsNaN(item.Qty) || math.IsInf(item.Qty, 0) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: qty must be a positive finite number", i))
		}
		if item.UnitCost < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: unit cost must be non-negative", i))
		}
	}
	return nil
}
