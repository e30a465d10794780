package stock

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	pkgerrors "github.com/adityawarsita/gudangpos-backend/pkg/errors"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithRetryableTransaction(ctx context.Context, op string, fn func(tx *gorm.DB) error) error
}

// RepackInput moves opened bulk packages from one SKU's stock into base
// units of another. ConversionRate is how many target base units one source
// unit unpacks into.
type RepackInput struct {
	FromSKU        string  `json:"from_sku" validate:"required"`
	ToSKU          string  `json:"to_sku" validate:"required"`
	Units          float64 `json:"units" validate:"required,gt=0"`
	ConversionRate float64 `json:"conversion_rate" validate:"required,gt=0"`
}

// RepackResult reports the stock values after a completed repack.
type RepackResult struct {
	FromSKU   string  `json:"from_sku"`
	ToSKU     string  `json:"to_sku"`
	FromStock float64 `json:"from_stock"`
	ToStock   float64 `json:"to_stock"`
}

// Service is the stock ledger: the one place stock values change.
type Service interface {
	// Get returns the current stock for the SKU, reading an absent record
	// as zero.
	Get(ctx context.Context, sku string) (*models.StockRecord, error)

	// Increment adds deltaBase (in base units) to the SKU's stock. Used
	// for purchase intake.
	Increment(ctx context.Context, sku string, deltaBase float64) error

	// SetAbsolute overwrites the SKU's stock with an explicit value. No
	// negative guard beyond input validation: a correction is the
	// administrator's call.
	SetAbsolute(ctx context.Context, sku string, valueBase float64) error

	// Delete removes the stock record when a SKU is retired.
	Delete(ctx context.Context, sku string) error

	// Repack atomically deducts input.Units from the source SKU and adds
	// Units*ConversionRate base units to the target SKU. All-or-nothing:
	// insufficient source stock leaves both records untouched.
	Repack(ctx context.Context, input RepackInput) (*RepackResult, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the stock ledger service.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, sku string) (*models.StockRecord, error) {
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	record, err := s.repo.Get(ctx, sku)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.StockRecord{SKU: sku}, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) Increment(ctx context.Context, sku string, deltaBase float64) error {
	if sku == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if err := validQuantity("delta", deltaBase); err != nil {
		return err
	}
	return s.repo.Increment(ctx, sku, deltaBase)
}

func (s *service) SetAbsolute(ctx context.Context, sku string, valueBase float64) error {
	if sku == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if err := validQuantity("value", valueBase); err != nil {
		return err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithSKU(ctx, sku), "manual stock correction")
	}
	return s.repo.SetAbsolute(ctx, sku, valueBase)
}

func (s *service) Delete(ctx context.Context, sku string) error {
	if sku == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	return s.repo.Delete(ctx, sku)
}

func (s *service) Repack(ctx context.Context, input RepackInput) (*RepackResult, error) {
	if input.FromSKU == "" || input.ToSKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source and target sku required")
	}
	if input.FromSKU == input.ToSKU {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source and target sku must differ")
	}
	if err := validPositive("units", input.Units); err != nil {
		return nil, err
	}
	if err := validPositive("conversion_rate", input.ConversionRate); err != nil {
		return nil, err
	}

	addQty := input.Units * input.ConversionRate
	var result RepackResult

	err := s.tx.WithRetryableTransaction(ctx, "stock_repack", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Read and validate everything before the first write.
		source, err := repo.Get(ctx, input.FromSKU)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no stock record for %s", input.FromSKU))
		}
		if err != nil {
			return err
		}
		if source.CurrentStockBase < input.Units {
			return pkgerrors.InsufficientStock(input.FromSKU, input.Units, source.CurrentStockBase)
		}

		if err := repo.Deduct(ctx, input.FromSKU, input.Units); err != nil {
			return err
		}
		if err := repo.Increment(ctx, input.ToSKU, addQty); err != nil {
			return err
		}

		target, err := repo.Get(ctx, input.ToSKU)
		if err != nil {
			return err
		}
		result = RepackResult{
			FromSKU:   input.FromSKU,
			ToSKU:     input.ToSKU,
			FromStock: source.CurrentStockBase - input.Units,
			ToStock:   target.CurrentStockBase,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"from_sku": input.FromSKU,
			"to_sku":   input.ToSKU,
			"units":    input.Units,
		}), "repacked bulk stock")
	}
	return &result, nil
}

func validQuantity(field string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must be a non-negative finite number", field))
	}
	return nil
}

func validPositive(field string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must be a positive finite number", field))
	}
	return nil
}
