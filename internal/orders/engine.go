// Package orders implements order placement: the one flow that converts
// stock into revenue. An order is all-or-nothing; stock deduction, counter
// increment, and the order document land in a single transaction.
package orders

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/adityawarsita/gudangpos-backend/internal/catalog"
	"github.com/adityawarsita/gudangpos-backend/internal/pricing"
	"github.com/adityawarsita/gudangpos-backend/internal/stock"
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

// Service exposes order operations.
type Service interface {
	// CreateOrder validates stock for every line, deducts it, and
	// persists the order, atomically.
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)

	// CreateOrderRecord persists an order without touching stock. Callers
	// use it to book a sale after correcting stock by hand, and carry the
	// burden of having already set stock; the split is deliberate and
	// must stay visible at the call site.
	CreateOrderRecord(ctx context.Context, input CreateOrderInput) (*models.Order, error)

	// UpdateCustomerName is the single permitted post-creation mutation.
	UpdateCustomerName(ctx context.Context, orderID, name string) (*models.Order, error)

	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, date string) ([]models.Order, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
	stock   stock.Repository
	seq     idAllocator
	tx      txRunner
	logg    *logger.Logger
}

// NewService builds the order engine with the required collaborators.
func NewService(repo Repository, catalogRepo catalog.Repository, stockRepo stock.Repository, seq idAllocator, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if stockRepo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if seq == nil {
		return nil, fmt.Errorf("sequence allocator required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		catalog: catalogRepo,
		stock:   stockRepo,
		seq:     seq,
		tx:      tx,
		logg:    logg,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	return s.create(ctx, input, true)
}

func (s *service) CreateOrderRecord(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	return s.create(ctx, input, false)
}

func (s *service) create(ctx context.Context, input CreateOrderInput, deductStock bool) (*models.Order, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.tx.WithRetryableTransaction(ctx, "order_create", func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		stockRepo := s.stock.WithTx(tx)

		// Reads and validation first, writes only after everything is
		// known good: a retry then re-reads committed state instead of
		// compounding a partial write.
		products, err := s.loadProducts(ctx, catalogRepo, input.Items)
		if err != nil {
			return err
		}

		deductions := aggregateDeductions(input.Items, products)
		if deductStock {
			if err := s.checkAvailability(ctx, stockRepo, input.Items, deductions); err != nil {
				return err
			}
		}

		items, grandTotal := buildLines(input, products)

		id, err := s.seq.Allocate(ctx, tx, enums.DocumentTypeOrders)
		if err != nil {
			return err
		}

		if deductStock {
			for _, d := range deductions {
				if err := stockRepo.Deduct(ctx, d.sku, d.qty); err != nil {
					return err
				}
			}
		}

		order = &models.Order{
			ID:            id,
			CustomerName:  input.CustomerName,
			CustomerTier:  enums.NormalizeCustomerTier(input.CustomerTier),
			PaymentMethod: input.PaymentMethod,
			AmountPaid:    input.AmountPaid,
			ChangeDue:     changeDue(input.AmountPaid, grandTotal),
			GrandTotal:    grandTotal,
			Status:        enums.OrderStatusCompleted,
			Items:         items,
		}
		return repo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		entry := s.logg.WithOrderID(ctx, order.ID)
		if !deductStock {
			s.logg.Info(entry, "order recorded without stock deduction")
		} else {
			s.logg.Info(entry, "order placed")
		}
	}
	return order, nil
}

func (s *service) UpdateCustomerName(ctx context.Context, orderID, name string) (*models.Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	err := s.repo.UpdateCustomerName(ctx, orderID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("order %s not found", orderID))
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, orderID)
}

func (s *service) Get(ctx context.Context, id string) (*models.Order, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) List(ctx context.Context, date string) ([]models.Order, error) {
	return s.repo.List(ctx, date)
}

func (s *service) loadProducts(ctx context.Context, repo catalog.Repository, items []LineItemInput) (map[string]models.Product, error) {
	skus := make([]string, 0, len(items))
	seen := map[string]bool{}
	for _, item := range items {
		if !seen[item.SKU] {
			seen[item.SKU] = true
			skus = append(skus, item.SKU)
		}
	}

	found, err := repo.GetMany(ctx, skus)
	if err != nil {
		return nil, err
	}
	products := make(map[string]models.Product, len(found))
	for _, product := range found {
		products[product.SKU] = product
	}
	for _, sku := range skus {
		if _, ok := products[sku]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("product %s not found", sku))
		}
	}
	return products, nil
}

type deduction struct {
	sku string
	qty float64
}

// aggregateDeductions sums each SKU's total base-unit demand across lines,
// so two lines selling the same product (loose and by the sack) validate
// and deduct as one quantity.
func aggregateDeductions(items []LineItemInput, products map[string]models.Product) []deduction {
	totals := map[string]float64{}
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := totals[item.SKU]; !ok {
			order = append(order, item.SKU)
		}
		totals[item.SKU] += units.QtyInBase(item.Qty, item.Unit, products[item.SKU])
	}

	deductions := make([]deduction, 0, len(order))
	for _, sku := range order {
		deductions = append(deductions, deduction{sku: sku, qty: totals[sku]})
	}
	return deductions
}

func (s *service) checkAvailability(ctx context.Context, repo stock.Repository, items []LineItemInput, deductions []deduction) error {
	for _, d := range deductions {
		record, err := repo.Get(ctx, d.sku)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no stock record for %s", d.sku))
		}
		if err != nil {
			return err
		}
		if record.CurrentStockBase < d.qty {
			return pkgerrors.InsufficientStock(d.sku, d.qty, record.CurrentStockBase)
		}
	}
	return nil
}

// buildLines prices every line server-side and snapshots the cost price at
// time of sale. Bulk-unit lines carry the derived per-bulk price and cost.
func buildLines(input CreateOrderInput, products map[string]models.Product) ([]models.OrderItem, int64) {
	items := make([]models.OrderItem, 0, len(input.Items))
	var grandTotal int64
	for _, line := range input.Items {
		product := products[line.SKU]
		unitPrice := pricing.ResolvePrice(product, input.CustomerTier)
		costPrice := product.CostPrice
		if units.IsBulkUnit(product, line.Unit) {
			unitPrice = units.PriceToBulk(unitPrice, product)
			costPrice = units.PriceToBulk(costPrice, product)
		}
		lineTotal := units.LineTotal(line.Qty, unitPrice)
		grandTotal += lineTotal

		items = append(items, models.OrderItem{
			SKU:       line.SKU,
			Name:      product.Name,
			Qty:       line.Qty,
			Unit:      line.Unit,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
			CostPrice: costPrice,
		})
	}
	return items, grandTotal
}

func changeDue(amountPaid, grandTotal int64) int64 {
	if amountPaid > grandTotal {
		return amountPaid - grandTotal
	}
	return 0
}

func validateInput(input CreateOrderInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line item required")
	}
	for i, item := range input.Items {
		if item.SKU == "" {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: sku required", i))
		}
		if item.Unit == "" {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: unit required", i))
		}
		if item.Qty <= 0 || math.IsNaN(item.Qty) || math.IsInf(item.Qty, 0) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: qty must be a positive finite number", i))
		}
	}
	if input.AmountPaid < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount paid must be non-negative")
	}
	return nil
}
