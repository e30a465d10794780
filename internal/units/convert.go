// Package units converts quantities and prices between a product's base
// unit and its optional bulk unit. All functions are pure; stock is always
// persisted in base units, so these conversions happen at the edges.
package units

import (
	"math"
	"strings"

	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Factor returns the product's bulk-to-base conversion factor. A zero,
// negative, or NaN factor is bad reference data; it degrades to 1 (no-op)
// so conversion never divides by zero. Callers that care can detect the
// condition with FactorSuspect.
func Factor(product models.Product) float64 {
	f := product.BulkUnitConversion
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	return f
}

// FactorSuspect reports whether the stored conversion factor had to be
// degraded to 1. Surfaced as a data-quality warning, not an error.
func FactorSuspect(product models.Product) bool {
	f := product.BulkUnitConversion
	return f <= 0 || math.IsNaN(f) || math.IsInf(f, 0)
}

// IsBulkUnit reports whether the given unit-of-sale names the product's
// bulk unit. Comparison is case-insensitive; anything else is treated as
// the base unit.
func IsBulkUnit(product models.Product, unit string) bool {
	if !product.HasBulkUnit() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(unit), *product.BulkUnitName)
}

// ToBase converts a quantity expressed in the bulk unit to base units.
// Quantity conversions are not rounded: fractional base quantities are
// legitimate (e.g. grams sold out of a kg pack).
func ToBase(qty float64, product models.Product) float64 {
	return qty * Factor(product)
}

// ToBulk converts a base-unit quantity to bulk units.
func ToBulk(qty float64, product models.Product) float64 {
	return qty / Factor(product)
}

// QtyInBase normalizes a line quantity to base units given its unit of
// sale.
func QtyInBase(qty float64, unit string, product models.Product) float64 {
	if IsBulkUnit(product, unit) {
		return ToBase(qty, product)
	}
	return qty
}

// PriceToBulk converts a per-base-unit price to a per-bulk-unit price.
// Multiplication by an integral factor is exact; non-integral factors round
// half-up to whole currency, since prices never carry fractions.
func PriceToBulk(pricePerBase int64, product models.Product) int64 {
	return roundedMul(pricePerBase, Factor(product))
}

// CostToBase converts a per-bulk-unit cost to a per-base-unit cost,
// rounding half-up to whole currency.
func CostToBase(costPerBulk int64, product models.Product) int64 {
	return roundedDiv(costPerBulk, Factor(product))
}

// LineTotal computes qty * unitPrice rounded half-up to whole currency.
func LineTotal(qty float64, unitPrice int64) int64 {
	return decimal.NewFromFloat(qty).
		Mul(decimal.NewFromInt(unitPrice)).
		Round(0).
		IntPart()
}

func roundedMul(amount int64, factor float64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(factor)).
		Round(0).
		IntPart()
}

func roundedDiv(amount int64, factor float64) int64 {
	return decimal.NewFromInt(amount).
		Div(decimal.NewFromFloat(factor)).
		Round(0).
		IntPart()
}
