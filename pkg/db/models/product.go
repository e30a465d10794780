package models

import (
	"time"

	"github.com/adityawarsita/gudangpos-backend/pkg/enums"
)

// Product is the canonical catalog entry, keyed by its user-facing SKU.
// The ledger engine treats products as read-mostly reference data; the only
// field it writes back is CostPrice, captured during purchase receiving.
type Product struct {
	SKU                string         `gorm:"column:sku;primaryKey" json:"sku"`
	Name               string         `gorm:"column:name;not null" json:"name"`
	Category           string         `gorm:"column:category" json:"category"`
	BaseUnit           enums.BaseUnit `gorm:"column:base_unit;not null" json:"base_unit"`
	BulkUnitName       *string        `gorm:"column:bulk_unit_name" json:"bulk_unit_name,omitempty"`
	BulkUnitConversion float64        `gorm:"column:bulk_unit_conversion;not null;default:1" json:"bulk_unit_conversion"`
	CostPrice          int64          `gorm:"column:cost_price;not null;default:0" json:"cost_price"`
	PriceRegular       int64          `gorm:"column:price_regular;not null;default:0" json:"price_regular"`
	PricePremium       int64          `gorm:"column:price_premium;not null;default:0" json:"price_premium"`
	PriceStar          int64          `gorm:"column:price_star;not null;default:0" json:"price_star"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// HasBulkUnit reports whether the product sells in a coarser packaging unit.
func (p Product) HasBulkUnit() bool {
	return p.BulkUnitName != nil && *p.BulkUnitName != ""
}
