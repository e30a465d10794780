package models

import "time"

// StockRecord holds the single authoritative stock quantity per SKU,
// always expressed in the product's base unit.
type StockRecord struct {
	SKU              string    `gorm:"column:sku;primaryKey" json:"sku"`
	CurrentStockBase float64   `gorm:"column:current_stock_base;not null;default:0" json:"current_stock_base"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
