package models

import (
	"time"

	"github.com/adityawarsita/gudangpos-backend/pkg/enums"
)

// StockLoss records a non-sale stock decrease (expiry, damage, shrinkage).
// Keyed by LOSS-YYYY-MM-DD-HHMMSS-{sku}.
type StockLoss struct {
	ID            string           `gorm:"column:id;primaryKey" json:"id"`
	SKU           string           `gorm:"column:sku;not null" json:"sku"`
	ProductName   string           `gorm:"column:product_name" json:"product_name"`
	Qty           float64          `gorm:"column:qty;not null" json:"qty"`
	Reason        enums.LossReason `gorm:"column:reason;not null" json:"reason"`
	CostPrice     int64            `gorm:"column:cost_price;not null" json:"cost_price"`
	EstimatedLoss int64            `gorm:"column:estimated_loss;not null" json:"estimated_loss"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
