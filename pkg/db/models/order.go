package models

import (
	"time"

	"github.com/adityawarsita/gudangpos-backend/pkg/enums"
)

// Order is an immutable sales document keyed by its allocated daily ID
// (YYYY-MM-DD-NNNN). CustomerName is the one field that may change after
// creation, for receipt personalization.
type Order struct {
	ID            string             `gorm:"column:id;primaryKey" json:"id"`
	CustomerName  string             `gorm:"column:customer_name" json:"customer_name"`
	CustomerTier  enums.CustomerTier `gorm:"column:customer_tier;not null" json:"customer_tier"`
	PaymentMethod string             `gorm:"column:payment_method" json:"payment_method"`
	AmountPaid    int64              `gorm:"column:amount_paid;not null;default:0" json:"amount_paid"`
	ChangeDue     int64              `gorm:"column:change_due;not null;default:0" json:"change_due"`
	GrandTotal    int64              `gorm:"column:grand_total;not null" json:"grand_total"`
	Status        enums.OrderStatus  `gorm:"column:status;not null" json:"status"`
	Items         []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// OrderItem captures one sold line, including the cost price at time of
// sale. The snapshot must never be recomputed from the live product because
// cost prices drift.
type OrderItem struct {
	ID        uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID   string  `gorm:"column:order_id;not null;index" json:"order_id"`
	SKU       string  `gorm:"column:sku;not null" json:"sku"`
	Name      string  `gorm:"column:name;not null" json:"name"`
	Qty       float64 `gorm:"column:qty;not null" json:"qty"`
	Unit      string  `gorm:"column:unit;not null" json:"unit"`
	UnitPrice int64   `gorm:"column:unit_price;not null" json:"unit_price"`
	LineTotal int64   `gorm:"column:line_total;not null" json:"line_total"`
	CostPrice int64   `gorm:"column:cost_price;not null" json:"cost_price"`
}
