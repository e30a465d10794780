package models

import "time"

// Purchase is an immutable goods-received document keyed by its allocated
// PUR-YYYY-MM-DD-NNNN ID. Stock intake is recorded separately through the
// stock ledger so every stock change shares one code path.
type Purchase struct {
	ID           string         `gorm:"column:id;primaryKey" json:"id"`
	SupplierName *string        `gorm:"column:supplier_name" json:"supplier_name,omitempty"`
	ReceiptRef   *string        `gorm:"column:receipt_ref" json:"receipt_ref,omitempty"`
	GrandTotal   int64          `gorm:"column:grand_total;not null" json:"grand_total"`
	Items        []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// PurchaseItem is one received line; UnitCost is per unit as bought, and
// Subtotal = Qty * UnitCost rounded to whole currency.
type PurchaseItem struct {
	ID         uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PurchaseID string  `gorm:"column:purchase_id;not null;index" json:"purchase_id"`
	SKU        string  `gorm:"column:sku;not null" json:"sku"`
	Name       string  `gorm:"column:name" json:"name"`
	Qty        float64 `gorm:"column:qty;not null" json:"qty"`
	Unit       string  `gorm:"column:unit" json:"unit"`
	UnitCost   int64   `gorm:"column:unit_cost;not null" json:"unit_cost"`
	Subtotal   int64   `gorm:"column:subtotal;not null" json:"subtotal"`
}
