package purchases

// PurchaseLineInput is one received line as entered in the receiving form.
// UnitCost is the cost per unit as bought, which may be a bulk unit.
type PurchaseLineInput struct {
	SKU      string  `json:"sku" validate:"required"`
	Name     string  `json:"name"`
	Qty      float64 `json:"qty" validate:"required,gt=0"`
	Unit     string  `json:"unit"`
	UnitCost int64   `json:"unit_cost" validate:"gte=0"`
}

// CreatePurchaseInput carries a goods-received document. Recording the
// purchase does not move stock; intake goes through the stock ledger as a
// separate, caller-owned step.
type CreatePurchaseInput struct {
	Items        []PurchaseLineInput `json:"items" validate:"required,min=1,dive"`
	SupplierName *string             `json:"supplier_name"`
	ReceiptRef   *string             `json:"receipt_ref"`
}
