package orders

// LineItemInput is one requested sale line as it arrives from the till.
// Quantities and units are untrusted until the engine validates them
// against the catalog.
type LineItemInput struct {
	SKU  string  `json:"sku" validate:"required"`
	Qty  float64 `json:"qty" validate:"required,gt=0"`
	Unit string  `json:"unit" validate:"required"`
}

// CreateOrderInput carries everything needed to place an order. Prices are
// always resolved server-side from the catalog and the customer tier; the
// client never supplies amounts.
type CreateOrderInput struct {
	Items         []LineItemInput `json:"items" validate:"required,min=1,dive"`
	CustomerName  string          `json:"customer_name"`
	CustomerTier  string          `json:"customer_tier"`
	PaymentMethod string          `json:"payment_method"`
	AmountPaid    int64           `json:"amount_paid" validate:"gte=0"`
}
