package enums

// OrderStatus tracks the lifecycle of a sales order record. Orders are
// written fully settled at creation time, so "completed" is the steady state.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	return o == OrderStatusCompleted
}
