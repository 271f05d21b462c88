package model

import "time"

// OrderStatus describes forward fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

// transitions holds the allowed forward moves between order statuses.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusDelivered},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusDelivered},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanCancel reports whether an order in the given status may still be cancelled.
func CanCancel(status OrderStatus) bool {
	return status == OrderStatusPending || status == OrderStatusProcessing
}

// ValidOrderStatus reports whether the value is a known status.
func ValidOrderStatus(status OrderStatus) bool {
	_, ok := transitions[status]
	return ok
}

// OrderItem is one purchased line of an order. Price is the unit price frozen
// at order creation time and never follows later catalog changes.
type OrderItem struct {
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int32
	Price       int64
}

// Order describes a confirmed purchase with its lines.
type Order struct {
	ID          int64
	UserID      int64
	Total       int64
	Status      OrderStatus
	Address     string
	Items       []OrderItem
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Cancelled reports whether the order carries the soft-cancellation mark.
func (o *Order) Cancelled() bool {
	return o.CancelledAt != nil
}

// OrderLine is a requested order line. UnitPrice overrides the live catalog
// price when the order derives from a checkout-session snapshot; nil means
// the price is resolved inside the placement transaction.
type OrderLine struct {
	ProductID int64
	Quantity  int32
	UnitPrice *int64
}
