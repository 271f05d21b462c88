package dto

import "time"

// OrderLineRequest is one requested order line.
type OrderLineRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int32 `json:"quantity" binding:"required"`
}

// PlaceOrderRequest describes a direct order placement payload.
type PlaceOrderRequest struct {
	Address string             `json:"address"`
	Items   []OrderLineRequest `json:"items" binding:"required"`
}

// UpdateAddressRequest changes the shipping address of a pending order.
type UpdateAddressRequest struct {
	Address string `json:"address" binding:"required"`
}

// AdvanceOrderRequest moves an order to the given fulfilment status.
type AdvanceOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderItemResponse is one purchased line. Price is the unit price frozen at
// purchase time, in minor currency units.
type OrderItemResponse struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	Price     int64  `json:"price"`
}

// OrderResponse describes an order with its lines.
type OrderResponse struct {
	ID          int64               `json:"id"`
	Status      string              `json:"status"`
	Total       int64               `json:"total"`
	Address     string              `json:"address,omitempty"`
	Items       []OrderItemResponse `json:"items"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}
