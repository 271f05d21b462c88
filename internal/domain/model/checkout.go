package model

import "time"

// CheckoutStatus describes checkout session lifecycle.
type CheckoutStatus string

const (
	CheckoutStatusPending   CheckoutStatus = "PENDING"
	CheckoutStatusCompleted CheckoutStatus = "COMPLETED"
	CheckoutStatusExpired   CheckoutStatus = "EXPIRED"
)

// IsTerminal reports whether the session can no longer change.
func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusExpired
}

// CartItem is a single line of a cart snapshot. Price is the unit price in
// minor currency units captured when the session was created.
type CartItem struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
	Price     int64  `json:"price"`
}

// CartSnapshot freezes the cart at the moment checkout started. The order
// eventually created from the session is derived from this snapshot.
type CartSnapshot struct {
	Items []CartItem `json:"items"`
	Total int64      `json:"total"`
}

// CheckoutSession bridges a local cart snapshot to a hosted payment attempt.
type CheckoutSession struct {
	ID              string
	UserID          int64
	ProviderSession string
	Snapshot        CartSnapshot
	Metadata        map[string]string
	Status          CheckoutStatus
	CreatedAt       time.Time
	ExpiresAt       time.Time
}
