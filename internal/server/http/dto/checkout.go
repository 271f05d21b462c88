package dto

import "time"

// StartCheckoutRequest opens a checkout session for the given cart.
type StartCheckoutRequest struct {
	Items    []OrderLineRequest `json:"items" binding:"required"`
	Metadata map[string]string  `json:"metadata"`
}

// CheckoutResponse describes a checkout session. RedirectURL is only present
// right after the session is started.
type CheckoutResponse struct {
	ID          string              `json:"id"`
	Status      string              `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	Total       int64               `json:"total"`
	RedirectURL string              `json:"redirect_url,omitempty"`
	ExpiresAt   time.Time           `json:"expires_at"`
}
