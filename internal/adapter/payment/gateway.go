package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v81"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
)

// LineItem describes one purchasable line handed to the payment provider.
// Amount is the unit price in minor currency units.
type LineItem struct {
	Name     string
	Amount   int64
	Quantity int64
}

// SessionRequest describes a hosted checkout session to create. Reference is
// the local checkout-session id round-tripped through the redirect URLs and
// provider metadata.
type SessionRequest struct {
	Reference  string
	Currency   string
	Items      []LineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Session is a hosted payment session accepted by the provider.
type Session struct {
	ID  string
	URL string
}

// Gateway exposes operations against the external payment provider.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// classifyError maps provider failures onto the domain payment taxonomy.
// Anything that is not a structured provider error counts as upstream.
func classifyError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return domainErrors.PaymentError{Kind: domainErrors.PaymentErrorUpstream, Message: err.Error()}
	}

	kind := domainErrors.PaymentErrorUpstream
	switch {
	case stripeErr.Type == stripe.ErrorTypeCard:
		kind = domainErrors.PaymentErrorCard
	case stripeErr.Code == stripe.ErrorCodeRateLimit || stripeErr.HTTPStatusCode == 429:
		kind = domainErrors.PaymentErrorRateLimit
	case stripeErr.HTTPStatusCode == 401:
		kind = domainErrors.PaymentErrorAuthentication
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
		kind = domainErrors.PaymentErrorInvalidRequest
	}
	return domainErrors.PaymentError{Kind: kind, Message: stripeErr.Msg}
}
