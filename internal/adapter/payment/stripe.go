package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
)

// StripeGateway implements Gateway on Stripe hosted checkout sessions.
type StripeGateway struct {
	api    *client.API
	logger *slog.Logger
}

// NewStripeGateway creates a gateway bound to the given secret key.
func NewStripeGateway(apiKey string, logger *slog.Logger) (*StripeGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("stripe api key must not be empty")
	}
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeGateway{api: api, logger: logger}, nil
}

// CreateSession requests a hosted payment page for the given line items.
func (g *StripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(item.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(withReference(req.SuccessURL, req.Reference)),
		CancelURL:  stripe.String(withReference(req.CancelURL, req.Reference)),
	}
	params.Context = ctx
	params.AddMetadata("checkout_session_id", req.Reference)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	created, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		classified := classifyError(err)
		var payErr domainErrors.PaymentError
		if errors.As(classified, &payErr) {
			g.logger.Error("stripe session creation failed",
				slog.String("reference", req.Reference),
				slog.String("kind", string(payErr.Kind)),
			)
		}
		return nil, classified
	}

	return &Session{ID: created.ID, URL: created.URL}, nil
}

func withReference(base, reference string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("session_id", reference)
	u.RawQuery = q.Encode()
	return u.String()
}
