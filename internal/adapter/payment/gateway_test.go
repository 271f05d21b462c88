package payment

import (
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stripe/stripe-go/v81"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind domainErrors.PaymentErrorKind
	}{
		{
			name: "plain error counts as upstream",
			err:  errors.New("connection reset"),
			kind: domainErrors.PaymentErrorUpstream,
		},
		{
			name: "card declined",
			err:  &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "card declined"},
			kind: domainErrors.PaymentErrorCard,
		},
		{
			name: "rate limit code",
			err:  &stripe.Error{Type: stripe.ErrorTypeAPI, Code: stripe.ErrorCodeRateLimit, Msg: "slow down"},
			kind: domainErrors.PaymentErrorRateLimit,
		},
		{
			name: "rate limit status",
			err:  &stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: 429, Msg: "slow down"},
			kind: domainErrors.PaymentErrorRateLimit,
		},
		{
			name: "bad api key",
			err:  &stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: 401, Msg: "invalid key"},
			kind: domainErrors.PaymentErrorAuthentication,
		},
		{
			name: "invalid request",
			err:  &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: 400, Msg: "missing amount"},
			kind: domainErrors.PaymentErrorInvalidRequest,
		},
		{
			name: "provider outage",
			err:  &stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: 500, Msg: "internal"},
			kind: domainErrors.PaymentErrorUpstream,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			classified := classifyError(tc.err)
			var payErr domainErrors.PaymentError
			if !errors.As(classified, &payErr) {
				t.Fatalf("expected payment error, got %v", classified)
			}
			if payErr.Kind != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, payErr.Kind)
			}
			if payErr.Message == "" {
				t.Fatal("expected message to survive classification")
			}
		})
	}
}

func TestWithReference(t *testing.T) {
	got := withReference("https://shop.example/checkout/success", "sess-1")
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if u.Query().Get("session_id") != "sess-1" {
		t.Fatalf("expected session_id in query, got %q", got)
	}

	got = withReference("https://shop.example/checkout/success?from=cart", "sess-1")
	u, err = url.Parse(got)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if u.Query().Get("from") != "cart" || u.Query().Get("session_id") != "sess-1" {
		t.Fatalf("expected both params preserved, got %q", got)
	}

	if got := withReference("://bad", "sess-1"); got != "://bad" {
		t.Fatalf("expected unparseable base returned as-is, got %q", got)
	}
}

func TestNewStripeGateway(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	if _, err := NewStripeGateway("", logger); err == nil {
		t.Fatal("expected error for empty key")
	}

	gateway, err := NewStripeGateway("sk_test_123", logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gateway.api == nil {
		t.Fatal("expected initialized api client")
	}
}
