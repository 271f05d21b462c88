package usecase

import (
	"errors"
	"strings"
	"testing"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/domain/model"
	testhelpers "github.com/rvasilyev/storefront/internal/test"
)

func TestValidateCartEmpty(t *testing.T) {
	if err := ValidateCart(nil); err != domainErrors.ErrEmptyCart {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if err := ValidateCart([]model.OrderLine{}); err != domainErrors.ErrEmptyCart {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestValidateCartQuantityBounds(t *testing.T) {
	if err := ValidateCart([]model.OrderLine{{ProductID: 1, Quantity: 0}}); err != domainErrors.ErrInvalidQuantity {
		t.Fatalf("expected invalid quantity error, got %v", err)
	}
	if err := ValidateCart([]model.OrderLine{{ProductID: 1, Quantity: -5}}); err != domainErrors.ErrInvalidQuantity {
		t.Fatalf("expected invalid quantity error, got %v", err)
	}
	if err := ValidateCart([]model.OrderLine{{ProductID: 1, Quantity: 1000}}); err != domainErrors.ErrInvalidQuantity {
		t.Fatalf("expected invalid quantity error, got %v", err)
	}
	if err := ValidateCart([]model.OrderLine{{ProductID: 1, Quantity: 999}}); err != nil {
		t.Fatalf("quantity 999 should be accepted, got %v", err)
	}
	if err := ValidateCart([]model.OrderLine{{ProductID: 1, Quantity: 1}}); err != nil {
		t.Fatalf("quantity 1 should be accepted, got %v", err)
	}
}

func TestValidateCartDuplicateProduct(t *testing.T) {
	err := ValidateCart([]model.OrderLine{
		{ProductID: 7, Quantity: 1},
		{ProductID: 8, Quantity: 2},
		{ProductID: 7, Quantity: 3},
	})
	var dup domainErrors.DuplicateProductError
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate product error, got %v", err)
	}
	if dup.ProductID != 7 {
		t.Fatalf("expected product 7 reported, got %d", dup.ProductID)
	}
}

func TestValidateAddressLength(t *testing.T) {
	if err := ValidateAddress(testhelpers.RandomASCIIString(1, 500)); err != nil {
		t.Fatalf("address within the limit should be accepted, got %v", err)
	}
	if err := ValidateAddress(strings.Repeat("a", 500)); err != nil {
		t.Fatalf("500 characters should be accepted, got %v", err)
	}
	if err := ValidateAddress(strings.Repeat("a", 501)); err != domainErrors.ErrAddressTooLong {
		t.Fatalf("expected address too long error, got %v", err)
	}
	if err := ValidateAddress(""); err != nil {
		t.Fatalf("empty address should be accepted, got %v", err)
	}
}

func TestValidateAddressCountsRunes(t *testing.T) {
	if err := ValidateAddress(strings.Repeat("ю", 500)); err != nil {
		t.Fatalf("500 multibyte runes should be accepted, got %v", err)
	}
	if err := ValidateAddress(strings.Repeat("ю", 501)); err != domainErrors.ErrAddressTooLong {
		t.Fatalf("expected address too long error, got %v", err)
	}
}
