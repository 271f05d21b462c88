package usecase

import (
	"unicode/utf8"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/domain/model"
)

const (
	maxItemQuantity  = 999
	maxAddressLength = 500
)

// ValidateCart checks structural rules of a requested cart before any
// persistence attempt: non-empty, quantities in range, no duplicate products.
func ValidateCart(lines []model.OrderLine) error {
	if len(lines) == 0 {
		return domainErrors.ErrEmptyCart
	}

	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 || line.Quantity > maxItemQuantity {
			return domainErrors.ErrInvalidQuantity
		}
		if _, dup := seen[line.ProductID]; dup {
			return domainErrors.DuplicateProductError{ProductID: line.ProductID}
		}
		seen[line.ProductID] = struct{}{}
	}
	return nil
}

// ValidateAddress bounds the delivery address length.
func ValidateAddress(address string) error {
	if utf8.RuneCountInString(address) > maxAddressLength {
		return domainErrors.ErrAddressTooLong
	}
	return nil
}
