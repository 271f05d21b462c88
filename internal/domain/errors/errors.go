package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrEmptyCart          = errors.New("cart has no items")
	ErrInvalidQuantity    = errors.New("quantity out of range")
	ErrAddressTooLong     = errors.New("delivery address too long")
	ErrOrderNotPending    = errors.New("order is not pending")
	ErrOrderCancelled     = errors.New("order is cancelled")
	ErrCancelNotAllowed   = errors.New("order can no longer be cancelled")
)

// DuplicateProductError reports a cart referencing the same product twice.
type DuplicateProductError struct {
	ProductID int64
}

func (e DuplicateProductError) Error() string {
	return fmt.Sprintf("product %d appears more than once", e.ProductID)
}

// UnknownProductsError lists requested product ids absent from the catalog.
type UnknownProductsError struct {
	IDs []int64
}

func (e UnknownProductsError) Error() string {
	parts := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return "unknown products: " + strings.Join(parts, ", ")
}

// StockShortage describes one product whose stock cannot cover the request.
type StockShortage struct {
	ProductID int64
	Available int32
	Requested int32
}

// InsufficientStockError aborts a placement; it reports every offending
// product with availability observed under the row lock.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("product %d: available %d, requested %d", s.ProductID, s.Available, s.Requested))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// IllegalTransitionError names a rejected order status pair.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

// PaymentErrorKind partitions failures of the external payment provider.
type PaymentErrorKind string

const (
	PaymentErrorCard           PaymentErrorKind = "card"
	PaymentErrorRateLimit      PaymentErrorKind = "rate_limit"
	PaymentErrorInvalidRequest PaymentErrorKind = "invalid_request"
	PaymentErrorUpstream       PaymentErrorKind = "upstream"
	PaymentErrorAuthentication PaymentErrorKind = "authentication"
)

// PaymentError wraps a classified failure of the payment provider. The local
// pending checkout session survives it and stays queryable.
type PaymentError struct {
	Kind    PaymentErrorKind
	Message string
}

func (e PaymentError) Error() string {
	return fmt.Sprintf("payment provider %s error: %s", e.Kind, e.Message)
}
