package repository

import (
	"context"

	"github.com/rvasilyev/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. Create and
// CreateFromSession run the full placement transaction: product row locks,
// stock validation, order + item inserts, and stock decrements commit or
// roll back as one unit.
type OrderRepository interface {
	Create(ctx context.Context, userID int64, address string, lines []model.OrderLine) (*model.Order, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	// UpdateStatus performs a guarded transition: the row changes only if it
	// still carries the expected current status and is not cancelled.
	UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error
	// Cancel marks the order cancelled and restores reserved stock.
	Cancel(ctx context.Context, orderID int64) error
	UpdateAddress(ctx context.Context, orderID int64, address string) error
}
