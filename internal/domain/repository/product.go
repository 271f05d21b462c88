package repository

import (
	"context"

	"github.com/rvasilyev/storefront/internal/domain/model"
)

// ProductRepository manages catalog entries and the stock counter.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	UpdatePrice(ctx context.Context, id int64, price int64) error
	// AdjustStock applies a signed delta under a row lock. A negative delta
	// that would take stock below zero fails with InsufficientStockError.
	AdjustStock(ctx context.Context, id int64, delta int32) (*model.Product, error)
}
