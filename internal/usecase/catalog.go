package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/domain/model"
	"github.com/rvasilyev/storefront/internal/domain/repository"
)

// CatalogUseCase manages catalog entries and administrative stock changes.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// List returns all catalog entries.
func (u *CatalogUseCase) List(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx)
}

// Get returns a single catalog entry.
func (u *CatalogUseCase) Get(ctx context.Context, id int64) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// Create adds a catalog entry; admin only.
func (u *CatalogUseCase) Create(ctx context.Context, role model.Role, p *model.Product) (*model.Product, error) {
	if !Allow(role, 0, 0, ActionManageCatalog) {
		return nil, domainErrors.ErrForbidden
	}
	if strings.TrimSpace(p.Name) == "" || p.Price < 0 || p.Stock < 0 {
		return nil, domainErrors.ErrInvalidProduct
	}
	return u.products.Create(ctx, p)
}

// UpdatePrice changes the live catalog price; admin only. Existing orders
// keep their frozen price-at-purchase.
func (u *CatalogUseCase) UpdatePrice(ctx context.Context, role model.Role, id int64, price int64) error {
	if !Allow(role, 0, 0, ActionManageCatalog) {
		return domainErrors.ErrForbidden
	}
	if price < 0 {
		return domainErrors.ErrInvalidProduct
	}
	return u.products.UpdatePrice(ctx, id, price)
}

// AdjustStock applies a signed stock delta; admin only. Negative deltas go
// through the same decrement-if-available primitive as order placement.
func (u *CatalogUseCase) AdjustStock(ctx context.Context, role model.Role, id int64, delta int32) (*model.Product, error) {
	if !Allow(role, 0, 0, ActionManageCatalog) {
		return nil, domainErrors.ErrForbidden
	}
	return u.products.AdjustStock(ctx, id, delta)
}
