package app

import (
	"context"
	"time"

	"github.com/rvasilyev/storefront/internal/domain/model"
	"github.com/rvasilyev/storefront/internal/usecase"
)

// StorefrontFacade aggregates the business use cases behind one surface
// consumed by the HTTP handlers and the background sweeper.
type StorefrontFacade struct {
	auth     *usecase.AuthUseCase
	catalog  *usecase.CatalogUseCase
	orders   *usecase.OrderUseCase
	checkout *usecase.CheckoutUseCase
}

func NewStorefrontFacade(
	auth *usecase.AuthUseCase,
	catalog *usecase.CatalogUseCase,
	orders *usecase.OrderUseCase,
	checkout *usecase.CheckoutUseCase,
) *StorefrontFacade {
	return &StorefrontFacade{auth: auth, catalog: catalog, orders: orders, checkout: checkout}
}

func (f *StorefrontFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *StorefrontFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *StorefrontFacade) ParseToken(token string) (int64, model.Role, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) EnsureAdmin(ctx context.Context, login, password string) error {
	return f.auth.EnsureAdmin(ctx, login, password)
}

func (f *StorefrontFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.List(ctx)
}

func (f *StorefrontFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.catalog.Get(ctx, id)
}

func (f *StorefrontFacade) CreateProduct(ctx context.Context, role model.Role, p *model.Product) (*model.Product, error) {
	return f.catalog.Create(ctx, role, p)
}

func (f *StorefrontFacade) UpdateProductPrice(ctx context.Context, role model.Role, id, price int64) error {
	return f.catalog.UpdatePrice(ctx, role, id, price)
}

func (f *StorefrontFacade) AdjustProductStock(ctx context.Context, role model.Role, id int64, delta int32) (*model.Product, error) {
	return f.catalog.AdjustStock(ctx, role, id, delta)
}

func (f *StorefrontFacade) PlaceOrder(ctx context.Context, userID int64, address string, lines []model.OrderLine) (*model.Order, error) {
	return f.orders.Place(ctx, userID, address, lines)
}

func (f *StorefrontFacade) Order(ctx context.Context, actorID int64, role model.Role, orderID int64) (*model.Order, error) {
	return f.orders.Get(ctx, actorID, role, orderID)
}

func (f *StorefrontFacade) MyOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListMine(ctx, userID)
}

func (f *StorefrontFacade) AllOrders(ctx context.Context, role model.Role) ([]model.Order, error) {
	return f.orders.ListAll(ctx, role)
}

func (f *StorefrontFacade) AdvanceOrder(ctx context.Context, actorID int64, role model.Role, orderID int64, to model.OrderStatus) (*model.Order, error) {
	return f.orders.Advance(ctx, actorID, role, orderID, to)
}

func (f *StorefrontFacade) CancelOrder(ctx context.Context, actorID int64, role model.Role, orderID int64) error {
	return f.orders.Cancel(ctx, actorID, role, orderID)
}

func (f *StorefrontFacade) UpdateOrderAddress(ctx context.Context, actorID int64, role model.Role, orderID int64, address string) error {
	return f.orders.UpdateAddress(ctx, actorID, role, orderID, address)
}

func (f *StorefrontFacade) StartCheckout(ctx context.Context, userID int64, lines []model.OrderLine, metadata map[string]string) (*model.CheckoutSession, string, error) {
	return f.checkout.Start(ctx, userID, lines, metadata)
}

func (f *StorefrontFacade) Checkout(ctx context.Context, actorID int64, role model.Role, id string) (*model.CheckoutSession, error) {
	return f.checkout.Get(ctx, actorID, role, id)
}

func (f *StorefrontFacade) CompleteCheckout(ctx context.Context, actorID int64, role model.Role, id string) (*model.Order, error) {
	return f.checkout.Complete(ctx, actorID, role, id)
}

func (f *StorefrontFacade) ExpireCheckoutSessions(ctx context.Context, now time.Time, limit int) ([]string, error) {
	return f.checkout.ExpireOverdue(ctx, now, limit)
}
