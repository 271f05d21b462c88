package handlers

import (
	"context"

	"github.com/rvasilyev/storefront/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, model.Role, error)
}

// CatalogFacade provides catalog operations exposed via HTTP.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, role model.Role, p *model.Product) (*model.Product, error)
	UpdateProductPrice(ctx context.Context, role model.Role, id, price int64) error
	AdjustProductStock(ctx context.Context, role model.Role, id int64, delta int32) (*model.Product, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID int64, address string, lines []model.OrderLine) (*model.Order, error)
	Order(ctx context.Context, actorID int64, role model.Role, orderID int64) (*model.Order, error)
	MyOrders(ctx context.Context, userID int64) ([]model.Order, error)
	AllOrders(ctx context.Context, role model.Role) ([]model.Order, error)
	AdvanceOrder(ctx context.Context, actorID int64, role model.Role, orderID int64, to model.OrderStatus) (*model.Order, error)
	CancelOrder(ctx context.Context, actorID int64, role model.Role, orderID int64) error
	UpdateOrderAddress(ctx context.Context, actorID int64, role model.Role, orderID int64, address string) error
}

// CheckoutFacade provides checkout session operations.
type CheckoutFacade interface {
	StartCheckout(ctx context.Context, userID int64, lines []model.OrderLine, metadata map[string]string) (*model.CheckoutSession, string, error)
	Checkout(ctx context.Context, actorID int64, role model.Role, id string) (*model.CheckoutSession, error)
	CompleteCheckout(ctx context.Context, actorID int64, role model.Role, id string) (*model.Order, error)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	CatalogFacade
	OrderFacade
	CheckoutFacade
}
