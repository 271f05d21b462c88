package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rvasilyev/storefront/internal/domain/model"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, model.Role, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken resolves identity for authenticated requests.
func (s AuthFacadeStub) ParseToken(token string) (int64, model.Role, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, model.RoleClient, nil
}

// CatalogFacadeStub provides controllable behaviour for catalog endpoints.
type CatalogFacadeStub struct {
	ProductsFn    func(context.Context) ([]model.Product, error)
	ProductFn     func(context.Context, int64) (*model.Product, error)
	CreateFn      func(context.Context, model.Role, *model.Product) (*model.Product, error)
	UpdatePriceFn func(context.Context, model.Role, int64, int64) error
	AdjustStockFn func(context.Context, model.Role, int64, int32) (*model.Product, error)
}

// Products returns the configured catalog listing.
func (s CatalogFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return []model.Product{{ID: 1, Name: "widget", Price: 100, Stock: 10}}, nil
}

// Product returns one catalog entry.
func (s CatalogFacadeStub) Product(ctx context.Context, id int64) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "widget", Price: 100, Stock: 10}, nil
}

// CreateProduct stores a new catalog entry.
func (s CatalogFacadeStub) CreateProduct(ctx context.Context, role model.Role, p *model.Product) (*model.Product, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, role, p)
	}
	created := *p
	created.ID = 1
	return &created, nil
}

// UpdateProductPrice changes a unit price.
func (s CatalogFacadeStub) UpdateProductPrice(ctx context.Context, role model.Role, id, price int64) error {
	if s.UpdatePriceFn != nil {
		return s.UpdatePriceFn(ctx, role, id, price)
	}
	return nil
}

// AdjustProductStock applies a stock delta.
func (s CatalogFacadeStub) AdjustProductStock(ctx context.Context, role model.Role, id int64, delta int32) (*model.Product, error) {
	if s.AdjustStockFn != nil {
		return s.AdjustStockFn(ctx, role, id, delta)
	}
	return &model.Product{ID: id, Name: "widget", Price: 100, Stock: 10 + delta}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn         func(context.Context, int64, string, []model.OrderLine) (*model.Order, error)
	OrderFn         func(context.Context, int64, model.Role, int64) (*model.Order, error)
	MyOrdersFn      func(context.Context, int64) ([]model.Order, error)
	AllOrdersFn     func(context.Context, model.Role) ([]model.Order, error)
	AdvanceFn       func(context.Context, int64, model.Role, int64, model.OrderStatus) (*model.Order, error)
	CancelFn        func(context.Context, int64, model.Role, int64) error
	UpdateAddressFn func(context.Context, int64, model.Role, int64, string) error
}

// PlaceOrder delegates to provided function or returns a default order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, userID int64, address string, lines []model.OrderLine) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, userID, address, lines)
	}
	return &model.Order{ID: 1, UserID: userID, Address: address, Status: model.OrderStatusPending}, nil
}

// Order returns one order.
func (s OrderFacadeStub) Order(ctx context.Context, actorID int64, role model.Role, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actorID, role, orderID)
	}
	return &model.Order{ID: orderID, UserID: actorID, Status: model.OrderStatusPending}, nil
}

// MyOrders returns predefined orders for given user.
func (s OrderFacadeStub) MyOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.MyOrdersFn != nil {
		return s.MyOrdersFn(ctx, userID)
	}
	return []model.Order{{ID: 1, UserID: userID, Status: model.OrderStatusPending}}, nil
}

// AllOrders returns every stored order for administrators.
func (s OrderFacadeStub) AllOrders(ctx context.Context, role model.Role) ([]model.Order, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, role)
	}
	return []model.Order{{ID: 1, Status: model.OrderStatusPending}}, nil
}

// AdvanceOrder moves an order along its lifecycle.
func (s OrderFacadeStub) AdvanceOrder(ctx context.Context, actorID int64, role model.Role, orderID int64, to model.OrderStatus) (*model.Order, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, actorID, role, orderID, to)
	}
	return &model.Order{ID: orderID, Status: to}, nil
}

// CancelOrder cancels an order.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, actorID int64, role model.Role, orderID int64) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, actorID, role, orderID)
	}
	return nil
}

// UpdateOrderAddress changes a shipping address.
func (s OrderFacadeStub) UpdateOrderAddress(ctx context.Context, actorID int64, role model.Role, orderID int64, address string) error {
	if s.UpdateAddressFn != nil {
		return s.UpdateAddressFn(ctx, actorID, role, orderID, address)
	}
	return nil
}

// CheckoutFacadeStub simulates checkout session operations.
type CheckoutFacadeStub struct {
	StartFn    func(context.Context, int64, []model.OrderLine, map[string]string) (*model.CheckoutSession, string, error)
	CheckoutFn func(context.Context, int64, model.Role, string) (*model.CheckoutSession, error)
	CompleteFn func(context.Context, int64, model.Role, string) (*model.Order, error)
}

// StartCheckout opens a session.
func (s CheckoutFacadeStub) StartCheckout(ctx context.Context, userID int64, lines []model.OrderLine, metadata map[string]string) (*model.CheckoutSession, string, error) {
	if s.StartFn != nil {
		return s.StartFn(ctx, userID, lines, metadata)
	}
	session := &model.CheckoutSession{
		ID:        "sess-1",
		UserID:    userID,
		Status:    model.CheckoutStatusPending,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return session, "https://pay.example/sess-1", nil
}

// Checkout returns a pending session.
func (s CheckoutFacadeStub) Checkout(ctx context.Context, actorID int64, role model.Role, id string) (*model.CheckoutSession, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, actorID, role, id)
	}
	return &model.CheckoutSession{
		ID:        id,
		UserID:    actorID,
		Status:    model.CheckoutStatusPending,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

// CompleteCheckout finishes a session producing an order.
func (s CheckoutFacadeStub) CompleteCheckout(ctx context.Context, actorID int64, role model.Role, id string) (*model.Order, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, actorID, role, id)
	}
	return &model.Order{ID: 1, UserID: actorID, Status: model.OrderStatusPending}, nil
}

// StorefrontFacadeStub aggregates the facade stubs for router level tests.
type StorefrontFacadeStub struct {
	AuthFacadeStub
	CatalogFacadeStub
	OrderFacadeStub
	CheckoutFacadeStub
}

// ExpireCall stores information about one sweep invocation.
type ExpireCall struct {
	Now   time.Time
	Limit int
}

// SessionExpirerStub mimics sweeper interactions with the application facade.
type SessionExpirerStub struct {
	Batches  [][]string
	ExpireFn func(context.Context, time.Time, int) ([]string, error)

	mu        sync.Mutex
	Calls     []ExpireCall
	callCount int32
}

// ExpireCheckoutSessions returns batches from the configured queue.
func (s *SessionExpirerStub) ExpireCheckoutSessions(ctx context.Context, now time.Time, limit int) ([]string, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, ExpireCall{Now: now, Limit: limit})
	s.mu.Unlock()
	if s.ExpireFn != nil {
		return s.ExpireFn(ctx, now, limit)
	}
	call := atomic.AddInt32(&s.callCount, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	return nil, nil
}

// CallCount reports how many sweeps ran.
func (s *SessionExpirerStub) CallCount() int {
	return int(atomic.LoadInt32(&s.callCount))
}
