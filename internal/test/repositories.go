package test

import (
	"context"
	"sort"
	"time"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ProductRepositoryStub keeps catalog entries in-memory.
type ProductRepositoryStub struct {
	Products map[int64]*model.Product
	Next     int64
	Err      error
}

// NewProductRepositoryStub constructs the stub with initialized storage.
func NewProductRepositoryStub(seed ...model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{Products: make(map[int64]*model.Product), Next: 1}
	for _, p := range seed {
		product := p
		if product.ID == 0 {
			product.ID = s.Next
		}
		if product.ID >= s.Next {
			s.Next = product.ID + 1
		}
		s.Products[product.ID] = &product
	}
	return s
}

// Create stores a new product and assigns an identifier.
func (s *ProductRepositoryStub) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	product := *p
	product.ID = s.Next
	s.Next++
	s.Products[product.ID] = &product
	return &product, nil
}

// GetByID returns the stored product or not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Products[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByIDs returns products present in storage; missing ids are skipped.
func (s *ProductRepositoryStub) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.Products[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

// List returns all products ordered by id.
func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	ids := make([]int64, 0, len(s.Products))
	for id := range s.Products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		result = append(result, *s.Products[id])
	}
	return result, nil
}

// UpdatePrice changes the stored unit price.
func (s *ProductRepositoryStub) UpdatePrice(ctx context.Context, id int64, price int64) error {
	if s.Err != nil {
		return s.Err
	}
	p, ok := s.Products[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	p.Price = price
	return nil
}

// AdjustStock applies a signed delta refusing to cross zero.
func (s *ProductRepositoryStub) AdjustStock(ctx context.Context, id int64, delta int32) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.Products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	next := p.Stock + delta
	if next < 0 {
		return nil, domainErrors.InsufficientStockError{Shortages: []domainErrors.StockShortage{
			{ProductID: id, Available: p.Stock, Requested: -delta},
		}}
	}
	p.Stock = next
	copy := *p
	return &copy, nil
}

// OrderStatusCall records one guarded status transition request.
type OrderStatusCall struct {
	OrderID int64
	From    model.OrderStatus
	To      model.OrderStatus
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn        func(context.Context, int64, string, []model.OrderLine) (*model.Order, error)
	GetByIDFn       func(context.Context, int64) (*model.Order, error)
	ListByUserFn    func(context.Context, int64) ([]model.Order, error)
	ListFn          func(context.Context) ([]model.Order, error)
	UpdateStatusFn  func(context.Context, int64, model.OrderStatus, model.OrderStatus) error
	CancelFn        func(context.Context, int64) error
	UpdateAddressFn func(context.Context, int64, string) error

	Orders      []model.Order
	StatusCalls []OrderStatusCall
	Cancelled   []int64
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, userID int64, address string, lines []model.OrderLine) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, address, lines)
	}
	order := model.Order{ID: int64(len(s.Orders) + 1), UserID: userID, Address: address, Status: model.OrderStatusPending}
	for _, line := range lines {
		price := int64(100)
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		order.Items = append(order.Items, model.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     price,
		})
		order.Total += price * int64(line.Quantity)
	}
	s.Orders = append(s.Orders, order)
	return &order, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, orderID)
	}
	for _, o := range s.Orders {
		if o.ID == orderID {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns orders from configured slice.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	result := make([]model.Order, 0)
	for _, o := range s.Orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

// List returns all stored orders.
func (s *OrderRepositoryStub) List(ctx context.Context) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return s.Orders, nil
}

// UpdateStatus records the requested transition and applies it in place.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	s.StatusCalls = append(s.StatusCalls, OrderStatusCall{OrderID: orderID, From: from, To: to})
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, from, to)
	}
	for i := range s.Orders {
		if s.Orders[i].ID != orderID {
			continue
		}
		if s.Orders[i].CancelledAt != nil {
			return domainErrors.ErrOrderCancelled
		}
		if s.Orders[i].Status != from {
			return domainErrors.IllegalTransitionError{From: string(s.Orders[i].Status), To: string(to)}
		}
		s.Orders[i].Status = to
		return nil
	}
	return domainErrors.ErrNotFound
}

// Cancel marks the order cancelled.
func (s *OrderRepositoryStub) Cancel(ctx context.Context, orderID int64) error {
	s.Cancelled = append(s.Cancelled, orderID)
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID)
	}
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			now := time.Now()
			s.Orders[i].CancelledAt = &now
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// UpdateAddress changes the shipping address of a stored order.
func (s *OrderRepositoryStub) UpdateAddress(ctx context.Context, orderID int64, address string) error {
	if s.UpdateAddressFn != nil {
		return s.UpdateAddressFn(ctx, orderID, address)
	}
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			s.Orders[i].Address = address
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// CheckoutRepositoryStub keeps checkout sessions in-memory.
type CheckoutRepositoryStub struct {
	Sessions map[string]*model.CheckoutSession
	Orders   *OrderRepositoryStub

	CreateFn        func(context.Context, *model.CheckoutSession) error
	GetPendingFn    func(context.Context, string) (*model.CheckoutSession, error)
	CompleteFn      func(context.Context, string) (*model.Order, error)
	ExpireOverdueFn func(context.Context, time.Time, int) ([]string, error)
}

// NewCheckoutRepositoryStub constructs the stub with initialized storage.
func NewCheckoutRepositoryStub() *CheckoutRepositoryStub {
	return &CheckoutRepositoryStub{
		Sessions: make(map[string]*model.CheckoutSession),
		Orders:   &OrderRepositoryStub{},
	}
}

// Create stores the session.
func (s *CheckoutRepositoryStub) Create(ctx context.Context, session *model.CheckoutSession) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, session)
	}
	copy := *session
	s.Sessions[session.ID] = &copy
	return nil
}

// GetPending returns the session while it is pending and unexpired.
func (s *CheckoutRepositoryStub) GetPending(ctx context.Context, id string) (*model.CheckoutSession, error) {
	if s.GetPendingFn != nil {
		return s.GetPendingFn(ctx, id)
	}
	session, ok := s.Sessions[id]
	if !ok || session.Status != model.CheckoutStatusPending || !session.ExpiresAt.After(time.Now()) {
		return nil, domainErrors.ErrNotFound
	}
	copy := *session
	return &copy, nil
}

// SetProviderSession stores the provider session reference.
func (s *CheckoutRepositoryStub) SetProviderSession(ctx context.Context, id, providerSession string) error {
	session, ok := s.Sessions[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	session.ProviderSession = providerSession
	return nil
}

// Complete flips the session and derives an order from its snapshot.
func (s *CheckoutRepositoryStub) Complete(ctx context.Context, id string) (*model.Order, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, id)
	}
	session, ok := s.Sessions[id]
	if !ok || session.Status != model.CheckoutStatusPending || !session.ExpiresAt.After(time.Now()) {
		return nil, domainErrors.ErrNotFound
	}
	lines := make([]model.OrderLine, 0, len(session.Snapshot.Items))
	for _, item := range session.Snapshot.Items {
		price := item.Price
		lines = append(lines, model.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: &price})
	}
	order, err := s.Orders.Create(ctx, session.UserID, "", lines)
	if err != nil {
		return nil, err
	}
	session.Status = model.CheckoutStatusCompleted
	return order, nil
}

// ExpireOverdue marks overdue pending sessions expired.
func (s *CheckoutRepositoryStub) ExpireOverdue(ctx context.Context, now time.Time, limit int) ([]string, error) {
	if s.ExpireOverdueFn != nil {
		return s.ExpireOverdueFn(ctx, now, limit)
	}
	var ids []string
	for id, session := range s.Sessions {
		if len(ids) >= limit {
			break
		}
		if session.Status == model.CheckoutStatusPending && !session.ExpiresAt.After(now) {
			session.Status = model.CheckoutStatusExpired
			ids = append(ids, id)
		}
	}
	return ids, nil
}
