package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/rvasilyev/storefront/internal/adapter/events"
	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/domain/model"
	"github.com/rvasilyev/storefront/internal/domain/repository"
)

// EventSink publishes order lifecycle events after successful commits.
// Publishing failures are logged and never fail the operation.
type EventSink interface {
	PublishOrderEvent(ctx context.Context, event events.OrderEvent) error
}

// OrderUseCase encapsulates order placement and lifecycle logic.
type OrderUseCase struct {
	orders repository.OrderRepository
	sink   EventSink
	logger *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, sink EventSink, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, sink: sink, logger: logger}
}

// Place validates the cart and runs the atomic placement transaction.
func (u *OrderUseCase) Place(ctx context.Context, userID int64, address string, lines []model.OrderLine) (*model.Order, error) {
	if err := ValidateCart(lines); err != nil {
		return nil, err
	}
	if err := ValidateAddress(address); err != nil {
		return nil, err
	}

	order, err := u.orders.Create(ctx, userID, address, lines)
	if err != nil {
		return nil, err
	}

	u.publish(ctx, events.TypeOrderCreated, order)
	return order, nil
}

// Get returns the order when the actor may see it. Cross-tenant access reads
// as not found rather than forbidden.
func (u *OrderUseCase) Get(ctx context.Context, actorID int64, role model.Role, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !Allow(role, actorID, order.UserID, ActionViewOrder) {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ListMine returns the actor's own orders sorted by creation time.
func (u *OrderUseCase) ListMine(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// ListAll returns every order; admin only.
func (u *OrderUseCase) ListAll(ctx context.Context, role model.Role) ([]model.Order, error) {
	if !Allow(role, 0, 0, ActionListAllOrders) {
		return nil, domainErrors.ErrForbidden
	}
	return u.orders.List(ctx)
}

// Advance moves an order forward through the status machine; admin only.
func (u *OrderUseCase) Advance(ctx context.Context, actorID int64, role model.Role, orderID int64, to model.OrderStatus) (*model.Order, error) {
	if !Allow(role, actorID, 0, ActionAdvanceOrder) {
		return nil, domainErrors.ErrForbidden
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Cancelled() {
		return nil, domainErrors.ErrOrderCancelled
	}
	if !model.ValidOrderStatus(to) || !model.CanTransition(order.Status, to) {
		return nil, domainErrors.IllegalTransitionError{From: string(order.Status), To: string(to)}
	}

	if err := u.orders.UpdateStatus(ctx, orderID, order.Status, to); err != nil {
		return nil, err
	}

	order.Status = to
	u.publish(ctx, events.TypeOrderStatusChanged, order)
	return order, nil
}

// Cancel soft-cancels the order and releases its stock reservation. Owners
// and admins only; other users observe the order as absent.
func (u *OrderUseCase) Cancel(ctx context.Context, actorID int64, role model.Role, orderID int64) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !Allow(role, actorID, order.UserID, ActionCancelOrder) {
		return domainErrors.ErrNotFound
	}

	if err := u.orders.Cancel(ctx, orderID); err != nil {
		return err
	}

	u.publish(ctx, events.TypeOrderCancelled, order)
	return nil
}

// UpdateAddress edits the delivery address of a still-pending order.
func (u *OrderUseCase) UpdateAddress(ctx context.Context, actorID int64, role model.Role, orderID int64, address string) error {
	if err := ValidateAddress(address); err != nil {
		return err
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !Allow(role, actorID, order.UserID, ActionEditOrder) {
		return domainErrors.ErrNotFound
	}

	return u.orders.UpdateAddress(ctx, orderID, address)
}

func (u *OrderUseCase) publish(ctx context.Context, eventType string, order *model.Order) {
	if u.sink == nil {
		return
	}
	event := events.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Total:      order.Total,
		Status:     string(order.Status),
		OccurredAt: time.Now().UTC(),
	}
	if err := u.sink.PublishOrderEvent(ctx, event); err != nil {
		u.logger.Warn("order event publish failed",
			slog.String("type", eventType),
			slog.Int64("order", order.ID),
			slog.String("error", err.Error()),
		)
	}
}
