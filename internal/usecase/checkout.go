package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rvasilyev/storefront/internal/adapter/events"
	"github.com/rvasilyev/storefront/internal/adapter/payment"
	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/domain/model"
	"github.com/rvasilyev/storefront/internal/domain/repository"
)

// CheckoutOptions carries checkout configuration resolved from config.
type CheckoutOptions struct {
	SessionTTL time.Duration
	ReturnURL  string
	Currency   string
}

// CheckoutUseCase bridges local cart snapshots to the hosted payment flow.
type CheckoutUseCase struct {
	checkouts repository.CheckoutRepository
	products  repository.ProductRepository
	gateway   payment.Gateway
	sink      EventSink
	opts      CheckoutOptions
	logger    *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	checkouts repository.CheckoutRepository,
	products repository.ProductRepository,
	gateway payment.Gateway,
	sink EventSink,
	opts CheckoutOptions,
	logger *slog.Logger,
) *CheckoutUseCase {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}
	return &CheckoutUseCase{
		checkouts: checkouts,
		products:  products,
		gateway:   gateway,
		sink:      sink,
		opts:      opts,
		logger:    logger,
	}
}

// Start validates the cart, snapshots current catalog prices into a pending
// session, and requests a hosted payment page. A provider failure leaves the
// pending session intact; it stays queryable until it expires.
func (u *CheckoutUseCase) Start(ctx context.Context, userID int64, lines []model.OrderLine, metadata map[string]string) (*model.CheckoutSession, string, error) {
	if err := ValidateCart(lines); err != nil {
		return nil, "", err
	}

	snapshot, err := u.buildSnapshot(ctx, lines)
	if err != nil {
		return nil, "", err
	}

	session := &model.CheckoutSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Snapshot:  *snapshot,
		Metadata:  metadata,
		Status:    model.CheckoutStatusPending,
		ExpiresAt: time.Now().Add(u.opts.SessionTTL),
	}
	if err := u.checkouts.Create(ctx, session); err != nil {
		return nil, "", err
	}

	items := make([]payment.LineItem, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, payment.LineItem{
			Name:     item.Name,
			Amount:   item.Price,
			Quantity: int64(item.Quantity),
		})
	}

	hosted, err := u.gateway.CreateSession(ctx, payment.SessionRequest{
		Reference:  session.ID,
		Currency:   u.opts.Currency,
		Items:      items,
		SuccessURL: u.opts.ReturnURL + "/success",
		CancelURL:  u.opts.ReturnURL + "/cancel",
		Metadata:   metadata,
	})
	if err != nil {
		// The pending row survives a provider failure on purpose; callers
		// get the session id alongside the classified error.
		return session, "", err
	}

	if err := u.checkouts.SetProviderSession(ctx, session.ID, hosted.ID); err != nil {
		return session, "", err
	}
	session.ProviderSession = hosted.ID

	return session, hosted.URL, nil
}

// Get returns a pending, unexpired session visible to the actor. Terminal,
// expired, and foreign sessions all read as not found.
func (u *CheckoutUseCase) Get(ctx context.Context, actorID int64, role model.Role, id string) (*model.CheckoutSession, error) {
	session, err := u.checkouts.GetPending(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Allow(role, actorID, session.UserID, ActionViewCheckout) {
		return nil, domainErrors.ErrNotFound
	}
	return session, nil
}

// Complete flips the session to completed and derives the order from its
// snapshot in one transaction. A second completion reads as not found.
func (u *CheckoutUseCase) Complete(ctx context.Context, actorID int64, role model.Role, id string) (*model.Order, error) {
	session, err := u.checkouts.GetPending(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Allow(role, actorID, session.UserID, ActionViewCheckout) {
		return nil, domainErrors.ErrNotFound
	}

	order, err := u.checkouts.Complete(ctx, id)
	if err != nil {
		return nil, err
	}

	u.publishCreated(ctx, order)
	return order, nil
}

// ExpireOverdue marks up to limit overdue pending sessions expired and
// returns their ids.
func (u *CheckoutUseCase) ExpireOverdue(ctx context.Context, now time.Time, limit int) ([]string, error) {
	return u.checkouts.ExpireOverdue(ctx, now, limit)
}

// buildSnapshot resolves current names and prices for the requested lines.
// The stock check here is advisory; the authoritative one runs under row
// locks when the session completes.
func (u *CheckoutUseCase) buildSnapshot(ctx context.Context, lines []model.OrderLine) (*model.CartSnapshot, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := u.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, domainErrors.UnknownProductsError{IDs: missing}
	}

	var shortages []domainErrors.StockShortage
	snapshot := &model.CartSnapshot{}
	for _, line := range lines {
		p := byID[line.ProductID]
		if line.Quantity > p.Stock {
			shortages = append(shortages, domainErrors.StockShortage{
				ProductID: line.ProductID,
				Available: p.Stock,
				Requested: line.Quantity,
			})
			continue
		}
		snapshot.Items = append(snapshot.Items, model.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			Price:     p.Price,
		})
		snapshot.Total += p.Price * int64(line.Quantity)
	}
	if len(shortages) > 0 {
		return nil, domainErrors.InsufficientStockError{Shortages: shortages}
	}

	return snapshot, nil
}

func (u *CheckoutUseCase) publishCreated(ctx context.Context, order *model.Order) {
	if u.sink == nil {
		return
	}
	event := events.OrderEvent{
		Type:       events.TypeOrderCreated,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Total:      order.Total,
		Status:     string(order.Status),
		OccurredAt: time.Now().UTC(),
	}
	if err := u.sink.PublishOrderEvent(ctx, event); err != nil {
		u.logger.Warn("order event publish failed",
			slog.String("type", event.Type),
			slog.Int64("order", order.ID),
			slog.String("error", err.Error()),
		)
	}
}
