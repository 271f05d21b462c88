package repository

import (
	"context"
	"time"

	"github.com/rvasilyev/storefront/internal/domain/model"
)

// CheckoutRepository persists checkout sessions. Only pending, unexpired
// sessions are visible to GetPending; terminal sessions read as not found.
type CheckoutRepository interface {
	Create(ctx context.Context, session *model.CheckoutSession) error
	GetPending(ctx context.Context, id string) (*model.CheckoutSession, error)
	SetProviderSession(ctx context.Context, id, providerSession string) error
	// Complete flips the session to completed and places the order derived
	// from its snapshot in one transaction; on any failure the session
	// stays pending and no order exists.
	Complete(ctx context.Context, id string) (*model.Order, error)
	// ExpireOverdue marks up to limit overdue pending sessions expired and
	// returns their ids.
	ExpireOverdue(ctx context.Context, now time.Time, limit int) ([]string, error)
}
