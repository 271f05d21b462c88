package test

import (
	"context"
	"sync"

	"github.com/rvasilyev/storefront/internal/adapter/events"
	"github.com/rvasilyev/storefront/internal/adapter/payment"
)

// GatewayStub simulates the external payment provider.
type GatewayStub struct {
	CreateFn func(context.Context, payment.SessionRequest) (*payment.Session, error)
	Requests []payment.SessionRequest
}

// CreateSession records the request and returns a deterministic session.
func (s *GatewayStub) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	s.Requests = append(s.Requests, req)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &payment.Session{ID: "cs_" + req.Reference, URL: "https://pay.example/" + req.Reference}, nil
}

// EventSinkStub collects published order events.
type EventSinkStub struct {
	Err    error
	mu     sync.Mutex
	events []events.OrderEvent
}

// PublishOrderEvent stores the event or fails with the configured error.
func (s *EventSinkStub) PublishOrderEvent(ctx context.Context, event events.OrderEvent) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of collected events.
func (s *EventSinkStub) Events() []events.OrderEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.OrderEvent, len(s.events))
	copy(out, s.events)
	return out
}
