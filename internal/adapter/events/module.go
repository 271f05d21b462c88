package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/rvasilyev/storefront/internal/config"
)

// Module provides the order event publisher. Without a broker URL the
// application runs with a no-op publisher.
var Module = fx.Options(
	fx.Provide(newPublisher),
	fx.Invoke(registerLifecycle),
)

type publisherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newPublisher(p publisherParams) (Publisher, error) {
	if p.Config.AMQPURL == "" {
		p.Logger.Info("order events disabled, no AMQP URL configured")
		return NoopPublisher{}, nil
	}
	return NewAMQPPublisher(p.Config.AMQPURL, p.Config.OrderExchange)
}

func registerLifecycle(lc fx.Lifecycle, publisher Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			publisher.Close()
			return nil
		},
	})
}
