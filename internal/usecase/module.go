package usecase

import (
	"go.uber.org/fx"

	"github.com/rvasilyev/storefront/internal/config"
)

func newCheckoutOptions(cfg *config.Config) CheckoutOptions {
	return CheckoutOptions{
		SessionTTL: cfg.SessionTTL,
		ReturnURL:  cfg.CheckoutReturnURL,
		Currency:   cfg.Currency,
	}
}

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newCheckoutOptions,
	NewAuthUseCase,
	NewCatalogUseCase,
	NewOrderUseCase,
	NewCheckoutUseCase,
)
