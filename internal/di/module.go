package di

import (
	"go.uber.org/fx"

	"github.com/rvasilyev/storefront/internal/adapter/events"
	"github.com/rvasilyev/storefront/internal/adapter/payment"
	"github.com/rvasilyev/storefront/internal/app"
	"github.com/rvasilyev/storefront/internal/config"
	"github.com/rvasilyev/storefront/internal/logger"
	"github.com/rvasilyev/storefront/internal/pkg/auth"
	"github.com/rvasilyev/storefront/internal/server/http/handlers"
	"github.com/rvasilyev/storefront/internal/server/http/router"
	"github.com/rvasilyev/storefront/internal/storage/postgres"
	"github.com/rvasilyev/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payment.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(publisher events.Publisher) usecase.EventSink { return publisher }),
		fx.Provide(func(facade *app.StorefrontFacade) handlers.StorefrontFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
