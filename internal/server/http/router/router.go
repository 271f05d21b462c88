package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rvasilyev/storefront/internal/server/http/handlers"
	"github.com/rvasilyev/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)

	productsAdmin := api.Group("/products")
	productsAdmin.Use(middleware.AuthRequired(facade), middleware.AdminRequired())
	productsAdmin.POST("", productHandler.Create)
	productsAdmin.PATCH("/:id/price", productHandler.UpdatePrice)
	productsAdmin.PATCH("/:id/stock", productHandler.AdjustStock)

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(facade))
	orders.POST("", orderHandler.Place)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/cancel", orderHandler.Cancel)
	orders.PATCH("/:id/address", orderHandler.UpdateAddress)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(facade), middleware.AdminRequired())
	admin.GET("/orders", orderHandler.ListAll)
	admin.PATCH("/orders/:id/status", orderHandler.Advance)

	checkout := api.Group("/checkout")
	checkout.Use(middleware.AuthRequired(facade))
	checkout.POST("", checkoutHandler.Start)
	checkout.GET("/:id", checkoutHandler.Get)
	checkout.POST("/:id/complete", checkoutHandler.Complete)

	return engine
}
