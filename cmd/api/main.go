package main

import (
	"context"
	"log"
	"time"

	"support-agent/internal/core/config"
	"support-agent/internal/core/idempotency"
	"support-agent/internal/core/logger"
	"support-agent/internal/core/server"
	"support-agent/internal/core/shopify"
	customeradapter "support-agent/internal/features/customers/adapters"
	customerservice "support-agent/internal/features/customers/service"
	orderadapter "support-agent/internal/features/orders/adapters"
	orderhandler "support-agent/internal/features/orders/handler"
	orderservice "support-agent/internal/features/orders/service"
	productadapter "support-agent/internal/features/products/adapters"
	producthandler "support-agent/internal/features/products/handler"
	productservice "support-agent/internal/features/products/service"
	ticketservice "support-agent/internal/features/tickets/service"
	"support-agent/internal/features/tools"

	"go.uber.org/zap"
)

// @title Support Agent API
// @version 1.0
// @description Customer-support tool layer for a Shopify snowboard storefront.
// @contact.name API Support
// @contact.email support@techgearsnowboards.com
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Initialize the Shopify Admin API client and run a health check
	gateway := shopify.NewClient(cfg.Shopify)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := gateway.HealthCheck(ctx); err != nil {
		l.Fatal("Shopify Health Check Failed", zap.Error(err))
	}
	l.Info("Shopify connection verified", zap.String("store", cfg.Shopify.StoreDomain))

	// Initialize the idempotency store: Redis when configured, in-memory otherwise
	var store idempotency.Store
	if cfg.Cache.RedisURL != "" {
		redisStore, err := idempotency.NewRedisStore(cfg.Cache.RedisURL)
		if err != nil {
			l.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		if err := redisStore.Ping(ctx); err != nil {
			l.Fatal("Redis Health Check Failed", zap.Error(err))
		}
		l.Info("Redis connection verified")
		store = redisStore
	} else {
		memStore := idempotency.NewMemoryStore()
		memStore.StartSweeper(5*time.Minute, 5*time.Minute)
		l.Info("Using in-memory idempotency store")
		store = memStore
	}
	defer store.Close()

	// Initialize Shopify Adapters
	orderAdapter := orderadapter.NewShopifyAdapter(gateway)
	productAdapter := productadapter.NewShopifyAdapter(gateway)
	customerAdapter := customeradapter.NewShopifyAdapter(gateway)

	// Initialize Services
	orderService := orderservice.NewOrderService(orderAdapter, orderAdapter, cfg.Support)
	productService := productservice.NewProductService(productAdapter, productAdapter)
	customerService := customerservice.NewCustomerService(customerAdapter, customerAdapter)
	ticketService := ticketservice.NewTicketService(store, cfg.Support)

	// Initialize Handlers
	orderHandler := orderhandler.NewOrderHandler(orderService)
	productHandler := producthandler.NewProductHandler(productService)
	toolHandler := tools.NewHandler(tools.NewRegistry(tools.Catalog(tools.Services{
		Orders:    orderService,
		Products:  productService,
		Customers: customerService,
		Tickets:   ticketService,
	})))

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/orders/:number", orderHandler.GetOrder)
	srv.App.Get("/orders/:number/tracking", orderHandler.GetOrderTracking)
	srv.App.Get("/products/search", productHandler.SearchProducts)
	srv.App.Get("/products/details", productHandler.GetProductDetails)
	srv.App.Post("/rpc", toolHandler.Dispatch)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
