package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/izzah/storefront/api/controllers"
	"github.com/izzah/storefront/api/routes"
	"github.com/izzah/storefront/internal/cart"
	"github.com/izzah/storefront/internal/checkout"
	"github.com/izzah/storefront/internal/orders"
	products "github.com/izzah/storefront/internal/products"
	"github.com/izzah/storefront/pkg/config"
	"github.com/izzah/storefront/pkg/db"
	"github.com/izzah/storefront/pkg/kv"
	"github.com/izzah/storefront/pkg/logger"
	"github.com/izzah/storefront/pkg/metrics"
	"github.com/izzah/storefront/pkg/migrate"
	"github.com/izzah/storefront/pkg/pubsub"
	"github.com/izzah/storefront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

type kvBackend interface {
	kv.Store
	Ping(ctx context.Context) error
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var store kvBackend
	if cfg.KV.UsesRedis() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		store = redisClient
	} else {
		logg.Warn(ctx, "using in-memory kv store; carts and sessions are lost on restart")
		store = kv.NewMemory()
	}

	checks := []controllers.ReadinessCheck{
		{Name: "db", Pinger: dbClient},
		{Name: "kv", Pinger: store},
	}

	carts, err := cart.NewStore(store, cfg.KV.CartTTL, cfg.KV.SessionTTL)
	if err != nil {
		logg.Error(ctx, "failed to create cart store", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), carts)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}

	var publisher orders.EventPublisher
	if cfg.PubSub.OrdersTopic != "" {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		orderEvents, err := pubsub.NewOrderEventPublisher(psClient)
		if err != nil {
			logg.Error(ctx, "failed to create order event publisher", err)
			os.Exit(1)
		}
		publisher = orderEvents
		checks = append(checks, controllers.ReadinessCheck{Name: "pubsub", Pinger: psClient})
	} else {
		logg.Info(ctx, "orders topic not configured; order events disabled")
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB(), cfg.Checkout.MaxOrderBytes), publisher, logg)
	if err != nil {
		logg.Error(ctx, "failed to create order service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		KV:             store,
		Carts:          carts,
		Orders:         orderService,
		Promos:         checkout.NewPromoValidator(cfg.Checkout.PromoCodes),
		Proofs:         checkout.NewProofIngestor(cfg.Checkout.MaxProofBytes()),
		Metrics:        metrics.NewCheckoutMetrics(registry),
		Logger:         logg,
		SessionTTL:     cfg.KV.SessionTTL,
		SessionLockTTL: cfg.Checkout.SessionLockTTL,
	})
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"kv":   cfg.KV.Driver,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, checks, registry, productService, carts, checkoutService, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
		}
	}
}
