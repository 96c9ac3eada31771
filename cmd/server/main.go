// @title           Tea Tree Storefront API
// @version         1.0
// @description     Catalog, orders and card payments for the Tea Tree store.
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/teatree/storefront-api/internal/api"
	"github.com/teatree/storefront-api/internal/api/handler"
	"github.com/teatree/storefront-api/internal/core/service"
	mongostore "github.com/teatree/storefront-api/internal/infrastructure/db/mongo"
	redisstore "github.com/teatree/storefront-api/internal/infrastructure/db/redis"
	stripeprocessor "github.com/teatree/storefront-api/internal/infrastructure/payment/stripe"
	"github.com/teatree/storefront-api/internal/infrastructure/queue"
	"github.com/teatree/storefront-api/internal/pkg/config"
	"github.com/teatree/storefront-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		User:     cfg.Mongo.User,
		Password: cfg.Mongo.Password,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	tokens, err := service.NewTokenService(cfg.Token.Secret, cfg.Token.TTL, redisstore.NewSessionRegistry(rdb))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token service")
	}

	paymentRepo := mongostore.NewPaymentRepository(db)

	identities := service.NewIdentityService(mongostore.NewIdentityRepository(db), tokens, logger.Component("identities"))
	orders := service.NewOrderService(mongostore.NewOrderRepository(db), logger.Component("orders"))
	payments := service.NewPaymentService(
		paymentRepo,
		orders,
		stripeprocessor.NewProcessor(cfg.Stripe.SecretKey, cfg.Stripe.Timeout),
		cfg.Stripe.Timeout,
		logger.Component("payments"),
	)
	catalog := service.NewCatalogService(mongostore.NewProductRepository(db), mongostore.NewReviewRepository(db))

	reconciler := service.NewReconcileService(paymentRepo, orders, logger.Component("reconcile"))
	dispatcher := queue.NewDispatcher(cfg.Reconcile.Workers, reconciler, logger.Component("dispatcher"))
	reconciler.SetQueue(dispatcher)
	dispatcher.Start(ctx)
	go reconciler.Run(ctx, cfg.Reconcile.Interval)

	e := api.NewRouter(api.Dependencies{
		Tokens:     tokens,
		Identities: identities,
		Orders:     orders,
		Payments:   payments,
		Catalog:    catalog,
		Probes: map[string]handler.Pinger{
			"mongo": handler.PingFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }),
			"redis": handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
		PaymentIntent: cfg.PaymentIntent,
		Logger:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Tea tree server is running")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
}
