package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/galwaybites/storefront/internal/auth"
	"github.com/galwaybites/storefront/internal/cartstore"
	"github.com/galwaybites/storefront/internal/catalog"
	"github.com/galwaybites/storefront/internal/config"
	"github.com/galwaybites/storefront/internal/events"
	"github.com/galwaybites/storefront/internal/httpserver"
	"github.com/galwaybites/storefront/internal/models"
	"github.com/galwaybites/storefront/internal/orders"
	"github.com/galwaybites/storefront/internal/payments"
	"github.com/galwaybites/storefront/internal/settings"
	"github.com/galwaybites/storefront/internal/store"
	"github.com/galwaybites/storefront/pkg/logging"
	loggingmw "github.com/galwaybites/storefront/pkg/middleware/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs, mongoClient, err := store.Dial(ctx, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}

	initial, err := docs.GetSettings(ctx)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	settingsCache := settings.NewCache(initial)
	go func() {
		if err := docs.WatchSettings(ctx, settingsCache.Update); err != nil && ctx.Err() == nil {
			logger.Warn("settings watcher stopped", "error", err)
		}
	}()

	go func() {
		err := docs.WatchOrders(ctx, func(o models.Order) {
			logger.Info("order changed", "order_id", o.ID.Hex(), "status", o.Status, "total", o.TotalAmount)
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("order watcher stopped", "error", err)
		}
	}()

	carts, err := cartstore.NewRedis(cfg.RedisURL, time.Duration(cfg.CartTTLMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer([]string{cfg.KafkaAddress})
	}

	orderSvc := &orders.Service{
		Store:    docs,
		Carts:    carts,
		Settings: settingsCache,
		Payments: payments.NewClient(cfg.StripeSecretKey),
	}
	if producer != nil {
		orderSvc.Events = producer
	}

	authSvc := &auth.Service{
		DB:            db,
		JWTSecret:     []byte(cfg.JWTSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
	}

	deps := httpserver.Deps{
		Auth:      &auth.Handler{Svc: authSvc},
		Cart:      &httpserver.CartHandler{Foods: docs, Carts: carts},
		Checkout:  &httpserver.CheckoutHandler{Svc: orderSvc},
		Orders:    &httpserver.OrdersHandler{Svc: orderSvc},
		Menu:      &httpserver.MenuHandler{Foods: docs, Index: cfg.FoodIndex},
		Admin:     &httpserver.AdminHandler{Foods: docs, Settings: docs, Cache: settingsCache, Orders: orderSvc},
		JWTSecret: []byte(cfg.JWTSecret),
	}
	if producer != nil {
		deps.Admin.Events = producer
	}

	if cfg.ESURL != "" {
		esClient, err := catalog.NewESClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		deps.Menu.ES = esClient
		deps.Admin.ES = esClient
		deps.Admin.Index = cfg.FoodIndex
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if err := carts.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect error", "error", err)
	}

	logger.Info("shutdown complete")
}
