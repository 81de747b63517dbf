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

	cartstate "github.com/nhattin/storefront/internal/cart"
	"github.com/nhattin/storefront/internal/config"
	"github.com/nhattin/storefront/internal/es"
	"github.com/nhattin/storefront/internal/handlers"
	"github.com/nhattin/storefront/internal/handlers/affiliate"
	carthttp "github.com/nhattin/storefront/internal/handlers/cart"
	"github.com/nhattin/storefront/internal/logging"
	"github.com/nhattin/storefront/internal/mykafka"
	"github.com/nhattin/storefront/internal/notify"
	"github.com/nhattin/storefront/internal/session"
	httpserver "github.com/nhattin/storefront/internal/transport/http"
	"github.com/nhattin/storefront/internal/upstream"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	brokers := []string{configuration.KAFKA_ADDRESS}
	topics := []string{"user_events", "cart_events", "product_events", "affiliate_events", "payment_events"}
	prod, err := mykafka.NewProducer(brokers, topics)
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	sessions := session.NewRedisStore(configuration.REDIS_ADDR, configuration.REDIS_PASSWORD, session.DefaultTTL)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := sessions.Ping(ctx); err != nil {
			log.Fatalf("redis ping error: %v", err)
		}
		cancel()
	}

	client := upstream.New(configuration.UPSTREAM_URL, session.ContextTokens{})
	toasts := notify.NewBroker()
	carts := cartstate.NewRegistry(client, toasts)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		Sessions:            sessions,
		JWTSecret:           []byte(configuration.JWT_SECRET),
		AuthHandler:         &handlers.AuthHandler{Upstream: client, Sessions: sessions, Carts: carts, Toasts: toasts, Producer: prod},
		ProductHandler:      &handlers.ProductHandler{Upstream: client, Producer: prod},
		ContentHandler:      &handlers.ContentHandler{Upstream: client},
		DiscountHandler:     &handlers.DiscountHandler{Upstream: client, Producer: prod},
		PaymentHandler:      &handlers.PaymentHandler{DB: db, Upstream: client, Carts: carts, Producer: prod},
		SearchHandler:       &handlers.SearchHandler{ES: esClient, Index: "product"},
		NotificationHandler: &handlers.NotificationHandler{Toasts: toasts},
		CartHandler:         &carthttp.CartHandler{Carts: carts, Products: client, Producer: prod},
		RedirectHandler:     &affiliate.RedirectHandler{DB: db, Upstream: client, Producer: prod},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := sessions.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
