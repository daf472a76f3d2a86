package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/example/snack-storefront/internal/api"
	"github.com/example/snack-storefront/internal/auth"
	"github.com/example/snack-storefront/internal/catalog"
	"github.com/example/snack-storefront/internal/config"
	"github.com/example/snack-storefront/internal/infrastructure/kafka"
	"github.com/example/snack-storefront/internal/infrastructure/store"
	"github.com/example/snack-storefront/internal/order"
	"github.com/example/snack-storefront/internal/session"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] %v", err)
	}

	log.Println("[API] ========================================")
	log.Printf("[API] %s - Storefront", cfg.Shop.Name)
	log.Println("[API] ========================================")
	cfg.LogSummary("[API]")

	cat, err := loadCatalog(cfg.Shop.CatalogFile)
	if err != nil {
		log.Fatalf("[API] Failed to load catalog: %v", err)
	}
	log.Printf("[API] Catalog: %d products in %d categories", len(cat.Products()), len(cat.Categories()))

	slot, closeSlot, err := openSlot(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("[API] Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer closeSlot()

	// Kafka is optional; without brokers handoffs are not announced
	var publisher order.Publisher
	if cfg.KafkaEnabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
	}

	handoff := order.NewHandoff(cfg.Handoff.BaseURL, cfg.Handoff.Recipient)
	if handoff.IsPlaceholder() {
		log.Printf("[API] WARNING: WHATSAPP_RECIPIENT is still %s; checkout links will not reach the shop", order.PlaceholderRecipient)
	}

	sessions := session.NewManager(slot, cfg.Storage.Namespace)
	checkout := order.NewService(order.NewComposer(cfg.Shop.Name, cfg.Shop.Currency), handoff, cat, publisher)
	tokens := auth.NewSessionTokens(cfg.Session.Secret, cfg.Session.TTL)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sessions.Run(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTimeout)
	}()

	handlers := api.NewHandlers(cat, sessions, checkout, cfg.Shop.Currency)
	router := api.NewRouter(handlers, tokens, cfg.Server.AssetsDir)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("[API] ========================================")
		log.Printf("[API] Server started on %s", cfg.Server.Addr)
		log.Println("[API] ========================================")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel() // Stop the session sweeper

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	wg.Wait()
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// openSlot connects the configured cart storage backend
func openSlot(ctx context.Context, cfg config.StorageConfig) (store.Slot, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		slot := store.NewPostgresSlot(db)
		if err := slot.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		log.Println("[API] Connected to PostgreSQL")
		return slot, func() { db.Close() }, nil

	case config.DriverRedis:
		client, err := store.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("[API] Connected to Redis")
		return store.NewRedisSlot(client, "", cfg.CartTTL), func() { client.Close() }, nil

	case config.DriverDynamoDB:
		client, err := store.NewDynamoClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[API] Using DynamoDB table %s", cfg.DynamoTable)
		return store.NewDynamoSlot(client, cfg.DynamoTable), func() {}, nil

	default:
		log.Println("[API] Using in-memory cart storage; carts are lost on restart")
		return store.NewMemorySlot(), func() {}, nil
	}
}
