package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/snack-storefront/internal/email"
	"github.com/example/snack-storefront/internal/infrastructure/kafka"
	"github.com/example/snack-storefront/internal/notification"
	"github.com/example/snack-storefront/internal/order"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Configuration from environment variables
	kafkaBrokers := kafka.ParseBrokers(getEnv("KAFKA_BROKERS", "localhost:9092"))
	kafkaTopic := getEnv("KAFKA_TOPIC", "storefront-events")
	consumerGroup := getEnv("KAFKA_GROUP_ID", "storefront-notifier")

	shopName := getEnv("SHOP_NAME", order.DefaultShopName)
	smtpHost := getEnv("SMTP_HOST", "localhost")
	smtpPort := getEnv("SMTP_PORT", "1025")
	smtpFrom := getEnv("SMTP_FROM", "orders@roshangrams.lk")
	notifyTo := os.Getenv("SMTP_NOTIFY_TO")
	if notifyTo == "" {
		log.Fatal("[Notifier] SMTP_NOTIFY_TO environment variable is required")
	}

	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] %s - Handoff Digest Service", shopName)
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", kafkaBrokers)
	log.Printf("[Notifier] Topic: %s", kafkaTopic)
	log.Printf("[Notifier] Group: %s", consumerGroup)
	log.Printf("[Notifier] SMTP: %s:%s", smtpHost, smtpPort)
	log.Printf("[Notifier] From: %s", smtpFrom)
	log.Printf("[Notifier] To: %s", notifyTo)

	emailSvc := email.NewService(smtpHost, smtpPort, smtpFrom)
	handler := notification.NewHandler(emailSvc, shopName, notifyTo)

	consumer := kafka.NewConsumer(kafkaBrokers, kafkaTopic, consumerGroup)
	defer consumer.Close()

	// Start consuming
	go func() {
		log.Println("[Notifier] Starting event consumer...")
		log.Printf("[Notifier] Listening to topic: %s", kafkaTopic)
		if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
			log.Printf("[Notifier] Consumer error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Notifier] Shutting down...")
	cancel()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
