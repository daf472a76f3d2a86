package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/example/snack-storefront/internal/email"
	"github.com/example/snack-storefront/internal/infrastructure/msk"
	"github.com/example/snack-storefront/internal/notification"
	"github.com/example/snack-storefront/internal/order"
)

var notificationHandler *notification.Handler

func init() {
	shopName := getEnv("SHOP_NAME", order.DefaultShopName)
	smtpHost := getEnv("SMTP_HOST", "localhost")
	smtpPort := getEnv("SMTP_PORT", "1025")
	smtpFrom := getEnv("SMTP_FROM", "orders@roshangrams.lk")
	notifyTo := os.Getenv("SMTP_NOTIFY_TO")
	if notifyTo == "" {
		log.Fatal("[Lambda Notifier] SMTP_NOTIFY_TO environment variable is required")
	}

	emailSvc := email.NewService(smtpHost, smtpPort, smtpFrom)
	notificationHandler = notification.NewHandler(emailSvc, shopName, notifyTo)

	log.Printf("[Lambda Notifier] Initialized successfully (SMTP: %s:%s)", smtpHost, smtpPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func handler(ctx context.Context, event events.KafkaEvent) error {
	total := 0
	for _, records := range event.Records {
		total += len(records)
	}
	log.Printf("[Lambda Notifier] Received %d records", total)

	ok := msk.Dispatch(ctx, event, notificationHandler.HandleEvent)

	log.Printf("[Lambda Notifier] Processed %d/%d records successfully", ok, total)
	return nil
}

func main() {
	lambda.Start(handler)
}
