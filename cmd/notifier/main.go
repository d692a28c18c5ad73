// Command notifier consumes OrderCreated events and emails the orders inbox.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	appconfig "github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/config"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/email"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/events"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/logging"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/secrets"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	if _, err := secrets.Bootstrap(context.Background()); err != nil {
		log.Printf("openbao bootstrap failed: %v", err)
	}

	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.ServiceName = "order-notifier"
	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic, cfg.Notifier.GroupID, logger)
	defer func() { _ = consumer.Close() }()

	notifier := email.NewNotifier(email.PickSender(cfg.Notifier, logger), cfg.Notifier.Inbox, logger)
	logger.Info("[notifier] consuming",
		zap.String("topic", cfg.Kafka.OrdersTopic),
		zap.String("group", cfg.Notifier.GroupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)
	if err := consumer.Run(ctx, notifier.Handle); err != nil {
		logger.Error("[notifier] stopped", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("[notifier] shutdown complete")
}
