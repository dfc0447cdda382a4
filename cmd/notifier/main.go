package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buffet/internal/capacity"
	"buffet/internal/events"
	"buffet/internal/menu"
	"buffet/pkg/config"
	"buffet/pkg/kafka"
	kafkaconfig "buffet/pkg/kafka/config"
	kafkamiddleware "buffet/pkg/kafka/middleware"
)

const (
	ServiceName   = "notifier"
	statsInterval = time.Minute
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetRedis()
	defer cfg.GracefulShutdown()
	log := cfg.Log

	kcfg, err := kafkaconfig.Load()
	if err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kcfg.LogConfiguration(log)

	restaurant := "our restaurant"
	if catalog, err := menu.Load(); err == nil {
		restaurant = catalog.Restaurant.Name
	}

	notifier := events.NewNotifier(
		capacity.NewDayInvalidator(capacity.NewCache(cfg.Client.Redis, cfg.CapacityCacheTTL, log), cfg.Location),
		events.NewMailer(cfg.MailerSendAPIKey, cfg.MailerFromEmail, cfg.MailerFromName, log),
		restaurant,
		cfg.Location,
		log,
	)

	consumer, err := kafka.NewConsumer(kcfg, cfg.BookingEventsTopic, kcfg.ConsumerGroupID, cfg.BookingEventsDLQTopic, notifier.Handle, log)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := kafkamiddleware.NewMetrics()
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(log))
	consumer.Use(metrics.ConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go metrics.Report(ctx, statsInterval, log)

	log.Info("Starting Notifier", "topic", cfg.BookingEventsTopic, "group_id", kcfg.ConsumerGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}
	log.Info("Notifier stopped")
}
