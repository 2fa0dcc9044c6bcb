package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tutormatch/internal/notifications"
	"tutormatch/pkg/kafka"
	kafka_config "tutormatch/pkg/kafka/config"
	"tutormatch/pkg/logger"
	"tutormatch/pkg/notify"
)

const ServiceName = "notifier"
const ConsumerGroup = "notifier"

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:     "INFO",
		Format:    logger.JSON,
		AddSource: true,
		Service:   ServiceName,
	})

	sender := notifications.NewSender(notifications.NewLogDispatcher(log), log)

	consumer, err := kafka.NewConsumer(kafka_config.Load(), notify.TopicBookingEvents, ConsumerGroup, sender.Handle)
	if err != nil {
		log.Fatal("Failed to create consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	log.Info("Starting notification consumer", "topic", notify.TopicBookingEvents, "group", ConsumerGroup)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}
	log.Info("Notifier stopped gracefully")
}
