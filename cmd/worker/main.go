package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/email"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/rs/zerolog"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "flightdesk-worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	sender := email.NewSender(logger)

	if err := consumer.Consume(ctx, sender.Send); err != nil && ctx.Err() == nil {
		log.Fatalf("consumer stopped: %v", err)
	}
}
