package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightdesk/api"
	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/bootstrap"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/account"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/search"
	"github.com/jackc/pgx/v5/pgxpool"
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

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "flightdesk").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	sessions := cache.NewSessionCache(cfg.Redis, time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	txRunner := repository.NewTxRunner(pool, repository.RetryStrategy{
		Attempts: cfg.Booking.TxMaxAttempts,
		Backoff:  time.Duration(cfg.Booking.TxBackoffMillis) * time.Millisecond,
	}, logger)
	adminRepo := repository.NewAdminRepository(txRunner)

	accountService := account.NewAccountService(userRepo, sessions, logger)
	searchService := search.NewSearchService(flightRepo, sessions, cfg.Booking.SearchLimitMax, logger)
	bookingService := booking.NewBookingService(
		txRunner,
		reservationRepo,
		sessions,
		producer,
		cfg.Kafka.ReservationsTopic,
		logger,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithReleaseOnCancel(cfg.Booking.ReleaseOnCancel),
	)

	router := api.NewRouter(
		api.NewAccountHandler(accountService),
		api.NewFlightHandler(searchService, accountService),
		api.NewBookingHandler(bookingService, accountService),
		api.NewAdminHandler(adminRepo),
	)

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
