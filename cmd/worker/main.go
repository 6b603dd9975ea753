package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/lib/logger"
	"github.com/Domenick1991/flightbooking/internal/lib/logger/sl"
	"github.com/Domenick1991/flightbooking/internal/notify"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/tickets"
	"github.com/jackc/pgx/v5/pgxpool"
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

	logg := logger.Setup(cfg.Env, os.Stdout).With(slog.String("component", "worker"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error("worker stopped", sl.Err(err))
		os.Exit(1)
	}
	logg.Info("worker stopped")
}

func run(ctx context.Context, cfg *config.Config, logg *slog.Logger) error {
	if !cfg.Kafka.Enabled {
		return errors.New("kafka is disabled, nothing to consume")
	}
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return errors.New("worker needs the postgres storage driver to read bookings")
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	ticketService := tickets.NewTicketService(
		repository.NewBookingRepository(pool),
		repository.NewFlightRepository(pool),
		logg,
	)
	mailer := notify.NewTicketMailer(ticketService, email.NewSender(cfg.SMTP, logg), logg)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	logg.Info("consuming booking notifications",
		slog.String("topic", cfg.Kafka.NotificationsTopic),
		slog.String("group_id", cfg.Kafka.GroupID),
	)
	return consumer.Consume(ctx, mailer.Handle)
}
