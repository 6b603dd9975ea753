package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	_ "github.com/Domenick1991/flightbooking/docs"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/lib/logger"
	"github.com/Domenick1991/flightbooking/internal/lib/logger/sl"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/repository/memory"
	"github.com/Domenick1991/flightbooking/internal/seed"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/tickets"
	"github.com/Domenick1991/flightbooking/internal/service/wallet"
	"github.com/jackc/pgx/v5/pgxpool"
)

type storage struct {
	flights  repository.FlightRepository
	bookings repository.BookingRepository
	wallets  repository.WalletRepository
	tx       repository.Transactor
	close    func()
}

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg := logger.Setup(cfg.Env, os.Stdout)
	logg.Info("starting flight booking api", slog.String("env", cfg.Env), slog.String("storage", cfg.Storage.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error("api stopped", sl.Err(err))
		os.Exit(1)
	}
	logg.Info("api stopped")
}

func run(ctx context.Context, cfg *config.Config, logg *slog.Logger) error {
	store, err := openStorage(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer store.close()

	flightOpts := []flights.FlightServiceOption{}
	bookingOpts := []booking.BookingServiceOption{
		booking.WithDefaultBalance(cfg.Booking.DefaultWalletBalance),
		booking.WithTrustClientPrice(cfg.Booking.TrustClientPrice),
	}

	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FlightsCacheTTL)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			return fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		flightOpts = append(flightOpts, flights.WithCache(redisCache))
		bookingOpts = append(bookingOpts,
			booking.WithFlightsCache(redisCache),
			booking.WithLocker(redisCache, cfg.Booking.LockTTL),
		)
		logg.Info("redis enabled", slog.String("addr", cfg.Redis.Addr))
	}

	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logg)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			logg.Warn("kafka is not reachable, booking events may be lost", sl.Err(err))
		}
		bookingOpts = append(bookingOpts,
			booking.WithProducer(producer, cfg.Kafka.BookingTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
		logg.Info("kafka enabled", slog.Any("brokers", cfg.Kafka.Brokers))
	}

	flightService := flights.NewFlightService(store.flights, seed.Flights, logg, flightOpts...)
	bookingService := booking.NewBookingService(store.flights, store.bookings, store.wallets, store.tx, logg, bookingOpts...)
	walletService := wallet.NewWalletService(store.wallets, cfg.Booking.DefaultWalletBalance)
	ticketService := tickets.NewTicketService(store.bookings, store.flights, logg)

	if cfg.Storage.Driver == config.StorageDriverMemory {
		n, err := flightService.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed memory store: %w", err)
		}
		logg.Info("memory store seeded", slog.Int("flights", n))
	}

	router := api.NewRouter(cfg, logg, api.Handlers{
		Flights:  api.NewFlightHandler(flightService, logg),
		Bookings: api.NewBookingHandler(bookingService, logg),
		Wallet:   api.NewWalletHandler(walletService, logg),
		Tickets:  api.NewTicketHandler(ticketService, logg),
	})

	return bootstrap.Run(ctx, cfg.HTTP, logg, router)
}

func openStorage(ctx context.Context, cfg *config.Config, logg *slog.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		store := memory.NewStore()
		logg.Warn("using in-memory storage, data is lost on restart")
		return &storage{flights: store, bookings: store, wallets: store, tx: store, close: func() {}}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = cfg.Database.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := repository.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &storage{
		flights:  repository.NewFlightRepository(pool),
		bookings: repository.NewBookingRepository(pool),
		wallets:  repository.NewWalletRepository(pool),
		tx:       repository.NewTransactor(pool),
		close:    pool.Close,
	}, nil
}
