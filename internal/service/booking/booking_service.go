package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/lib/logger/sl"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/pricing"
	"github.com/google/uuid"
)

const (
	DefaultWalletBalance int64 = 50000
	maxPNRAttempts             = 3
	defaultLockTTL             = 10 * time.Second
)

type BookingUseCase interface {
	Book(ctx context.Context, input BookInput) (*BookResult, error)
	GetBooking(ctx context.Context, pnr string) (*domain.Booking, error)
}

// Locker provides mutual exclusion per key across processes.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

type FlightsCache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookInput struct {
	UserID        string
	FlightID      string
	PassengerName string
	FinalPrice    int64
	// Email optionally receives the ticket.
	Email string
}

func (in BookInput) validate() error {
	switch {
	case in.UserID == "":
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	case in.FlightID == "":
		return fmt.Errorf("%w: flight id is required", domain.ErrInvalidInput)
	case strings.TrimSpace(in.PassengerName) == "":
		return fmt.Errorf("%w: passenger name is required", domain.ErrInvalidInput)
	case in.FinalPrice <= 0:
		return fmt.Errorf("%w: final price must be positive", domain.ErrInvalidInput)
	}
	return nil
}

type BookResult struct {
	PNR        string
	NewBalance int64
	Booking    *domain.Booking
}

type BookingService struct {
	flights  repository.FlightRepository
	bookings repository.BookingRepository
	wallets  repository.WalletRepository
	tx       repository.Transactor

	locker             Locker
	lockTTL            time.Duration
	cache              FlightsCache
	producer           Producer
	bookingTopic       string
	notificationsTopic string

	defaultBalance   int64
	trustClientPrice bool
	now              func() time.Time
	newPNR           func(time.Time) string
	log              *slog.Logger
}

type BookingServiceOption func(*BookingService)

// WithLocker serializes bookings per flight and per wallet.
func WithLocker(locker Locker, ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func WithFlightsCache(cache FlightsCache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithDefaultBalance(balance int64) BookingServiceOption {
	return func(s *BookingService) {
		s.defaultBalance = balance
	}
}

// WithTrustClientPrice accepts the client's price without re-quoting the flight.
func WithTrustClientPrice(trust bool) BookingServiceOption {
	return func(s *BookingService) {
		s.trustClientPrice = trust
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithPNRGenerator(gen func(time.Time) string) BookingServiceOption {
	return func(s *BookingService) {
		s.newPNR = gen
	}
}

func NewBookingService(
	flights repository.FlightRepository,
	bookings repository.BookingRepository,
	wallets repository.WalletRepository,
	tx repository.Transactor,
	log *slog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		flights:        flights,
		bookings:       bookings,
		wallets:        wallets,
		tx:             tx,
		lockTTL:        defaultLockTTL,
		defaultBalance: DefaultWalletBalance,
		now:            time.Now,
		newPNR:         GeneratePNR,
		log:            log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Book charges the user's wallet for one seat on the flight and records the booking.
// Checks fail fast without touching the store; the writes run as one transaction.
func (s *BookingService) Book(ctx context.Context, input BookInput) (*BookResult, error) {
	const op = "booking.Book"

	log := s.log.With(
		slog.String("op", op),
		slog.String("flight_id", input.FlightID),
		slog.String("user_id", input.UserID),
	)

	if err := input.validate(); err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, flightLockKey(input.FlightID), walletLockKey(input.UserID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	flight, err := s.flights.GetByFlightID(ctx, input.FlightID)
	if err != nil {
		return nil, domain.WrapStore(op, err)
	}
	if flight.AvailableSeats <= 0 {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrSeatsUnavailable)
	}

	wallet, err := s.wallets.GetOrCreate(ctx, input.UserID, s.defaultBalance)
	if err != nil {
		return nil, domain.WrapStore(op, err)
	}

	now := s.now()

	if !s.trustClientPrice {
		quote := pricing.Calculate(flight.BasePrice, flight.BookingCount, flight.LastBookingTime, now)
		if quote.FinalPrice != input.FinalPrice {
			log.Info("stale price rejected", slog.Int64("quoted", quote.FinalPrice), slog.Int64("offered", input.FinalPrice))
			return nil, fmt.Errorf("%s: %w (current price %d)", op, domain.ErrPriceChanged, quote.FinalPrice)
		}
	}

	if wallet.Balance < input.FinalPrice {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInsufficientFunds)
	}

	var result BookResult
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		balance, err := s.wallets.Debit(ctx, input.UserID, input.FinalPrice)
		if err != nil {
			return err
		}

		if _, err := s.flights.RecordBooking(ctx, input.FlightID, now); err != nil {
			return err
		}

		booking, err := s.createBooking(ctx, input, now)
		if err != nil {
			return err
		}

		result = BookResult{PNR: booking.PNR, NewBalance: balance, Booking: booking}
		return nil
	})
	if err != nil {
		log.Error("booking transaction failed", sl.Err(err))
		return nil, domain.WrapStore(op, err)
	}

	log.Info("flight booked", slog.String("pnr", result.PNR), slog.Int64("final_price", input.FinalPrice))

	s.invalidateFlights(ctx, log)
	if err := s.publish(ctx, result.Booking, input.Email); err != nil {
		log.Warn("failed to publish booking event", slog.String("pnr", result.PNR), sl.Err(err))
	}

	return &result, nil
}

func (s *BookingService) GetBooking(ctx context.Context, pnr string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, domain.WrapStore("booking.GetBooking", err)
	}
	return booking, nil
}

func (s *BookingService) createBooking(ctx context.Context, input BookInput, now time.Time) (*domain.Booking, error) {
	for attempt := 1; attempt <= maxPNRAttempts; attempt++ {
		booking := &domain.Booking{
			PNR:           s.newPNR(now),
			FlightID:      input.FlightID,
			UserID:        input.UserID,
			PassengerName: strings.TrimSpace(input.PassengerName),
			BookingDate:   now,
			FinalPrice:    input.FinalPrice,
			Status:        domain.BookingStatusConfirmed,
		}

		err := s.bookings.Create(ctx, booking)
		if err == nil {
			return booking, nil
		}
		if !errors.Is(err, domain.ErrDuplicatePNR) {
			return nil, err
		}
		s.log.Warn("pnr collision, regenerating", slog.String("pnr", booking.PNR), slog.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("no unique pnr after %d attempts: %w", maxPNRAttempts, domain.ErrDuplicatePNR)
}

// lock takes every key in order and returns a func releasing them. Without a
// Locker it is a no-op.
func (s *BookingService) lock(ctx context.Context, keys ...string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	type held struct{ key, token string }
	acquired := make([]held, 0, len(keys))

	unlock := func() {
		releaseCtx := context.WithoutCancel(ctx)
		for i := len(acquired) - 1; i >= 0; i-- {
			if err := s.locker.Release(releaseCtx, acquired[i].key, acquired[i].token); err != nil {
				s.log.Warn("failed to release lock", slog.String("key", acquired[i].key), sl.Err(err))
			}
		}
	}

	for _, key := range keys {
		token, ok, err := s.locker.Acquire(ctx, key, s.lockTTL)
		if err != nil {
			unlock()
			return nil, fmt.Errorf("acquire %s: %w: %w", key, domain.ErrPersistence, err)
		}
		if !ok {
			unlock()
			return nil, fmt.Errorf("%s is locked: %w", key, domain.ErrConflict)
		}
		acquired = append(acquired, held{key: key, token: token})
	}
	return unlock, nil
}

func (s *BookingService) invalidateFlights(ctx context.Context, log *slog.Logger) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		log.Warn("flights cache invalidation failed", sl.Err(err))
	}
}

func (s *BookingService) publish(ctx context.Context, booking *domain.Booking, email string) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		ID:            uuid.NewString(),
		Type:          kafka.EventBookingConfirmed,
		PNR:           booking.PNR,
		FlightID:      booking.FlightID,
		UserID:        booking.UserID,
		PassengerName: booking.PassengerName,
		FinalPrice:    booking.FinalPrice,
		Email:         email,
		BookedAt:      booking.BookingDate,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.PNR, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.PNR, event)
	}
	return nil
}

func flightLockKey(flightID string) string {
	return "lock:flight:" + flightID
}

func walletLockKey(userID string) string {
	return "lock:wallet:" + userID
}

var _ BookingUseCase = (*BookingService)(nil)
