package flights

import (
	"context"
	"log/slog"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/lib/logger/sl"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/pricing"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error)
	CalculatePrice(ctx context.Context, flightID string) (pricing.Quote, error)
	Seed(ctx context.Context) (int, error)
}

type FlightCache interface {
	// GetFlights also reports the cache generation the lookup ran in.
	GetFlights(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, int64, error)
	SetFlights(ctx context.Context, gen int64, filter domain.FlightFilter, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

// SeedSource yields the flights that replace the catalogue on Seed.
type SeedSource func() ([]domain.Flight, error)

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
	seed  SeedSource
	now   func() time.Time
	log   *slog.Logger
}

type FlightServiceOption func(*FlightService)

func WithCache(cache FlightCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) {
		s.now = now
	}
}

func NewFlightService(repo repository.FlightRepository, seed SeedSource, log *slog.Logger, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{
		repo: repo,
		seed: seed,
		now:  time.Now,
		log:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	const op = "flights.Search"

	cacheable := false
	var gen int64
	if s.cache != nil {
		hit, g, err := s.cache.GetFlights(ctx, filter)
		switch {
		case err != nil:
			s.log.Warn("flights cache read failed", slog.String("op", op), sl.Err(err))
		case hit != nil:
			return hit, nil
		default:
			cacheable, gen = true, g
		}
	}

	flights, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, domain.WrapStore(op, err)
	}
	// Written under the generation seen before the read, so an invalidation in
	// between retires this result.
	if cacheable {
		if err := s.cache.SetFlights(ctx, gen, filter, flights); err != nil {
			s.log.Warn("flights cache write failed", slog.String("op", op), sl.Err(err))
		}
	}
	return flights, nil
}

func (s *FlightService) GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error) {
	flight, err := s.repo.GetByFlightID(ctx, flightID)
	if err != nil {
		return nil, domain.WrapStore("flights.GetByFlightID", err)
	}
	return flight, nil
}

// CalculatePrice quotes the flight now and stores the quote as its current price.
func (s *FlightService) CalculatePrice(ctx context.Context, flightID string) (pricing.Quote, error) {
	const op = "flights.CalculatePrice"

	flight, err := s.repo.GetByFlightID(ctx, flightID)
	if err != nil {
		return pricing.Quote{}, domain.WrapStore(op, err)
	}

	quote := pricing.Calculate(flight.BasePrice, flight.BookingCount, flight.LastBookingTime, s.now())

	if quote.FinalPrice != flight.CurrentPrice {
		if err := s.repo.UpdateCurrentPrice(ctx, flightID, quote.FinalPrice); err != nil {
			return pricing.Quote{}, domain.WrapStore(op, err)
		}
		s.invalidate(ctx, op)
	}

	s.log.Debug("price calculated",
		slog.String("op", op),
		slog.String("flight_id", flightID),
		slog.Int64("final_price", quote.FinalPrice),
		slog.Bool("is_surged", quote.IsSurged),
	)
	return quote, nil
}

// Seed replaces every flight with the sample set and returns how many were stored.
func (s *FlightService) Seed(ctx context.Context) (int, error) {
	const op = "flights.Seed"

	flights, err := s.seed()
	if err != nil {
		return 0, err
	}
	if err := s.repo.ReplaceAll(ctx, flights); err != nil {
		return 0, domain.WrapStore(op, err)
	}
	s.invalidate(ctx, op)

	s.log.Info("flights seeded", slog.Int("count", len(flights)))
	return len(flights), nil
}

func (s *FlightService) invalidate(ctx context.Context, op string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("flights cache invalidation failed", slog.String("op", op), sl.Err(err))
	}
}

var _ FlightUseCase = (*FlightService)(nil)
