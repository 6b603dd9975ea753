// Package memory keeps flights, bookings and wallets in process memory. It backs
// the "memory" storage driver and the flow-level tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type Store struct {
	mu       sync.Mutex
	flights  []*domain.Flight
	bookings map[string]domain.Booking
	wallets  map[string]int64
}

func NewStore() *Store {
	return &Store{
		bookings: make(map[string]domain.Booking),
		wallets:  make(map[string]int64),
	}
}

type txKey struct{}

// lock serializes access unless ctx already belongs to a transaction on s.
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTransaction holds the store lock for the whole of fn and restores the
// previous state when fn fails.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	unlock := s.lock(ctx)
	defer unlock()

	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return fn(ctx)
	}

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	flights  []*domain.Flight
	bookings map[string]domain.Booking
	wallets  map[string]int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		flights:  make([]*domain.Flight, 0, len(s.flights)),
		bookings: make(map[string]domain.Booking, len(s.bookings)),
		wallets:  make(map[string]int64, len(s.wallets)),
	}
	for _, f := range s.flights {
		snap.flights = append(snap.flights, copyFlight(f))
	}
	for k, v := range s.bookings {
		snap.bookings[k] = v
	}
	for k, v := range s.wallets {
		snap.wallets[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.flights = snap.flights
	s.bookings = snap.bookings
	s.wallets = snap.wallets
}

func (s *Store) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	defer s.lock(ctx)()

	flights := make([]domain.Flight, 0)
	for _, f := range s.flights {
		if containsFold(f.DepartureCity, filter.DepartureCity) && containsFold(f.ArrivalCity, filter.ArrivalCity) {
			flights = append(flights, *copyFlight(f))
		}
	}
	return flights, nil
}

func (s *Store) GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error) {
	defer s.lock(ctx)()

	f := s.findFlight(flightID)
	if f == nil {
		return nil, domain.ErrNotFound
	}
	return copyFlight(f), nil
}

func (s *Store) UpdateCurrentPrice(ctx context.Context, flightID string, price int64) error {
	defer s.lock(ctx)()

	f := s.findFlight(flightID)
	if f == nil {
		return domain.ErrNotFound
	}
	f.CurrentPrice = price
	return nil
}

func (s *Store) RecordBooking(ctx context.Context, flightID string, at time.Time) (*domain.Flight, error) {
	defer s.lock(ctx)()

	f := s.findFlight(flightID)
	if f == nil || f.AvailableSeats <= 0 {
		return nil, domain.ErrSeatsUnavailable
	}
	f.AvailableSeats--
	f.BookingCount++
	f.LastBookingTime = &at
	return copyFlight(f), nil
}

func (s *Store) ReplaceAll(ctx context.Context, flights []domain.Flight) error {
	defer s.lock(ctx)()

	s.flights = make([]*domain.Flight, 0, len(flights))
	for i := range flights {
		s.flights = append(s.flights, copyFlight(&flights[i]))
	}
	return nil
}

func (s *Store) Create(ctx context.Context, booking *domain.Booking) error {
	defer s.lock(ctx)()

	if _, ok := s.bookings[booking.PNR]; ok {
		return domain.ErrDuplicatePNR
	}
	s.bookings[booking.PNR] = *booking
	return nil
}

func (s *Store) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	defer s.lock(ctx)()

	b, ok := s.bookings[pnr]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (s *Store) GetOrCreate(ctx context.Context, userID string, defaultBalance int64) (*domain.Wallet, error) {
	defer s.lock(ctx)()

	balance, ok := s.wallets[userID]
	if !ok {
		balance = defaultBalance
		s.wallets[userID] = balance
	}
	return &domain.Wallet{UserID: userID, Balance: balance}, nil
}

func (s *Store) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	defer s.lock(ctx)()

	balance, ok := s.wallets[userID]
	if !ok || balance < amount {
		return 0, domain.ErrInsufficientFunds
	}
	balance -= amount
	s.wallets[userID] = balance
	return balance, nil
}

// Bookings returns every stored booking, in no particular order.
func (s *Store) Bookings() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	return out
}

func (s *Store) findFlight(flightID string) *domain.Flight {
	for _, f := range s.flights {
		if f.FlightID == flightID {
			return f
		}
	}
	return nil
}

func copyFlight(f *domain.Flight) *domain.Flight {
	c := *f
	if f.LastBookingTime != nil {
		t := *f.LastBookingTime
		c.LastBookingTime = &t
	}
	return &c
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

var (
	_ repository.FlightRepository  = (*Store)(nil)
	_ repository.BookingRepository = (*Store)(nil)
	_ repository.WalletRepository  = (*Store)(nil)
	_ repository.Transactor        = (*Store)(nil)
)
