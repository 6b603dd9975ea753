package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) UpdateCurrentPrice(ctx context.Context, flightID string, price int64) error {
	args := m.Called(ctx, flightID, price)
	return args.Error(0)
}

func (m *MockFlightRepository) RecordBooking(ctx context.Context, flightID string, at time.Time) (*domain.Flight, error) {
	args := m.Called(ctx, flightID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) ReplaceAll(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	args := m.Called(ctx, pnr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetOrCreate(ctx context.Context, userID string, defaultBalance int64) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, defaultBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

// passthroughTx runs fn directly with the caller's context.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockLocker) Release(ctx context.Context, key, token string) error {
	args := m.Called(ctx, key, token)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value any) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}
