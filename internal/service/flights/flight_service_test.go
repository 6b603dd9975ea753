package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/lib/logger/slogdiscard"
	"github.com/Domenick1991/flightbooking/internal/repository/memory"
	"github.com/Domenick1991/flightbooking/internal/service/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Flight), args.Get(1).(int64), args.Error(2)
}

func (m *MockCache) SetFlights(ctx context.Context, gen int64, filter domain.FlightFilter, flights []domain.Flight) error {
	args := m.Called(ctx, gen, filter, flights)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func sampleFlights() []domain.Flight {
	return []domain.Flight{
		{FlightID: "AI101", Airline: "Air India", DepartureCity: "Delhi", ArrivalCity: "Mumbai", BasePrice: 5000, CurrentPrice: 5000, AvailableSeats: 50},
	}
}

func noSeed() ([]domain.Flight, error) { return nil, nil }

func TestFlightService_Search_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, noSeed, slogdiscard.NewDiscardLogger(), WithCache(mockCache))

	ctx := context.Background()
	filter := domain.FlightFilter{DepartureCity: "delhi"}
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx, filter).Return(nil, int64(7), nil).Once()
	mockRepo.On("Search", ctx, filter).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, int64(7), filter, flights).Return(nil).Once()

	result, err := service.Search(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Search_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, noSeed, slogdiscard.NewDiscardLogger(), WithCache(mockCache))

	ctx := context.Background()
	filter := domain.FlightFilter{}
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx, filter).Return(flights, int64(0), nil).Once()

	result, err := service.Search(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	mockRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestFlightService_Search_CacheErrorFallsBackToRepository(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, noSeed, slogdiscard.NewDiscardLogger(), WithCache(mockCache))

	ctx := context.Background()
	filter := domain.FlightFilter{}
	flights := sampleFlights()

	mockCache.On("GetFlights", ctx, filter).Return(nil, int64(0), errors.New("redis down")).Once()
	mockRepo.On("Search", ctx, filter).Return(flights, nil).Once()

	result, err := service.Search(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)
	// Without a known generation the result is not cached.
	mockCache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// genCache keeps one result map per generation, like the Redis cache.
type genCache struct {
	gen     int64
	entries map[int64]map[domain.FlightFilter][]domain.Flight
}

func (c *genCache) GetFlights(_ context.Context, filter domain.FlightFilter) ([]domain.Flight, int64, error) {
	return c.entries[c.gen][filter], c.gen, nil
}

func (c *genCache) SetFlights(_ context.Context, gen int64, filter domain.FlightFilter, flights []domain.Flight) error {
	if c.entries == nil {
		c.entries = map[int64]map[domain.FlightFilter][]domain.Flight{}
	}
	if c.entries[gen] == nil {
		c.entries[gen] = map[domain.FlightFilter][]domain.Flight{}
	}
	c.entries[gen][filter] = flights
	return nil
}

func (c *genCache) InvalidateFlights(context.Context) error {
	c.gen++
	return nil
}

func TestFlightService_Search_InvalidationDuringReadIsNotCached(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	cache := &genCache{}
	service := NewFlightService(mockRepo, noSeed, slogdiscard.NewDiscardLogger(), WithCache(cache))

	ctx := context.Background()
	filter := domain.FlightFilter{}
	stale := sampleFlights()
	fresh := sampleFlights()
	fresh[0].CurrentPrice = 5500

	// A price write lands between the repository read and the cache write.
	mockRepo.On("Search", ctx, filter).Return(stale, nil).Once().Run(func(mock.Arguments) {
		require.NoError(t, cache.InvalidateFlights(ctx))
	})
	mockRepo.On("Search", ctx, filter).Return(fresh, nil).Once()

	first, err := service.Search(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, stale, first)

	second, err := service.Search(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, fresh, second)

	third, err := service.Search(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, fresh, third)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Search_RepositoryError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, noSeed, slogdiscard.NewDiscardLogger())

	ctx := context.Background()
	mockRepo.On("Search", ctx, domain.FlightFilter{}).Return(nil, errors.New("connection refused")).Once()

	result, err := service.Search(ctx, domain.FlightFilter{})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestFlightService_CalculatePrice_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, noSeed, slogdiscard.NewDiscardLogger())

	ctx := context.Background()
	mockRepo.On("GetByFlightID", ctx, "XX000").Return(nil, domain.ErrNotFound).Once()

	_, err := service.CalculatePrice(ctx, "XX000")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockRepo.AssertNotCalled(t, "UpdateCurrentPrice", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_CalculatePrice_PersistsSurgedQuote(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	last := now.Add(-2 * time.Second)
	service := NewFlightService(mockRepo, noSeed, slogdiscard.NewDiscardLogger(),
		WithCache(mockCache),
		WithClock(func() time.Time { return now }),
	)

	ctx := context.Background()
	flight := &domain.Flight{FlightID: "AI101", BasePrice: 5000, CurrentPrice: 5000, AvailableSeats: 49, BookingCount: 1, LastBookingTime: &last}

	mockRepo.On("GetByFlightID", ctx, "AI101").Return(flight, nil).Once()
	mockRepo.On("UpdateCurrentPrice", ctx, "AI101", int64(5500)).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	quote, err := service.CalculatePrice(ctx, "AI101")

	require.NoError(t, err)
	assert.Equal(t, pricing.Quote{FinalPrice: 5500, IsSurged: true}, quote)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_CalculatePrice_UnchangedPriceSkipsWrite(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, noSeed, slogdiscard.NewDiscardLogger())

	ctx := context.Background()
	flight := &domain.Flight{FlightID: "AI101", BasePrice: 5000, CurrentPrice: 5000, AvailableSeats: 50}
	mockRepo.On("GetByFlightID", ctx, "AI101").Return(flight, nil).Once()

	quote, err := service.CalculatePrice(ctx, "AI101")

	require.NoError(t, err)
	assert.Equal(t, pricing.Quote{FinalPrice: 5000}, quote)
	mockRepo.AssertNotCalled(t, "UpdateCurrentPrice", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_Seed(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	flights := sampleFlights()
	service := NewFlightService(mockRepo, func() ([]domain.Flight, error) { return flights, nil },
		slogdiscard.NewDiscardLogger(), WithCache(mockCache))

	ctx := context.Background()
	mockRepo.On("ReplaceAll", ctx, flights).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	n, err := service.Seed(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestFlightService_Seed_SourceError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, func() ([]domain.Flight, error) { return nil, errors.New("bad fixtures") },
		slogdiscard.NewDiscardLogger())

	_, err := service.Seed(context.Background())

	assert.EqualError(t, err, "bad fixtures")
	mockRepo.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything)
}

func TestFlightService_WithMemoryStore(t *testing.T) {
	store := memory.NewStore()
	service := NewFlightService(store, func() ([]domain.Flight, error) { return sampleFlights(), nil },
		slogdiscard.NewDiscardLogger())
	ctx := context.Background()

	_, err := service.Seed(ctx)
	require.NoError(t, err)

	found, err := service.Search(ctx, domain.FlightFilter{DepartureCity: "DELHI", ArrivalCity: "mum"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "AI101", found[0].FlightID)

	quote, err := service.CalculatePrice(ctx, "AI101")
	require.NoError(t, err)
	assert.Equal(t, pricing.Quote{FinalPrice: 5000}, quote)
}
