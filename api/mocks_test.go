package api

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/pricing"
	"github.com/Domenick1991/flightbooking/internal/ticket"
	"github.com/stretchr/testify/mock"
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) CalculatePrice(ctx context.Context, flightID string) (pricing.Quote, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).(pricing.Quote), args.Error(1)
}

func (m *MockFlightUseCase) Seed(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) Book(ctx context.Context, input booking.BookInput) (*booking.BookResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookResult), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, pnr string) (*domain.Booking, error) {
	args := m.Called(ctx, pnr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockWalletUseCase struct {
	mock.Mock
}

func (m *MockWalletUseCase) Balance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockTicketUseCase struct {
	mock.Mock
}

func (m *MockTicketUseCase) GetTicket(ctx context.Context, pnr string) (*ticket.Ticket, error) {
	args := m.Called(ctx, pnr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ticket.Ticket), args.Error(1)
}
