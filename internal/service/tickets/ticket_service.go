package tickets

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/ticket"
)

type TicketUseCase interface {
	GetTicket(ctx context.Context, pnr string) (*ticket.Ticket, error)
}

type TicketService struct {
	bookings repository.BookingRepository
	flights  repository.FlightRepository
	log      *slog.Logger
}

func NewTicketService(bookings repository.BookingRepository, flights repository.FlightRepository, log *slog.Logger) *TicketService {
	return &TicketService{bookings: bookings, flights: flights, log: log}
}

// GetTicket loads the booking for pnr and, when it still exists, its flight.
func (s *TicketService) GetTicket(ctx context.Context, pnr string) (*ticket.Ticket, error) {
	const op = "tickets.GetTicket"

	booking, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, domain.WrapStore(op, err)
	}

	flight, err := s.flights.GetByFlightID(ctx, booking.FlightID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.log.Warn("ticket flight missing", slog.String("op", op), slog.String("pnr", pnr), slog.String("flight_id", booking.FlightID))
		flight = nil
	case err != nil:
		return nil, domain.WrapStore(op, err)
	}

	return &ticket.Ticket{Booking: *booking, Flight: flight}, nil
}

var _ TicketUseCase = (*TicketService)(nil)
