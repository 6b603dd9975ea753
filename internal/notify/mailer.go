// Package notify turns booking events into ticket e-mails.
package notify

import (
	"context"
	"log/slog"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/lib/logger/sl"
	"github.com/Domenick1991/flightbooking/internal/service/tickets"
	"github.com/Domenick1991/flightbooking/internal/ticket"
	kafkago "github.com/segmentio/kafka-go"
)

type TicketSender interface {
	SendTicket(ctx context.Context, to string, t *ticket.Ticket) error
}

type TicketMailer struct {
	tickets tickets.TicketUseCase
	sender  TicketSender
	log     *slog.Logger
}

func NewTicketMailer(tickets tickets.TicketUseCase, sender TicketSender, log *slog.Logger) *TicketMailer {
	return &TicketMailer{tickets: tickets, sender: sender, log: log}
}

// Handle processes one notifications message. Bad or failed messages are logged
// and skipped so one booking cannot stall the topic; only a done ctx is returned.
func (m *TicketMailer) Handle(ctx context.Context, msg kafkago.Message) error {
	const op = "notify.TicketMailer.Handle"

	log := m.log.With(slog.String("op", op), slog.Int64("offset", msg.Offset))

	event, err := kafka.DecodeBookingEvent(msg)
	if err != nil {
		log.Error("skipping undecodable message", sl.Err(err))
		return nil
	}
	if event.Type != kafka.EventBookingConfirmed {
		log.Debug("skipping event", slog.String("type", event.Type))
		return nil
	}

	log = log.With(slog.String("pnr", event.PNR))

	t, err := m.tickets.GetTicket(ctx, event.PNR)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("failed to load ticket", sl.Err(err))
		return nil
	}

	if err := m.sender.SendTicket(ctx, event.Email, t); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error("failed to mail ticket", sl.Err(err))
		return nil
	}

	log.Info("booking notification handled", slog.String("passenger", event.PassengerName))
	return nil
}
