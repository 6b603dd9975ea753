package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/ticket"
	"gopkg.in/gomail.v2"
)

var bodyTemplate = template.Must(template.New("ticket").Parse(`<p>Dear {{.Passenger}},</p>
<p>Your booking is {{.Status}}. Your ticket is attached.</p>
<ul>
{{range .Lines}}<li>{{.}}</li>
{{end}}</ul>
`))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Sender struct {
	from   string
	dialer dialer
	log    *slog.Logger
}

// NewSender returns a sender for cfg. With no SMTP host configured it only logs.
func NewSender(cfg config.SMTPConfig, log *slog.Logger) *Sender {
	s := &Sender{from: cfg.From, log: log}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

// SendTicket mails the ticket PDF to the given address.
func (s *Sender) SendTicket(ctx context.Context, to string, t *ticket.Ticket) error {
	const op = "email.SendTicket"

	log := s.log.With(slog.String("op", op), slog.String("pnr", t.Booking.PNR))

	if to == "" {
		log.Info("no recipient, ticket not mailed")
		return nil
	}
	if s.dialer == nil {
		log.Info("smtp not configured, ticket not mailed", slog.String("to", to))
		return nil
	}

	msg, err := s.message(to, t)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("ticket mailed", slog.String("to", to))
	return nil
}

func (s *Sender) message(to string, t *ticket.Ticket) (*gomail.Message, error) {
	var body bytes.Buffer
	err := bodyTemplate.Execute(&body, struct {
		Passenger string
		Status    string
		Lines     []string
	}{
		Passenger: t.Booking.PassengerName,
		Status:    string(t.Booking.Status),
		Lines:     t.Lines(),
	})
	if err != nil {
		return nil, fmt.Errorf("render body: %w", err)
	}

	var pdf bytes.Buffer
	if err := t.WritePDF(&pdf); err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your flight ticket "+t.Booking.PNR)
	m.SetBody("text/html", body.String())
	m.Attach(t.Filename(), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf.Bytes())
		return err
	}))
	return m, nil
}
