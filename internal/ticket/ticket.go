// Package ticket renders a confirmed booking as a printable ticket.
package ticket

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

const (
	title      = "FLIGHT TICKET"
	dateLayout = "02 Jan 2006 15:04:05 MST"
	qrSize     = 256
	qrImage    = "pnr-qr"
)

type Ticket struct {
	Booking domain.Booking
	// Flight is nil when the flight no longer exists in the catalogue.
	Flight *domain.Flight
}

// Filename is the name offered to clients downloading the PDF.
func (t Ticket) Filename() string {
	return "ticket_" + t.Booking.PNR + ".pdf"
}

// Lines returns the body of the ticket in print order.
func (t Ticket) Lines() []string {
	b := t.Booking
	lines := []string{
		"PNR: " + b.PNR,
		"Passenger: " + b.PassengerName,
	}
	if t.Flight != nil {
		lines = append(lines,
			fmt.Sprintf("Flight: %s (%s)", t.Flight.Airline, t.Flight.FlightID),
			fmt.Sprintf("Route: %s -> %s", t.Flight.DepartureCity, t.Flight.ArrivalCity),
		)
	} else {
		lines = append(lines, "Flight: "+b.FlightID)
	}
	return append(lines,
		"Price Paid: INR "+FormatINR(b.FinalPrice),
		"Booking Date: "+b.BookingDate.Format(dateLayout),
		"Status: "+strings.ToUpper(string(b.Status)),
	)
}

// WritePDF renders the ticket as a single A4 page with a QR code of the PNR.
func (t Ticket) WritePDF(w io.Writer) error {
	qr, err := qrPNG(t.Booking.PNR)
	if err != nil {
		return fmt.Errorf("ticket qr: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title+" "+t.Booking.PNR, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Core fonts are cp1252; runes outside it print as '.'.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range t.Lines() {
		pdf.CellFormat(0, 8, tr(line), "", 1, "L", false, 0, "")
	}

	pdf.RegisterImageOptionsReader(qrImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
	pdf.ImageOptions(qrImage, 150, 30, 40, 40, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("ticket pdf: %w", err)
	}
	return nil
}

func qrPNG(content string) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(qrSize)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatINR groups digits the Indian way: 1234567 -> 12,34,567.
func FormatINR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	if len(digits) <= 3 {
		return sign + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return sign + strings.Join(groups, ",") + "," + tail
}
