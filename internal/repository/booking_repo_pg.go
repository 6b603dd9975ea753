package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// Create inserts a new booking. It fails with domain.ErrDuplicatePNR when the
	// PNR is already taken.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	// ON CONFLICT keeps an enclosing transaction usable for a retry with a new PNR.
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO bookings (pnr, flight_id, user_id, passenger_name, booking_date, final_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (pnr) DO NOTHING
		RETURNING booking_date`,
		booking.PNR, booking.FlightID, booking.UserID, booking.PassengerName, booking.BookingDate, booking.FinalPrice, booking.Status).
		Scan(&booking.BookingDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrDuplicatePNR
	}
	return err
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT pnr, flight_id, user_id, passenger_name, booking_date, final_price, status FROM bookings WHERE pnr=$1`, pnr)
	var b domain.Booking
	if err := row.Scan(&b.PNR, &b.FlightID, &b.UserID, &b.PassengerName, &b.BookingDate, &b.FinalPrice, &b.Status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
