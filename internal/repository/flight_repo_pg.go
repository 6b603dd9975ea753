package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error)
	UpdateCurrentPrice(ctx context.Context, flightID string, price int64) error
	// RecordBooking takes one seat and stamps the booking time. It fails with
	// domain.ErrSeatsUnavailable when the flight is sold out at write time.
	RecordBooking(ctx context.Context, flightID string, at time.Time) (*domain.Flight, error)
	ReplaceAll(ctx context.Context, flights []domain.Flight) error
}

const flightColumns = `flight_id, airline, departure_city, arrival_city, base_price, current_price, available_seats, booking_count, last_booking_time`

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE departure_city ILIKE $1 AND arrival_city ILIKE $2
		ORDER BY seq`, containsPattern(filter.DepartureCity), containsPattern(filter.ArrivalCity))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_id=$1`, flightID)
	f, err := scanFlight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

func (r *PGFlightRepository) UpdateCurrentPrice(ctx context.Context, flightID string, price int64) error {
	res, err := conn(ctx, r.db).Exec(ctx, `UPDATE flights SET current_price=$2 WHERE flight_id=$1`, flightID, price)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) RecordBooking(ctx context.Context, flightID string, at time.Time) (*domain.Flight, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `UPDATE flights
		SET available_seats = available_seats - 1, booking_count = booking_count + 1, last_booking_time = $2
		WHERE flight_id=$1 AND available_seats > 0
		RETURNING `+flightColumns, flightID, at)
	f, err := scanFlight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSeatsUnavailable
	}
	return f, err
}

// ReplaceAll swaps the whole catalogue atomically. Inside WithinTransaction it
// joins the caller's transaction.
func (r *PGFlightRepository) ReplaceAll(ctx context.Context, flights []domain.Flight) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM flights`)
	for _, f := range flights {
		batch.Queue(`INSERT INTO flights (`+flightColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			f.FlightID, f.Airline, f.DepartureCity, f.ArrivalCity, f.BasePrice, f.CurrentPrice, f.AvailableSeats, f.BookingCount, f.LastBookingTime)
	}

	return NewTransactor(r.db).WithinTransaction(ctx, func(ctx context.Context) error {
		return conn(ctx, r.db).SendBatch(ctx, batch).Close()
	})
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.FlightID, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.BasePrice, &f.CurrentPrice, &f.AvailableSeats, &f.BookingCount, &f.LastBookingTime); err != nil {
		return nil, err
	}
	return &f, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

var _ FlightRepository = (*PGFlightRepository)(nil)
