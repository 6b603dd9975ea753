package domain

import "time"

type Flight struct {
	FlightID        string     `json:"flight_id"`
	Airline         string     `json:"airline"`
	DepartureCity   string     `json:"departure_city"`
	ArrivalCity     string     `json:"arrival_city"`
	BasePrice       int64      `json:"base_price"`
	CurrentPrice    int64      `json:"current_price"`
	AvailableSeats  int        `json:"available_seats"`
	BookingCount    int        `json:"booking_count"`
	LastBookingTime *time.Time `json:"last_booking_time"`
}

// FlightFilter narrows a flight search. Empty fields match everything.
type FlightFilter struct {
	DepartureCity string
	ArrivalCity   string
}
