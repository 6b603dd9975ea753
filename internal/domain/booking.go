package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
)

type Booking struct {
	PNR           string        `json:"pnr"`
	FlightID      string        `json:"flight_id"`
	UserID        string        `json:"user_id"`
	PassengerName string        `json:"passenger_name"`
	BookingDate   time.Time     `json:"booking_date"`
	FinalPrice    int64         `json:"final_price"`
	Status        BookingStatus `json:"status"`
}
