// Package seed provides the sample flights loaded by the seed endpoint.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

//go:embed flights.yaml
var flightsYAML []byte

type flightFixture struct {
	FlightID       string `yaml:"flight_id"`
	Airline        string `yaml:"airline"`
	DepartureCity  string `yaml:"departure_city"`
	ArrivalCity    string `yaml:"arrival_city"`
	BasePrice      int64  `yaml:"base_price"`
	AvailableSeats int    `yaml:"available_seats"`
}

// Flights returns the sample set. Each call returns fresh values with
// current_price set to the base price and no booking history.
func Flights() ([]domain.Flight, error) {
	return parseFlights(flightsYAML)
}

func parseFlights(data []byte) ([]domain.Flight, error) {
	var fixtures []flightFixture
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("parse flight fixtures: %w", err)
	}

	var flights []domain.Flight
	if err := copier.Copy(&flights, &fixtures); err != nil {
		return nil, fmt.Errorf("copy flight fixtures: %w", err)
	}

	seen := make(map[string]struct{}, len(flights))
	for i := range flights {
		f := &flights[i]
		if f.FlightID == "" || f.BasePrice <= 0 || f.AvailableSeats < 0 {
			return nil, fmt.Errorf("invalid flight fixture #%d %q", i, f.FlightID)
		}
		if _, dup := seen[f.FlightID]; dup {
			return nil, fmt.Errorf("duplicate flight fixture %q", f.FlightID)
		}
		seen[f.FlightID] = struct{}{}
		f.CurrentPrice = f.BasePrice
	}
	return flights, nil
}
