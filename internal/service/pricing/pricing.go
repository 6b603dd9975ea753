// Package pricing holds the surge pricing rule applied to flight quotes.
package pricing

import "time"

const (
	// SurgeWindow is how recent the last booking must be for a quote to surge.
	SurgeWindow = 5 * time.Second
	// SurgeMultiplierPercent is the surged price as a percentage of the base price.
	SurgeMultiplierPercent = 110
)

type Quote struct {
	FinalPrice int64 `json:"finalPrice"`
	IsSurged   bool  `json:"isSurged"`
}

// Calculate quotes a flight at now. A nil lastBooking means the flight was never
// booked and cannot surge.
func Calculate(basePrice int64, bookingCount int, lastBooking *time.Time, now time.Time) Quote {
	if !surged(bookingCount, lastBooking, now) {
		return Quote{FinalPrice: basePrice}
	}
	return Quote{FinalPrice: applySurge(basePrice), IsSurged: true}
}

func surged(bookingCount int, lastBooking *time.Time, now time.Time) bool {
	if bookingCount <= 0 || lastBooking == nil {
		return false
	}
	return now.Sub(*lastBooking) < SurgeWindow
}

// applySurge rounds half up, matching round(base * 1.10) without float error.
func applySurge(basePrice int64) int64 {
	return (basePrice*SurgeMultiplierPercent + 50) / 100
}
