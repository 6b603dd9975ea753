package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrSeatsUnavailable  = errors.New("no seats available")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrPriceChanged      = errors.New("price has changed, request a new quote")
	ErrConflict          = errors.New("resource is busy, try again")
	ErrDuplicatePNR      = errors.New("duplicate pnr")
	ErrPersistence       = errors.New("persistence failure")
)

var storeKinds = []error{ErrNotFound, ErrSeatsUnavailable, ErrInsufficientFunds, ErrDuplicatePNR, ErrPersistence}

// WrapStore annotates a repository error with op. Errors that are not one of the
// domain kinds a store reports are marked as ErrPersistence.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range storeKinds {
		if errors.Is(err, kind) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
