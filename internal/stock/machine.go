package stock

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidTransition is wrapped by every illegal transition attempt.
// Callers branch on it with errors.Is.
var ErrInvalidTransition = errors.New("invalid stock transition")

// SaleOutcome is the set of fields a legal sale writes onto a part.
// The fields are set together or not at all: a sold part always carries
// a sold date and a sold price.
type SaleOutcome struct {
	Status    Status
	SoldDate  time.Time
	SoldPrice decimal.Decimal
}

// Sell validates the sale of a part currently in state current at the given
// price. It returns the resulting outcome without mutating anything; illegal
// invocations return an error wrapping ErrInvalidTransition.
func Sell(current Status, price decimal.Decimal, now time.Time) (SaleOutcome, error) {
	if !current.Sellable() {
		return SaleOutcome{}, fmt.Errorf("%w: part is %s", ErrInvalidTransition, current)
	}
	if !price.IsPositive() {
		return SaleOutcome{}, fmt.Errorf("%w: sold price must be positive, got %s", ErrInvalidTransition, price)
	}
	return SaleOutcome{
		Status:    StatusSold,
		SoldDate:  now,
		SoldPrice: price,
	}, nil
}

// Reserve moves an available part to reserved.
func Reserve(current Status) (Status, error) {
	if current != StatusAvailable {
		return "", fmt.Errorf("%w: cannot reserve a %s part", ErrInvalidTransition, current)
	}
	return StatusReserved, nil
}

// Release moves a reserved part back to available.
func Release(current Status) (Status, error) {
	if current != StatusReserved {
		return "", fmt.Errorf("%w: cannot release a %s part", ErrInvalidTransition, current)
	}
	return StatusAvailable, nil
}
