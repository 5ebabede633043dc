// Package stock defines the lifecycle of a part's stock status and the legal
// transitions between states. Both the backend sell endpoint and the sales
// console validate against this package, so legality rules live in exactly
// one place.
package stock

import "fmt"

// Status is the closed set of stock states a part can be in.
// "sold" is terminal: no transition leaves it.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}

// Sellable reports whether a part in state s may be sold.
func (s Status) Sellable() bool {
	return s == StatusAvailable || s == StatusReserved
}

// Parse converts a raw string into a Status, rejecting anything outside the
// closed set.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown stock status %q", raw)
	}
	return s, nil
}
