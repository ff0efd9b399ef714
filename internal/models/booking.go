package models

import (
	"errors"
	"strings"
	"time"
)

type Booking struct {
	ID        int64     `json:"id" db:"id"`
	ItemID    int64     `json:"item_id" db:"item_id"`
	BookerID  int64     `json:"booker_id" db:"booker_id"`
	Start     time.Time `json:"start" db:"start_date"`
	End       time.Time `json:"end" db:"end_date"`
	Status    string    `json:"status" db:"status"` // WAITING, APPROVED, REJECTED, CANCELLED
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the booking can no longer change status.
// WAITING is the only non-terminal status.
func (b *Booking) IsTerminal() bool {
	return b.Status != StatusWaiting
}

// BookingState is a query-time view filter over bookings, distinct from the
// persisted status: CURRENT/PAST/FUTURE are derived from start/end relative to
// the instant of the query, WAITING/REJECTED match the stored status.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

var ErrUnknownState = errors.New("unknown state")

// ParseBookingState converts a raw query parameter to a BookingState.
// An empty string means ALL.
func ParseBookingState(raw string) (BookingState, error) {
	switch BookingState(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", StateAll:
		return StateAll, nil
	case StateCurrent:
		return StateCurrent, nil
	case StatePast:
		return StatePast, nil
	case StateFuture:
		return StateFuture, nil
	case StateWaiting:
		return StateWaiting, nil
	case StateRejected:
		return StateRejected, nil
	default:
		return "", ErrUnknownState
	}
}
