package database

import "errors"

// Sentinel errors for business-rule violations detected at the store level.
// Callers match them with errors.Is; the wrapped message carries the ids and
// timestamps involved.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrRequestNotFound = errors.New("request not found")

	// ErrEmailTaken is returned when the unique email constraint fires.
	ErrEmailTaken = errors.New("email already in use")

	// ErrItemUnavailable means the item's availability flag is off.
	ErrItemUnavailable = errors.New("item not available for booking")

	// ErrBookingConflict means the requested window overlaps an existing
	// booking of the same item.
	ErrBookingConflict = errors.New("item already booked for these dates")

	// ErrOwnerBooking means the booker is the item's owner.
	ErrOwnerBooking = errors.New("owner cannot book own item")
)
