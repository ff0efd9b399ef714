package models

import (
	"database/sql"
	"time"
)

type Item struct {
	ID          int64         `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Available   bool          `json:"available" db:"available"`
	OwnerID     int64         `json:"owner_id" db:"owner_id"`
	RequestID   sql.NullInt64 `json:"-" db:"request_id"` // originating item request, if any
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// ItemDetails is the owner-facing projection of an item: the item itself plus
// the most recent past/current booking, the nearest future booking and the
// comments left by finished bookers.
type ItemDetails struct {
	Item
	LastBooking *Booking  `json:"last_booking,omitempty"`
	NextBooking *Booking  `json:"next_booking,omitempty"`
	Comments    []Comment `json:"comments"`
}

type Comment struct {
	ID         int64     `json:"id" db:"id"`
	Text       string    `json:"text" db:"text"`
	ItemID     int64     `json:"item_id" db:"item_id"`
	AuthorID   int64     `json:"author_id" db:"author_id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
