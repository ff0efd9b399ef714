package models

import "time"

// BookingReportRow is the denormalized booking line used by exports.
type BookingReportRow struct {
	BookingID  int64     `db:"booking_id"`
	ItemName   string    `db:"item_name"`
	BookerName string    `db:"booker_name"`
	Start      time.Time `db:"start_date"`
	End        time.Time `db:"end_date"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}
