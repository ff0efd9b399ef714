package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lendhub/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateBooking runs the precondition checks and the insert in one
// transaction, so two concurrent requests for overlapping windows cannot both
// pass the conflict scan: sqlite serializes writers and the availability,
// overlap and ownership checks see the state the insert will commit against.
//
// Checks run in a fixed order, each with its own failure: item availability,
// window overlap, booker-is-owner.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var item struct {
		Available bool  `db:"available"`
		OwnerID   int64 `db:"owner_id"`
	}
	err = tx.GetContext(ctx, &item, `SELECT available, owner_id FROM items WHERE id = ?`, booking.ItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: id %d", ErrItemNotFound, booking.ItemID)
	}
	if err != nil {
		return fmt.Errorf("failed to load item for booking: %w", err)
	}

	if !item.Available {
		return fmt.Errorf("%w: item %d", ErrItemUnavailable, booking.ItemID)
	}

	start := booking.Start.UTC()
	end := booking.End.UTC()

	query, args, err := overlapQuery(booking.ItemID, start, end)
	if err != nil {
		return fmt.Errorf("failed to build overlap query: %w", err)
	}
	var conflict struct {
		Start time.Time `db:"start_date"`
		End   time.Time `db:"end_date"`
	}
	err = tx.GetContext(ctx, &conflict, query, args...)
	if err == nil {
		return fmt.Errorf("%w: overlaps booking from %s to %s",
			ErrBookingConflict,
			conflict.Start.Format(time.RFC3339),
			conflict.End.Format(time.RFC3339))
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check booking overlap: %w", err)
	}

	if item.OwnerID == booking.BookerID {
		return fmt.Errorf("%w: user %d owns item %d", ErrOwnerBooking, booking.BookerID, booking.ItemID)
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		booking.ItemID, booking.BookerID, start, end, models.StatusWaiting, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.Start = start
	booking.End = end
	booking.Status = models.StatusWaiting
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := db.GetContext(ctx, &booking,
		`SELECT id, item_id, booker_id, start_date, end_date, status, created_at, updated_at
         FROM bookings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: id %d", ErrBookingNotFound, id)
	}
	return nil
}

// GetBookingsForBooker lists bookings made by the user, filtered by state at
// the given instant, newest start first.
func (db *DB) GetBookingsForBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, page, size int) ([]*models.Booking, error) {
	query, args, err := bookerBookingsQuery(bookerID, state, now.UTC(), page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to build booker bookings query: %w", err)
	}
	var bookings []*models.Booking
	if err := db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get bookings for booker: %w", err)
	}
	return bookings, nil
}

// GetBookingsForOwner lists bookings against items owned by the user.
func (db *DB) GetBookingsForOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, page, size int) ([]*models.Booking, error) {
	query, args, err := ownerBookingsQuery(ownerID, state, now.UTC(), page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to build owner bookings query: %w", err)
	}
	var bookings []*models.Booking
	if err := db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get bookings for owner: %w", err)
	}
	return bookings, nil
}

// LastOrNextBooking returns the most recent booking started before now
// (last=true) or the earliest booking starting after now (last=false) for the
// item, skipping cancelled and rejected ones. A nil booking with nil error
// means the item has no qualifying booking.
func (db *DB) LastOrNextBooking(ctx context.Context, itemID int64, now time.Time, last bool) (*models.Booking, error) {
	cmp, order := ">", "ASC"
	if last {
		cmp, order = "<", "DESC"
	}
	query := fmt.Sprintf(
		`SELECT id, item_id, booker_id, start_date, end_date, status, created_at, updated_at
         FROM bookings
         WHERE item_id = ? AND start_date %s ? AND status NOT IN (?, ?)
         ORDER BY start_date %s LIMIT 1`, cmp, order)

	var booking models.Booking
	err := db.GetContext(ctx, &booking, query,
		itemID, now.UTC(), models.StatusCancelled, models.StatusRejected)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last/next booking: %w", err)
	}
	return &booking, nil
}

// LastAndNextForItems computes, in a single round trip, the per-item latest
// past/current booking and earliest future booking for the whole item set.
// Each half ranks bookings per item with a window function and keeps rank 1,
// which makes the result equivalent to calling LastOrNextBooking per item.
func (db *DB) LastAndNextForItems(ctx context.Context, itemIDs []int64, now time.Time) ([]*models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	const raw = `
        SELECT id, item_id, booker_id, start_date, end_date, status, created_at, updated_at
        FROM (
            SELECT b.*, ROW_NUMBER() OVER (PARTITION BY item_id ORDER BY start_date DESC) AS rn
            FROM bookings b
            WHERE item_id IN (?) AND start_date < ? AND status NOT IN (?, ?)
        ) ranked_past WHERE rn = 1
        UNION ALL
        SELECT id, item_id, booker_id, start_date, end_date, status, created_at, updated_at
        FROM (
            SELECT b.*, ROW_NUMBER() OVER (PARTITION BY item_id ORDER BY start_date ASC) AS rn
            FROM bookings b
            WHERE item_id IN (?) AND start_date > ? AND status NOT IN (?, ?)
        ) ranked_future WHERE rn = 1`

	ts := now.UTC()
	query, args, err := sqlx.In(raw,
		itemIDs, ts, models.StatusCancelled, models.StatusRejected,
		itemIDs, ts, models.StatusCancelled, models.StatusRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to expand last/next batch query: %w", err)
	}

	var bookings []*models.Booking
	if err := db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get last/next bookings batch: %w", err)
	}
	return bookings, nil
}

// GetBookingReportRows returns denormalized booking lines whose window
// touches [start, end], for report exports.
func (db *DB) GetBookingReportRows(ctx context.Context, start, end time.Time) ([]models.BookingReportRow, error) {
	var rows []models.BookingReportRow
	err := db.SelectContext(ctx, &rows,
		`SELECT b.id AS booking_id, i.name AS item_name, u.name AS booker_name,
                b.start_date, b.end_date, b.status, b.created_at
         FROM bookings b
         JOIN items i ON b.item_id = i.id
         JOIN users u ON b.booker_id = u.id
         WHERE b.start_date <= ? AND b.end_date >= ?
         ORDER BY b.start_date`, end.UTC(), start.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get booking report rows: %w", err)
	}
	return rows, nil
}

// HasFinishedBooking reports whether the user has completed at least one
// booking of the item, i.e. one whose end is strictly before now.
func (db *DB) HasFinishedBooking(ctx context.Context, userID, itemID int64, now time.Time) (bool, error) {
	var exists bool
	err := db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE booker_id = ? AND item_id = ? AND end_date < ?)`,
		userID, itemID, now.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to check rental history: %w", err)
	}
	return exists, nil
}
