package database

import (
	"context"
	"os"
	"testing"
	"time"

	"lendhub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(os.Stdout)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *DB, name, email string) *models.User {
	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	item := &models.Item{
		Name:        name,
		Description: name + " description",
		Available:   available,
		OwnerID:     ownerID,
	}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

// insertBooking writes a booking row directly so tests can control status and
// timestamps without going through the create-time checks.
func insertBooking(t *testing.T, db *DB, itemID, bookerID int64, start, end time.Time, status string) int64 {
	result, err := db.ExecContext(context.Background(),
		`INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		itemID, bookerID, start.UTC(), end.UTC(), status, time.Now().UTC(), time.Now().UTC())
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestCreateBooking_Success(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	booking := &models.Booking{
		ItemID:   item.ID,
		BookerID: booker.ID,
		Start:    start,
		End:      start.Add(48 * time.Hour),
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	assert.NotZero(t, booking.ID)
	assert.Equal(t, models.StatusWaiting, booking.Status)

	loaded, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, loaded.ItemID)
	assert.Equal(t, booker.ID, loaded.BookerID)
	assert.Equal(t, models.StatusWaiting, loaded.Status)
	assert.True(t, loaded.Start.Equal(start))
}

func TestCreateBooking_ItemNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	booker := createTestUser(t, db, "Booker", "booker@example.com")
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	err := db.CreateBooking(context.Background(), &models.Booking{
		ItemID:   999,
		BookerID: booker.ID,
		Start:    start,
		End:      start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCreateBooking_ItemUnavailable(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Broken drill", false)

	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	err := db.CreateBooking(context.Background(), &models.Booking{
		ItemID:   item.ID,
		BookerID: booker.ID,
		Start:    start,
		End:      start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestCreateBooking_Conflict(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	other := createTestUser(t, db, "Other", "other@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	// Existing booking occupies Mar 10 .. Mar 12.
	existingStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	existingEnd := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	insertBooking(t, db, item.ID, booker.ID, existingStart, existingEnd, models.StatusApproved)

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"existing start inside window", existingStart.Add(-time.Hour), existingStart.Add(time.Hour)},
		{"existing end inside window", existingEnd.Add(-time.Hour), existingEnd.Add(time.Hour)},
		{"existing contains window", existingStart.Add(time.Hour), existingEnd.Add(-time.Hour)},
		{"window contains existing", existingStart.Add(-time.Hour), existingEnd.Add(time.Hour)},
		{"identical window", existingStart, existingEnd},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := db.CreateBooking(ctx, &models.Booking{
				ItemID:   item.ID,
				BookerID: other.ID,
				Start:    tc.start,
				End:      tc.end,
			})
			assert.ErrorIs(t, err, ErrBookingConflict)
		})
	}

	// Disjoint window after the existing one is fine.
	err := db.CreateBooking(ctx, &models.Booking{
		ItemID:   item.ID,
		BookerID: other.ID,
		Start:    existingEnd.Add(time.Hour),
		End:      existingEnd.Add(24 * time.Hour),
	})
	assert.NoError(t, err)
}

func TestCreateBooking_ConflictConsidersAllStatuses(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	other := createTestUser(t, db, "Other", "other@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	insertBooking(t, db, item.ID, booker.ID, start, end, models.StatusRejected)

	// Even a rejected booking blocks the window.
	err := db.CreateBooking(ctx, &models.Booking{
		ItemID:   item.ID,
		BookerID: other.ID,
		Start:    start,
		End:      end,
	})
	assert.ErrorIs(t, err, ErrBookingConflict)
}

func TestCreateBooking_OwnerBooking(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	err := db.CreateBooking(context.Background(), &models.Booking{
		ItemID:   item.ID,
		BookerID: owner.ID,
		Start:    start,
		End:      start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrOwnerBooking)
}

func TestCreateBooking_CheckOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	// Unavailable item with a conflicting booking: availability wins.
	unavailable := createTestItem(t, db, owner.ID, "Unavailable", false)
	insertBooking(t, db, unavailable.ID, booker.ID, start, end, models.StatusApproved)
	err := db.CreateBooking(ctx, &models.Booking{
		ItemID: unavailable.ID, BookerID: owner.ID, Start: start, End: end,
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)

	// Owner booking own item over a conflicting window: conflict wins.
	available := createTestItem(t, db, owner.ID, "Available", true)
	insertBooking(t, db, available.ID, booker.ID, start, end, models.StatusApproved)
	err = db.CreateBooking(ctx, &models.Booking{
		ItemID: available.ID, BookerID: owner.ID, Start: start, End: end,
	})
	assert.ErrorIs(t, err, ErrBookingConflict)
}

func TestGetBooking_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetBooking(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateBookingStatus(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	id := insertBooking(t, db, item.ID, booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	require.NoError(t, db.UpdateBookingStatus(ctx, id, models.StatusApproved))

	loaded, err := db.GetBooking(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, loaded.Status)

	err = db.UpdateBookingStatus(ctx, 999, models.StatusApproved)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetBookingsForBooker_StateFilters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	past := insertBooking(t, db, item.ID, booker.ID,
		now.Add(-72*time.Hour), now.Add(-48*time.Hour), models.StatusApproved)
	current := insertBooking(t, db, item.ID, booker.ID,
		now.Add(-24*time.Hour), now.Add(24*time.Hour), models.StatusApproved)
	future := insertBooking(t, db, item.ID, booker.ID,
		now.Add(48*time.Hour), now.Add(72*time.Hour), models.StatusWaiting)
	rejected := insertBooking(t, db, item.ID, booker.ID,
		now.Add(96*time.Hour), now.Add(120*time.Hour), models.StatusRejected)

	ids := func(bookings []*models.Booking) []int64 {
		out := make([]int64, 0, len(bookings))
		for _, b := range bookings {
			out = append(out, b.ID)
		}
		return out
	}

	all, err := db.GetBookingsForBooker(ctx, booker.ID, models.StateAll, now, 0, 10)
	require.NoError(t, err)
	// Newest start first.
	assert.Equal(t, []int64{rejected, future, current, past}, ids(all))

	got, err := db.GetBookingsForBooker(ctx, booker.ID, models.StatePast, now, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{past}, ids(got))

	got, err = db.GetBookingsForBooker(ctx, booker.ID, models.StateCurrent, now, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{current}, ids(got))

	got, err = db.GetBookingsForBooker(ctx, booker.ID, models.StateFuture, now, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{rejected, future}, ids(got))

	got, err = db.GetBookingsForBooker(ctx, booker.ID, models.StateWaiting, now, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{future}, ids(got))

	got, err = db.GetBookingsForBooker(ctx, booker.ID, models.StateRejected, now, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{rejected}, ids(got))
}

func TestGetBookingsForBooker_EndAtNowBoundary(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// Ends exactly at the query instant: PAST needs end < now, CURRENT needs
	// end > now, so the booking shows up in neither.
	insertBooking(t, db, item.ID, booker.ID, now.Add(-24*time.Hour), now, models.StatusApproved)

	past, err := db.GetBookingsForBooker(ctx, booker.ID, models.StatePast, now, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, past)

	current, err := db.GetBookingsForBooker(ctx, booker.ID, models.StateCurrent, now, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, current)

	all, err := db.GetBookingsForBooker(ctx, booker.ID, models.StateAll, now, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetBookingsForBooker_Pagination(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		start := base.Add(time.Duration(i) * 48 * time.Hour)
		insertBooking(t, db, item.ID, booker.ID, start, start.Add(24*time.Hour), models.StatusWaiting)
	}

	now := base.Add(500 * time.Hour)

	page0, err := db.GetBookingsForBooker(ctx, booker.ID, models.StateAll, now, 0, 2)
	require.NoError(t, err)
	require.Len(t, page0, 2)

	page1, err := db.GetBookingsForBooker(ctx, booker.ID, models.StateAll, now, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := db.GetBookingsForBooker(ctx, booker.ID, models.StateAll, now, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)

	assert.True(t, page0[1].Start.After(page1[0].Start))
}

func TestGetBookingsForOwner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	otherOwner := createTestUser(t, db, "Other owner", "other-owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")

	mine := createTestItem(t, db, owner.ID, "Mine", true)
	theirs := createTestItem(t, db, otherOwner.ID, "Theirs", true)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	wanted := insertBooking(t, db, mine.ID, booker.ID,
		now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusWaiting)
	insertBooking(t, db, theirs.ID, booker.ID,
		now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusWaiting)

	got, err := db.GetBookingsForOwner(ctx, owner.ID, models.StateAll, now, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, wanted, got[0].ID)
}

func TestLastOrNextBooking(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	insertBooking(t, db, item.ID, booker.ID,
		now.Add(-96*time.Hour), now.Add(-72*time.Hour), models.StatusApproved)
	lastID := insertBooking(t, db, item.ID, booker.ID,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusApproved)
	// Cancelled and rejected bookings never count.
	insertBooking(t, db, item.ID, booker.ID,
		now.Add(-12*time.Hour), now.Add(-6*time.Hour), models.StatusCancelled)
	insertBooking(t, db, item.ID, booker.ID,
		now.Add(6*time.Hour), now.Add(12*time.Hour), models.StatusRejected)
	nextID := insertBooking(t, db, item.ID, booker.ID,
		now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusWaiting)
	insertBooking(t, db, item.ID, booker.ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour), models.StatusWaiting)

	last, err := db.LastOrNextBooking(ctx, item.ID, now, true)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, lastID, last.ID)

	next, err := db.LastOrNextBooking(ctx, item.ID, now, false)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, nextID, next.ID)
}

func TestLastOrNextBooking_NoBookings(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	last, err := db.LastOrNextBooking(ctx, item.ID, now, true)
	require.NoError(t, err)
	assert.Nil(t, last)

	next, err := db.LastOrNextBooking(ctx, item.ID, now, false)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestLastAndNextForItems_MatchesSingleItemQueries(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")

	itemA := createTestItem(t, db, owner.ID, "Item A", true)
	itemB := createTestItem(t, db, owner.ID, "Item B", true)
	itemC := createTestItem(t, db, owner.ID, "Item C", true)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// A has both a last and a next booking.
	insertBooking(t, db, itemA.ID, booker.ID,
		now.Add(-96*time.Hour), now.Add(-72*time.Hour), models.StatusApproved)
	insertBooking(t, db, itemA.ID, booker.ID,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusApproved)
	insertBooking(t, db, itemA.ID, booker.ID,
		now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusWaiting)

	// B only has a future booking, plus a cancelled one that must not count.
	insertBooking(t, db, itemB.ID, booker.ID,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusCancelled)
	insertBooking(t, db, itemB.ID, booker.ID,
		now.Add(72*time.Hour), now.Add(96*time.Hour), models.StatusWaiting)

	// C has no bookings.

	itemIDs := []int64{itemA.ID, itemB.ID, itemC.ID}
	batch, err := db.LastAndNextForItems(ctx, itemIDs, now)
	require.NoError(t, err)

	byItem := make(map[int64]map[bool]*models.Booking)
	for _, b := range batch {
		if byItem[b.ItemID] == nil {
			byItem[b.ItemID] = make(map[bool]*models.Booking)
		}
		byItem[b.ItemID][b.Start.Before(now)] = b
	}

	for _, itemID := range itemIDs {
		for _, last := range []bool{true, false} {
			single, err := db.LastOrNextBooking(ctx, itemID, now, last)
			require.NoError(t, err)

			got := byItem[itemID][last]
			if single == nil {
				assert.Nil(t, got, "item %d last=%v", itemID, last)
				continue
			}
			require.NotNil(t, got, "item %d last=%v", itemID, last)
			assert.Equal(t, single.ID, got.ID, "item %d last=%v", itemID, last)
		}
	}
}

func TestLastAndNextForItems_EmptyInput(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	bookings, err := db.LastAndNextForItems(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Nil(t, bookings)
}

func TestHasFinishedBooking(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	stranger := createTestUser(t, db, "Stranger", "stranger@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	insertBooking(t, db, item.ID, booker.ID,
		now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusApproved)
	insertBooking(t, db, item.ID, stranger.ID,
		now.Add(-12*time.Hour), now.Add(12*time.Hour), models.StatusApproved)

	finished, err := db.HasFinishedBooking(ctx, booker.ID, item.ID, now)
	require.NoError(t, err)
	assert.True(t, finished)

	// Ongoing booking does not count as finished.
	finished, err = db.HasFinishedBooking(ctx, stranger.ID, item.ID, now)
	require.NoError(t, err)
	assert.False(t, finished)

	finished, err = db.HasFinishedBooking(ctx, owner.ID, item.ID, now)
	require.NoError(t, err)
	assert.False(t, finished)
}

func TestGetBookingReportRows(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	windowStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	inside := insertBooking(t, db, item.ID, booker.ID,
		windowStart.Add(24*time.Hour), windowStart.Add(48*time.Hour), models.StatusApproved)
	// Starts before the window but reaches into it.
	overlapping := insertBooking(t, db, item.ID, booker.ID,
		windowStart.Add(-48*time.Hour), windowStart.Add(12*time.Hour), models.StatusApproved)
	// Entirely before the window.
	insertBooking(t, db, item.ID, booker.ID,
		windowStart.Add(-96*time.Hour), windowStart.Add(-72*time.Hour), models.StatusApproved)

	rows, err := db.GetBookingReportRows(ctx, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, overlapping, rows[0].BookingID)
	assert.Equal(t, inside, rows[1].BookingID)
	assert.Equal(t, "Drill", rows[0].ItemName)
	assert.Equal(t, "Booker", rows[0].BookerName)
}
