package database

import (
	"time"

	"lendhub/internal/models"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

var dialect = goqu.Dialect("sqlite3")

func bookingColumns() []interface{} {
	return []interface{}{
		goqu.I("b.id"),
		goqu.I("b.item_id"),
		goqu.I("b.booker_id"),
		goqu.I("b.start_date"),
		goqu.I("b.end_date"),
		goqu.I("b.status"),
		goqu.I("b.created_at"),
		goqu.I("b.updated_at"),
	}
}

// applyStateFilter is the single place where a BookingState becomes a store
// predicate. The temporal boundaries are deliberately asymmetric: CURRENT is
// start <= now AND end > now, PAST is end < now, FUTURE is start > now, so a
// booking whose end equals now is in neither PAST nor CURRENT.
func applyStateFilter(ds *goqu.SelectDataset, state models.BookingState, now time.Time) *goqu.SelectDataset {
	switch state {
	case models.StateCurrent:
		return ds.Where(
			goqu.I("b.start_date").Lte(now),
			goqu.I("b.end_date").Gt(now),
		)
	case models.StatePast:
		return ds.Where(goqu.I("b.end_date").Lt(now))
	case models.StateFuture:
		return ds.Where(goqu.I("b.start_date").Gt(now))
	case models.StateWaiting:
		return ds.Where(goqu.I("b.status").Eq(models.StatusWaiting))
	case models.StateRejected:
		return ds.Where(goqu.I("b.status").Eq(models.StatusRejected))
	default: // ALL
		return ds
	}
}

// bookerBookingsQuery builds the "bookings I made" list query: scope by
// booker, state predicate at now, start descending, page*size offset.
func bookerBookingsQuery(bookerID int64, state models.BookingState, now time.Time, page, size int) (string, []interface{}, error) {
	ds := dialect.From(goqu.T("bookings").As("b")).
		Select(bookingColumns()...).
		Where(goqu.I("b.booker_id").Eq(bookerID))

	ds = applyStateFilter(ds, state, now).
		Order(goqu.I("b.start_date").Desc()).
		Limit(uint(size)).
		Offset(uint(page * size))

	return ds.Prepared(true).ToSQL()
}

// ownerBookingsQuery builds the symmetric "bookings against items I own"
// query, joining items to scope by owner.
func ownerBookingsQuery(ownerID int64, state models.BookingState, now time.Time, page, size int) (string, []interface{}, error) {
	ds := dialect.From(goqu.T("bookings").As("b")).
		Join(
			goqu.T("items").As("i"),
			goqu.On(goqu.I("b.item_id").Eq(goqu.I("i.id"))),
		).
		Select(bookingColumns()...).
		Where(goqu.I("i.owner_id").Eq(ownerID))

	ds = applyStateFilter(ds, state, now).
		Order(goqu.I("b.start_date").Desc()).
		Limit(uint(size)).
		Offset(uint(page * size))

	return ds.Prepared(true).ToSQL()
}

// overlapQuery finds a booking of the item whose window intersects
// [start, end]: its start falls inside the window, or its end does, or it
// fully contains the window.
func overlapQuery(itemID int64, start, end time.Time) (string, []interface{}, error) {
	ds := dialect.From("bookings").
		Select(goqu.C("start_date"), goqu.C("end_date")).
		Where(
			goqu.C("item_id").Eq(itemID),
			goqu.Or(
				goqu.C("start_date").Between(goqu.Range(start, end)),
				goqu.C("end_date").Between(goqu.Range(start, end)),
				goqu.And(
					goqu.C("start_date").Lt(start),
					goqu.C("end_date").Gt(end),
				),
			),
		).
		Order(goqu.C("start_date").Asc()).
		Limit(1)

	return ds.Prepared(true).ToSQL()
}
