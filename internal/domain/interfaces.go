package domain

import (
	"context"
	"time"

	"lendhub/internal/models"
)

// Store is the persistence surface the services depend on.
type Store interface {
	// users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)

	// items
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, page, size int) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, page, size int) ([]*models.Item, error)
	GetItemsForRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error)

	// requests
	CreateRequest(ctx context.Context, request *models.Request) error
	GetRequest(ctx context.Context, id int64) (*models.Request, error)
	GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.Request, error)
	GetOtherRequests(ctx context.Context, userID int64, page, size int) ([]*models.Request, error)

	// comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsForItem(ctx context.Context, itemID int64) ([]models.Comment, error)
	GetCommentsForItems(ctx context.Context, itemIDs []int64) ([]models.Comment, error)

	// bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	GetBookingsForBooker(ctx context.Context, bookerID int64, state models.BookingState, now time.Time, page, size int) ([]*models.Booking, error)
	GetBookingsForOwner(ctx context.Context, ownerID int64, state models.BookingState, now time.Time, page, size int) ([]*models.Booking, error)
	LastOrNextBooking(ctx context.Context, itemID int64, now time.Time, last bool) (*models.Booking, error)
	LastAndNextForItems(ctx context.Context, itemIDs []int64, now time.Time) ([]*models.Booking, error)
	HasFinishedBooking(ctx context.Context, userID, itemID int64, now time.Time) (bool, error)

	// reporting
	GetBookingReportRows(ctx context.Context, start, end time.Time) ([]models.BookingReportRow, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimiter answers whether an actor may make another request inside the
// sliding window.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type BookingService interface {
	Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	Decide(ctx context.Context, actorID, bookingID int64, approve bool) (*models.Booking, error)
	Cancel(ctx context.Context, actorID, bookingID int64) (*models.Booking, error)
	Get(ctx context.Context, actorID, bookingID int64) (*models.Booking, error)
	ListForBooker(ctx context.Context, userID int64, state models.BookingState, page, size int) ([]*models.Booking, error)
	ListForOwner(ctx context.Context, userID int64, state models.BookingState, page, size int) ([]*models.Booking, error)
	LastOrNext(ctx context.Context, itemID int64, last bool) (*models.Booking, error)
	LastAndNextForItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error)
	HasFinishedBooking(ctx context.Context, userID, itemID int64) (bool, error)
}

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, name, email *string) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*models.User, error)
}

type ItemService interface {
	Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, actorID, itemID int64, name, description *string, available *bool) (*models.Item, error)
	Get(ctx context.Context, actorID, itemID int64) (*models.ItemDetails, error)
	ListByOwner(ctx context.Context, ownerID int64, page, size int) ([]*models.ItemDetails, error)
	Search(ctx context.Context, text string, page, size int) ([]*models.Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
}

type RequestService interface {
	Create(ctx context.Context, requestorID int64, description string) (*models.Request, error)
	ListOwn(ctx context.Context, userID int64) ([]*models.RequestDetails, error)
	ListOthers(ctx context.Context, userID int64, page, size int) ([]*models.RequestDetails, error)
	Get(ctx context.Context, userID, requestID int64) (*models.RequestDetails, error)
}
