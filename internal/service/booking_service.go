package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lendhub/internal/database"
	"lendhub/internal/domain"
	"lendhub/internal/events"
	"lendhub/internal/metrics"
	"lendhub/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: creation with conflict
// detection, the owner approval workflow, access-controlled reads and the
// temporal list/derivation queries.
type BookingService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create books the item for [start, end). The store runs the availability,
// overlap and self-booking checks in that order, inside one transaction with
// the insert. The new booking starts in WAITING.
func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start %s, end %s",
			ErrInvalidPeriod, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	booker, err := s.store.GetUser(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: booker.ID,
		Start:    start,
		End:      end,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, database.ErrBookingConflict) {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishEvent(events.EventBookingCreated, booking, 0)

	return booking, nil
}

// Decide lets the item owner approve or reject a waiting booking.
func (s *BookingService) Decide(ctx context.Context, actorID, bookingID int64, approve bool) (*models.Booking, error) {
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID != actor.ID {
		return nil, fmt.Errorf("%w: user %d is not owner %d", ErrNotOwner, actor.ID, item.OwnerID)
	}

	if booking.Status == models.StatusApproved && approve {
		return nil, fmt.Errorf("%w: already approved, cannot re-approve", ErrAlreadyDecided)
	}
	if booking.IsTerminal() {
		return nil, fmt.Errorf("%w: booking %d is %s", ErrAlreadyDecided, booking.ID, booking.Status)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approve {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.store.UpdateBookingStatus(ctx, booking.ID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	metrics.IncBookingDecision(status)
	s.publishEvent(eventType, booking, actor.ID)

	return booking, nil
}

// Cancel lets the booker withdraw a booking that is still waiting.
func (s *BookingService) Cancel(ctx context.Context, actorID, bookingID int64) (*models.Booking, error) {
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.BookerID != actor.ID {
		return nil, fmt.Errorf("%w: user %d is not booker %d", ErrNotBooker, actor.ID, booking.BookerID)
	}
	if booking.IsTerminal() {
		return nil, fmt.Errorf("%w: booking %d is %s", ErrAlreadyDecided, booking.ID, booking.Status)
	}

	if err := s.store.UpdateBookingStatus(ctx, booking.ID, models.StatusCancelled); err != nil {
		return nil, err
	}
	booking.Status = models.StatusCancelled

	metrics.IncBookingDecision(models.StatusCancelled)
	s.publishEvent(events.EventBookingCancelled, booking, actor.ID)

	return booking, nil
}

// Get returns the booking if the actor is its booker or the item's owner.
func (s *BookingService) Get(ctx context.Context, actorID, bookingID int64) (*models.Booking, error) {
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	if actor.ID != booking.BookerID && actor.ID != item.OwnerID {
		return nil, fmt.Errorf("%w: user %d, booker %d, owner %d",
			ErrViewForbidden, actor.ID, booking.BookerID, item.OwnerID)
	}

	return booking, nil
}

// ListForBooker lists the user's own bookings filtered by state.
func (s *BookingService) ListForBooker(ctx context.Context, userID int64, state models.BookingState, page, size int) ([]*models.Booking, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.GetBookingsForBooker(ctx, userID, state, time.Now().UTC(), page, size)
}

// ListForOwner lists bookings against items the user owns, filtered by state.
func (s *BookingService) ListForOwner(ctx context.Context, userID int64, state models.BookingState, page, size int) ([]*models.Booking, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.GetBookingsForOwner(ctx, userID, state, time.Now().UTC(), page, size)
}

// LastOrNext returns the item's most recent past/current booking (last=true)
// or the nearest future one (last=false); nil when the item has none.
func (s *BookingService) LastOrNext(ctx context.Context, itemID int64, last bool) (*models.Booking, error) {
	return s.store.LastOrNextBooking(ctx, itemID, time.Now().UTC(), last)
}

// LastAndNextForItems resolves the last and next booking for a whole page of
// items in one store round trip.
func (s *BookingService) LastAndNextForItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error) {
	return s.store.LastAndNextForItems(ctx, itemIDs, time.Now().UTC())
}

// HasFinishedBooking reports whether the user completed a booking of the item.
func (s *BookingService) HasFinishedBooking(ctx context.Context, userID, itemID int64) (bool, error) {
	return s.store.HasFinishedBooking(ctx, userID, itemID, time.Now().UTC())
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actorID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
		ActorID:   actorID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
