package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lendhub/internal/domain"
	"lendhub/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	store    domain.Store
	bookings domain.BookingService
	logger   *zerolog.Logger
}

func NewItemService(store domain.Store, bookings domain.BookingService, logger *zerolog.Logger) *ItemService {
	return &ItemService{store: store, bookings: bookings, logger: logger}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	owner, err := s.store.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	item.OwnerID = owner.ID

	if item.RequestID.Valid {
		if _, err := s.store.GetRequest(ctx, item.RequestID.Int64); err != nil {
			return nil, err
		}
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// Update applies a partial update; only the owner may edit.
func (s *ItemService) Update(ctx context.Context, actorID, itemID int64, name, description *string, available *bool) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, fmt.Errorf("%w: user %d, owner %d", ErrEditForbidden, actorID, item.OwnerID)
	}

	if name != nil && *name != "" {
		item.Name = *name
	}
	if description != nil && *description != "" {
		item.Description = *description
	}
	if available != nil {
		item.Available = *available
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Get returns the item with its comments. The last/next booking pair is only
// visible to the owner.
func (s *ItemService) Get(ctx context.Context, actorID, itemID int64) (*models.ItemDetails, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.GetCommentsForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	details := &models.ItemDetails{Item: *item, Comments: comments}

	if item.OwnerID == actorID {
		if details.LastBooking, err = s.bookings.LastOrNext(ctx, itemID, true); err != nil {
			return nil, err
		}
		if details.NextBooking, err = s.bookings.LastOrNext(ctx, itemID, false); err != nil {
			return nil, err
		}
	}

	return details, nil
}

// ListByOwner returns the owner's items, each with its last/next booking pair
// and comments. Bookings and comments for the whole page come from one batch
// query each instead of per-item lookups.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, page, size int) ([]*models.ItemDetails, error) {
	if _, err := s.store.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.store.GetItemsByOwner(ctx, ownerID, page, size)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.ItemDetails{}, nil
	}

	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	now := time.Now().UTC()
	bookings, err := s.bookings.LastAndNextForItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.GetCommentsForItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	commentsByItem := make(map[int64][]models.Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	details := make([]*models.ItemDetails, 0, len(items))
	byID := make(map[int64]*models.ItemDetails, len(items))
	for _, item := range items {
		d := &models.ItemDetails{Item: *item, Comments: commentsByItem[item.ID]}
		if d.Comments == nil {
			d.Comments = []models.Comment{}
		}
		details = append(details, d)
		byID[item.ID] = d
	}

	// The batch query yields at most one past/current and one future booking
	// per item; the start relative to now tells which slot it fills.
	for _, b := range bookings {
		d, ok := byID[b.ItemID]
		if !ok {
			continue
		}
		if b.Start.Before(now) {
			d.LastBooking = b
		} else {
			d.NextBooking = b
		}
	}

	return details, nil
}

// Search finds available items matching the text. Blank text means an empty
// result, not an error.
func (s *ItemService) Search(ctx context.Context, text string, page, size int) ([]*models.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.Item{}, nil
	}
	return s.store.SearchItems(ctx, text, page, size)
}

// AddComment records a review; only users with a finished booking of the item
// may comment.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	rented, err := s.bookings.HasFinishedBooking(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if !rented {
		return nil, fmt.Errorf("%w: user %d, item %d", ErrCommentForbidden, authorID, itemID)
	}

	comment := &models.Comment{
		Text:       strings.TrimSpace(text),
		ItemID:     itemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
