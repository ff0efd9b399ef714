package service

import (
	"context"
	"errors"
	"strings"

	"lendhub/internal/domain"
	"lendhub/internal/models"

	"github.com/rs/zerolog"
)

var ErrEmptyRequest = errors.New("request description must not be empty")

type RequestService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewRequestService(store domain.Store, logger *zerolog.Logger) *RequestService {
	return &RequestService{store: store, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, requestorID int64, description string) (*models.Request, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyRequest
	}

	requestor, err := s.store.GetUser(ctx, requestorID)
	if err != nil {
		return nil, err
	}

	request := &models.Request{
		Description: strings.TrimSpace(description),
		RequestorID: requestor.ID,
	}
	if err := s.store.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// ListOwn returns the user's requests, newest first, with offered items.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]*models.RequestDetails, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.store.GetRequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// ListOthers returns a page of everyone else's requests with offered items.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, page, size int) ([]*models.RequestDetails, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.store.GetOtherRequests(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (*models.RequestDetails, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	details, err := s.attachItems(ctx, []*models.Request{request})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *RequestService) attachItems(ctx context.Context, requests []*models.Request) ([]*models.RequestDetails, error) {
	details := make([]*models.RequestDetails, 0, len(requests))
	if len(requests) == 0 {
		return details, nil
	}

	requestIDs := make([]int64, 0, len(requests))
	byID := make(map[int64]*models.RequestDetails, len(requests))
	for _, r := range requests {
		requestIDs = append(requestIDs, r.ID)
		d := &models.RequestDetails{Request: *r, Items: []models.Item{}}
		details = append(details, d)
		byID[r.ID] = d
	}

	items, err := s.store.GetItemsForRequests(ctx, requestIDs)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if d, ok := byID[item.RequestID.Int64]; ok && item.RequestID.Valid {
			d.Items = append(d.Items, *item)
		}
	}

	return details, nil
}
