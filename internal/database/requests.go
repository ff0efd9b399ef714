package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lendhub/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.Request) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO requests (description, requestor_id, created_at) VALUES (?, ?, ?)`,
		request.Description, request.RequestorID, now)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	request.CreatedAt = now
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.Request, error) {
	var request models.Request
	err := db.GetContext(ctx, &request,
		`SELECT id, description, requestor_id, created_at FROM requests WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrRequestNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &request, nil
}

func (db *DB) GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.Request, error) {
	var requests []*models.Request
	err := db.SelectContext(ctx, &requests,
		`SELECT id, description, requestor_id, created_at
         FROM requests WHERE requestor_id = ? ORDER BY created_at DESC`, requestorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests by requestor: %w", err)
	}
	return requests, nil
}

// GetOtherRequests lists requests made by everyone except the user, newest
// first, paged.
func (db *DB) GetOtherRequests(ctx context.Context, userID int64, page, size int) ([]*models.Request, error) {
	var requests []*models.Request
	err := db.SelectContext(ctx, &requests,
		`SELECT id, description, requestor_id, created_at
         FROM requests WHERE requestor_id != ? ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		userID, size, page*size)
	if err != nil {
		return nil, fmt.Errorf("failed to get other requests: %w", err)
	}
	return requests, nil
}
