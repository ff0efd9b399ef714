package database

import (
	"context"
	"fmt"
	"time"

	"lendhub/internal/models"

	"github.com/jmoiron/sqlx"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO comments (text, item_id, author_id, created_at) VALUES (?, ?, ?, ?)`,
		comment.Text, comment.ItemID, comment.AuthorID, now)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.CreatedAt = now

	// Author name is a read-side projection; fill it for the fresh comment.
	if comment.AuthorName == "" {
		var name string
		if err := db.GetContext(ctx, &name, `SELECT name FROM users WHERE id = ?`, comment.AuthorID); err == nil {
			comment.AuthorName = name
		}
	}
	return nil
}

func (db *DB) GetCommentsForItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.SelectContext(ctx, &comments,
		`SELECT c.id, c.text, c.item_id, c.author_id, u.name AS author_name, c.created_at
         FROM comments c JOIN users u ON c.author_id = u.id
         WHERE c.item_id = ? ORDER BY c.created_at`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments for item: %w", err)
	}
	return comments, nil
}

// GetCommentsForItems fetches comments for a page of items in one query.
func (db *DB) GetCommentsForItems(ctx context.Context, itemIDs []int64) ([]models.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		`SELECT c.id, c.text, c.item_id, c.author_id, u.name AS author_name, c.created_at
         FROM comments c JOIN users u ON c.author_id = u.id
         WHERE c.item_id IN (?) ORDER BY c.created_at`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to expand comments query: %w", err)
	}
	var comments []models.Comment
	if err := db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get comments for items: %w", err)
	}
	return comments, nil
}
