package database

import (
	"context"
	"testing"

	"lendhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	author := createTestUser(t, db, "Author", "author@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)

	comment := &models.Comment{Text: "worked great", ItemID: item.ID, AuthorID: author.ID}
	require.NoError(t, db.CreateComment(ctx, comment))
	assert.NotZero(t, comment.ID)
	assert.Equal(t, "Author", comment.AuthorName)
}

func TestGetCommentsForItem(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	author := createTestUser(t, db, "Author", "author@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", true)
	otherItem := createTestItem(t, db, owner.ID, "Ladder", true)

	require.NoError(t, db.CreateComment(ctx, &models.Comment{
		Text: "worked great", ItemID: item.ID, AuthorID: author.ID,
	}))
	require.NoError(t, db.CreateComment(ctx, &models.Comment{
		Text: "wobbly", ItemID: otherItem.ID, AuthorID: author.ID,
	}))

	comments, err := db.GetCommentsForItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "worked great", comments[0].Text)
	assert.Equal(t, "Author", comments[0].AuthorName)
}

func TestGetCommentsForItems(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	author := createTestUser(t, db, "Author", "author@example.com")
	itemA := createTestItem(t, db, owner.ID, "Drill", true)
	itemB := createTestItem(t, db, owner.ID, "Ladder", true)
	itemC := createTestItem(t, db, owner.ID, "Saw", true)

	require.NoError(t, db.CreateComment(ctx, &models.Comment{
		Text: "on A", ItemID: itemA.ID, AuthorID: author.ID,
	}))
	require.NoError(t, db.CreateComment(ctx, &models.Comment{
		Text: "on B", ItemID: itemB.ID, AuthorID: author.ID,
	}))
	require.NoError(t, db.CreateComment(ctx, &models.Comment{
		Text: "on C, not asked for", ItemID: itemC.ID, AuthorID: author.ID,
	}))

	comments, err := db.GetCommentsForItems(ctx, []int64{itemA.ID, itemB.ID})
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	comments, err = db.GetCommentsForItems(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, comments)
}
