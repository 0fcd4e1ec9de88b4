package repository

import (
	"context"
	"errors"
	"testing"

	"bourse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndThread(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	post := &models.Post{UserID: alice.ID, Content: "hello", PostType: models.PostTypeText, Visibility: models.VisibilityPublic}
	require.NoError(t, db.Create(post).Error)

	parent := &models.Comment{PostID: post.ID, UserID: alice.ID, Content: "parent"}
	require.NoError(t, repo.Create(ctx, parent))
	require.NotZero(t, parent.ID)

	reply := &models.Comment{PostID: post.ID, UserID: alice.ID, ParentID: &parent.ID, Content: "reply"}
	require.NoError(t, repo.Create(ctx, reply))

	got, err := repo.GetByID(ctx, reply.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parent.ID, *got.ParentID)
	assert.Equal(t, "alice", got.User.Username, "comments preload the author")

	comments, err := repo.ListByPost(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "parent", comments[0].Content, "comments list oldest first")
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestCommentRepository_SoftDeleteHidesFromList(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	post := &models.Post{UserID: alice.ID, Content: "hello", PostType: models.PostTypeText, Visibility: models.VisibilityPublic}
	require.NoError(t, db.Create(post).Error)

	comment := &models.Comment{PostID: post.ID, UserID: alice.ID, Content: "gone soon"}
	require.NoError(t, repo.Create(ctx, comment))
	require.NoError(t, repo.Delete(ctx, comment.ID))

	comments, err := repo.ListByPost(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
