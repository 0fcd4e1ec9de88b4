package service

import (
	"context"
	"strings"
	"testing"

	"bourse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()

	t.Run("empty content rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo(), nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 1, Content: "  "})
		assertValidationError(t, err)
	})

	t.Run("content too long rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopPostRepo(), nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{
			UserID: 1, PostID: 1, Content: strings.Repeat("x", 10001),
		})
		assertValidationError(t, err)
	})

	t.Run("invisible post reads as not found", func(t *testing.T) {
		t.Parallel()
		pr := noopPostRepo()
		pr.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewCommentService(noopCommentRepo(), pr, nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 1, Content: "hi"})
		assertNotFoundError(t, err)
	})

	t.Run("parent from another post rejected", func(t *testing.T) {
		t.Parallel()
		cr := noopCommentRepo()
		cr.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 99}, nil
		}
		parentID := uint(5)
		svc := NewCommentService(cr, noopPostRepo(), nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{
			UserID: 1, PostID: 1, ParentID: &parentID, Content: "reply",
		})
		assertValidationError(t, err)
	})

	t.Run("threaded reply on same post accepted", func(t *testing.T) {
		t.Parallel()
		cr := noopCommentRepo()
		cr.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 1}, nil
		}
		parentID := uint(5)
		svc := NewCommentService(cr, noopPostRepo(), nil)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{
			UserID: 1, PostID: 1, ParentID: &parentID, Content: "reply",
		})
		assert.NoError(t, err)
	})
}

func TestCommentService_UpdateComment_Ownership(t *testing.T) {
	t.Parallel()

	cr := noopCommentRepo()
	cr.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, UserID: 1, Content: "old"}, nil
	}
	svc := NewCommentService(cr, noopPostRepo(), nil)

	updated, err := svc.UpdateComment(context.Background(), 1, 1, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Content)

	_, err = svc.UpdateComment(context.Background(), 1, 2, "new")
	assertUnauthorizedError(t, err)
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	othersComment := func() *commentRepoStub {
		cr := noopCommentRepo()
		cr.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 10}, nil
		}
		return cr
	}

	t.Run("author can delete", func(t *testing.T) {
		t.Parallel()
		cr := noopCommentRepo()
		cr.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1}, nil
		}
		svc := NewCommentService(cr, noopPostRepo(), nil)
		assert.NoError(t, svc.DeleteComment(context.Background(), 1, 1))
	})

	t.Run("non-author cannot delete", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(othersComment(), noopPostRepo(), nil)
		assertUnauthorizedError(t, svc.DeleteComment(context.Background(), 1, 1))
	})

	t.Run("platform admin can delete", func(t *testing.T) {
		t.Parallel()
		isAdmin := func(_ context.Context, _ uint) (bool, error) { return true, nil }
		svc := NewCommentService(othersComment(), noopPostRepo(), isAdmin)
		assert.NoError(t, svc.DeleteComment(context.Background(), 1, 1))
	})
}
