package service

import (
	"context"
	"strings"
	"testing"

	"bourse/internal/models"
	"bourse/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noopMembershipRepo(), nil)
	ctx := context.Background()
	communityID := uint(1)

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{
			name:  "empty content",
			input: CreatePostInput{UserID: 1, Content: "   "},
		},
		{
			name:  "invalid post type",
			input: CreatePostInput{UserID: 1, Content: "c", PostType: "banana"},
		},
		{
			name:  "invalid visibility",
			input: CreatePostInput{UserID: 1, Content: "c", Visibility: "everyone"},
		},
		{
			name:  "content too long",
			input: CreatePostInput{UserID: 1, Content: strings.Repeat("x", 50001)},
		},
		{
			name:  "too many tags",
			input: CreatePostInput{UserID: 1, Content: "c", Tags: make([]string, 11)},
		},
		{
			name:  "blank tag",
			input: CreatePostInput{UserID: 1, Content: "c", Tags: []string{"  "}},
		},
		{
			name:  "image post without media",
			input: CreatePostInput{UserID: 1, Content: "c", PostType: string(models.PostTypeImage)},
		},
		{
			name:  "invalid media url",
			input: CreatePostInput{UserID: 1, Content: "c", MediaURLs: []string{"not a url"}},
		},
		{
			name:  "community visibility without community",
			input: CreatePostInput{UserID: 1, Content: "c", Visibility: string(models.VisibilityCommunity)},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreatePost(ctx, tc.input)
			assertValidationError(t, err)
		})
	}

	t.Run("community visibility with community is accepted", func(t *testing.T) {
		t.Parallel()
		mr := noopMembershipRepo()
		mr.isMemberFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
		svc := NewPostService(noopPostRepo(), mr, nil)
		_, err := svc.CreatePost(ctx, CreatePostInput{
			UserID:      1,
			Content:     "earnings thread",
			Visibility:  string(models.VisibilityCommunity),
			CommunityID: &communityID,
		})
		assert.NoError(t, err)
	})
}

func TestPostService_CreatePost_CommunityMembership(t *testing.T) {
	t.Parallel()

	communityID := uint(3)

	t.Run("non-member cannot post to a community", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopMembershipRepo(), nil)
		_, err := svc.CreatePost(context.Background(), CreatePostInput{
			UserID: 1, Content: "hello", CommunityID: &communityID,
		})
		assertUnauthorizedError(t, err)
	})

	t.Run("member can post to a community", func(t *testing.T) {
		t.Parallel()
		mr := noopMembershipRepo()
		mr.isMemberFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
		svc := NewPostService(noopPostRepo(), mr, nil)
		_, err := svc.CreatePost(context.Background(), CreatePostInput{
			UserID: 1, Content: "hello", CommunityID: &communityID,
		})
		assert.NoError(t, err)
	})
}

func TestPostService_CreatePost_NormalizesTags(t *testing.T) {
	t.Parallel()

	var created *models.Post
	pr := noopPostRepo()
	pr.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}
	svc := NewPostService(pr, noopMembershipRepo(), nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  1,
		Content: "tagged",
		Tags:    []string{"Stocks", " stocks ", "ETF"},
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, []string{"stocks", "etf"}, created.Tags)
}

func TestPostService_ListPosts_FilterValidation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noopMembershipRepo(), nil)
	ctx := context.Background()

	_, err := svc.ListPosts(ctx, repository.PostQuery{Visibility: "everyone"}, 0)
	assertValidationError(t, err)

	_, err = svc.ListPosts(ctx, repository.PostQuery{PostType: "banana"}, 0)
	assertValidationError(t, err)

	_, err = svc.ListPosts(ctx, repository.PostQuery{Sort: "hottest"}, 0)
	assertValidationError(t, err)

	for _, sort := range []string{"", "new", "old", "top"} {
		_, err = svc.ListPosts(ctx, repository.PostQuery{Sort: sort}, 0)
		assert.NoError(t, err, "sort %q should be accepted", sort)
	}

	var got repository.PostQuery
	pr := noopPostRepo()
	pr.listFn = func(_ context.Context, q repository.PostQuery, _ uint) ([]*models.Post, error) {
		got = q
		return nil, nil
	}
	svc = NewPostService(pr, noopMembershipRepo(), nil)
	_, err = svc.ListPosts(ctx, repository.PostQuery{Limit: 1000, Offset: -3}, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Limit)
	assert.Equal(t, 0, got.Offset)
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Parallel()

	ownedPost := func() *postRepoStub {
		pr := noopPostRepo()
		pr.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1, Content: "old", PostType: models.PostTypeText, Visibility: models.VisibilityPublic}, nil
		}
		return pr
	}

	t.Run("author can edit", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(ownedPost(), noopMembershipRepo(), nil)
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Content: "new"})
		assert.NoError(t, err)
	})

	t.Run("non-author cannot edit", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(ownedPost(), noopMembershipRepo(), nil)
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 2, PostID: 1, Content: "new"})
		assertUnauthorizedError(t, err)
	})

	t.Run("community visibility on a personal post is rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(ownedPost(), noopMembershipRepo(), nil)
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			UserID: 1, PostID: 1, Visibility: string(models.VisibilityCommunity),
		})
		assertValidationError(t, err)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	othersPost := func() *postRepoStub {
		pr := noopPostRepo()
		pr.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 10}, nil
		}
		return pr
	}

	t.Run("author can delete", func(t *testing.T) {
		t.Parallel()
		pr := noopPostRepo()
		pr.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 1}, nil
		}
		svc := NewPostService(pr, noopMembershipRepo(), nil)
		assert.NoError(t, svc.DeletePost(context.Background(), 1, 1))
	})

	t.Run("non-author cannot delete", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(othersPost(), noopMembershipRepo(), nil)
		assertUnauthorizedError(t, svc.DeletePost(context.Background(), 1, 1))
	})

	t.Run("platform admin can delete another user's post", func(t *testing.T) {
		t.Parallel()
		isAdmin := func(_ context.Context, _ uint) (bool, error) { return true, nil }
		svc := NewPostService(othersPost(), noopMembershipRepo(), isAdmin)
		assert.NoError(t, svc.DeletePost(context.Background(), 1, 1))
	})

	t.Run("invisible post reads as not found", func(t *testing.T) {
		t.Parallel()
		pr := noopPostRepo()
		pr.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewPostService(pr, noopMembershipRepo(), nil)
		assertNotFoundError(t, svc.DeletePost(context.Background(), 1, 1))
	})
}
