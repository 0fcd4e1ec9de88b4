package repository

import (
	"context"
	"errors"
	"testing"

	"bourse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_VisibilityFilter(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")
	outsider := createTestUser(t, db, "outsider")
	community := createTestCommunity(t, db, "Traders", owner.ID)

	require.NoError(t, db.Create(&models.CommunityMembership{
		CommunityID: community.ID, UserID: member.ID, Role: models.RoleMember,
	}).Error)

	publicPost := &models.Post{UserID: owner.ID, Content: "public", PostType: models.PostTypeText, Visibility: models.VisibilityPublic}
	privatePost := &models.Post{UserID: owner.ID, Content: "private", PostType: models.PostTypeText, Visibility: models.VisibilityPrivate}
	communityPost := &models.Post{UserID: owner.ID, CommunityID: &community.ID, Content: "members only", PostType: models.PostTypeText, Visibility: models.VisibilityCommunity}
	for _, p := range []*models.Post{publicPost, privatePost, communityPost} {
		require.NoError(t, db.Create(p).Error)
	}

	listContents := func(userID uint) []string {
		posts, err := repo.List(ctx, PostQuery{Limit: 10}, userID)
		require.NoError(t, err)
		out := make([]string, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.Content)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"public"}, listContents(0), "anonymous sees only public posts")
	assert.ElementsMatch(t, []string{"public", "private"}, listContents(owner.ID), "a non-member author sees own public and private posts only")
	assert.ElementsMatch(t, []string{"public", "members only"}, listContents(member.ID), "members see community posts")
	assert.ElementsMatch(t, []string{"public"}, listContents(outsider.ID), "outsiders see only public posts")

	// Membership, not authorship, is what grants access to a community post.
	require.NoError(t, db.Create(&models.CommunityMembership{
		CommunityID: community.ID, UserID: owner.ID, Role: models.RoleMember,
	}).Error)
	assert.ElementsMatch(t, []string{"public", "private", "members only"}, listContents(owner.ID), "joining makes the author's community post visible again")
}

func TestPostRepository_AuthorWhoLeftLosesCommunityPost(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	membershipRepo := NewMembershipRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	community := createTestCommunity(t, db, "Growth Desk", author.ID)

	inserted, err := membershipRepo.Join(ctx, &models.CommunityMembership{
		CommunityID: community.ID, UserID: author.ID, Role: models.RoleMember,
	})
	require.NoError(t, err)
	require.True(t, inserted)

	post := &models.Post{UserID: author.ID, CommunityID: &community.ID, Content: "thesis", PostType: models.PostTypeText, Visibility: models.VisibilityCommunity}
	require.NoError(t, db.Create(post).Error)

	got, err := repo.GetByID(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "thesis", got.Content)

	removed, err := membershipRepo.Leave(ctx, community.ID, author.ID)
	require.NoError(t, err)
	require.True(t, removed)

	_, err = repo.GetByID(ctx, post.ID, author.ID)
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code, "leaving the community revokes the author's own access")
}

func TestPostRepository_GetByID_InvisibleReadsAsMissing(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	outsider := createTestUser(t, db, "outsider")

	privatePost := &models.Post{UserID: owner.ID, Content: "private", PostType: models.PostTypeText, Visibility: models.VisibilityPrivate}
	require.NoError(t, db.Create(privatePost).Error)

	got, err := repo.GetByID(ctx, privatePost.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", got.Content)

	_, err = repo.GetByID(ctx, privatePost.ID, outsider.ID)
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code, "an invisible post must be indistinguishable from a missing one")

	_, err = repo.GetByID(ctx, privatePost.ID, 0)
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostRepository_ComputedCounts(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")

	post := &models.Post{UserID: author.ID, Content: "counted", PostType: models.PostTypeText, Visibility: models.VisibilityPublic}
	require.NoError(t, db.Create(post).Error)

	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, UserID: reader.ID, Content: "first"}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, UserID: author.ID, Content: "second"}).Error)
	require.NoError(t, db.Create(&models.PostReaction{PostID: post.ID, UserID: reader.ID, ReactionType: models.ReactionLove}).Error)

	got, err := repo.GetByID(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommentsCount)
	assert.Equal(t, 1, got.ReactionsCount)
	assert.Equal(t, string(models.ReactionLove), got.MyReaction)

	got, err = repo.GetByID(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Empty(t, got.MyReaction, "my_reaction is per requester")
}

func TestPostRepository_ListFiltersAndSort(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	tagged := &models.Post{UserID: alice.ID, Content: "tagged", PostType: models.PostTypeFinancialAnalysis, Visibility: models.VisibilityPublic, Tags: []string{"analysis", "$acme"}}
	plain := &models.Post{UserID: bob.ID, Content: "plain", PostType: models.PostTypeText, Visibility: models.VisibilityPublic}
	popular := &models.Post{UserID: bob.ID, Content: "popular", PostType: models.PostTypeText, Visibility: models.VisibilityPublic}
	for _, p := range []*models.Post{tagged, plain, popular} {
		require.NoError(t, db.Create(p).Error)
	}
	require.NoError(t, db.Create(&models.PostReaction{PostID: popular.ID, UserID: alice.ID, ReactionType: models.ReactionLike}).Error)

	byTag, err := repo.List(ctx, PostQuery{Tag: "$acme", Limit: 10}, 0)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "tagged", byTag[0].Content)

	byUser, err := repo.List(ctx, PostQuery{Username: "bob", Limit: 10}, 0)
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byType, err := repo.List(ctx, PostQuery{PostType: models.PostTypeFinancialAnalysis, Limit: 10}, 0)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "tagged", byType[0].Content)

	top, err := repo.List(ctx, PostQuery{Sort: "top", Limit: 10}, 0)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	assert.Equal(t, "popular", top[0].Content, "top sort ranks by reaction count")
}
