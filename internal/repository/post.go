package repository

import (
	"context"
	"errors"
	"time"

	"bourse/internal/cache"
	"bourse/internal/models"
	"bourse/internal/observability"

	"gorm.io/gorm"
)

// PostQuery captures every supported filter for listing posts. The zero value
// means "newest public posts, first page".
type PostQuery struct {
	CommunityID   *uint
	Username      string
	Visibility    models.Visibility
	PostType      models.PostType
	Tag           string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Sort          string // "new", "old", "top"
	Limit         int
	Offset        int
}

// isDefault reports whether q is the unfiltered first page, which is the only
// shape worth caching for anonymous requests.
func (q PostQuery) isDefault() bool {
	return q.CommunityID == nil && q.Username == "" && q.Visibility == "" &&
		q.PostType == "" && q.Tag == "" && q.CreatedAfter == nil &&
		q.CreatedBefore == nil && (q.Sort == "" || q.Sort == "new") && q.Offset == 0
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, q PostQuery, currentUserID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostsList(ctx)
	return nil
}

// GetByID fetches a post the requester is allowed to see. Invisible posts are
// indistinguishable from missing ones.
func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var post models.Post
	err := r.applyVisibility(r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID), currentUserID).
		Preload("User").
		Preload("Community").
		First(&post, "posts.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, q PostQuery, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post

	load := func() error {
		defer observability.TrackQuery("select", "posts")()
		db := r.applyVisibility(r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID), currentUserID).
			Preload("User").
			Preload("Community")
		db = r.applyFilters(db, q)
		return r.applySort(db, q.Sort).
			Limit(q.Limit).
			Offset(q.Offset).
			Find(&posts).Error
	}

	var err error
	if currentUserID == 0 && q.isDefault() {
		err = cache.Aside(ctx, cache.PostsListKey, &posts, cache.PostTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch counts and the requester's own
// reaction in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM post_reactions WHERE post_reactions.post_id = posts.id) as reactions_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", (SELECT reaction_type FROM post_reactions WHERE post_reactions.post_id = posts.id AND post_reactions.user_id = ?) as my_reaction",
			currentUserID)
	}

	return db.Select(selectQuery + ", '' as my_reaction")
}

// applyVisibility restricts the query to posts the requester may read:
// public posts, the requester's own private posts, and community posts in
// communities the requester belongs to. Authorship alone does not grant
// access to a community post; the author must still hold a membership.
// Anonymous requesters only see public posts.
func (r *postRepository) applyVisibility(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID == 0 {
		return db.Where("posts.visibility = ?", models.VisibilityPublic)
	}
	return db.Where(
		"posts.visibility = ? OR (posts.visibility = ? AND posts.user_id = ?) OR (posts.visibility = ? AND posts.community_id IN (SELECT community_id FROM community_memberships WHERE user_id = ?))",
		models.VisibilityPublic, models.VisibilityPrivate, currentUserID, models.VisibilityCommunity, currentUserID,
	)
}

func (r *postRepository) applyFilters(db *gorm.DB, q PostQuery) *gorm.DB {
	if q.CommunityID != nil {
		db = db.Where("posts.community_id = ?", *q.CommunityID)
	}
	if q.Username != "" {
		db = db.Where("posts.user_id IN (SELECT id FROM users WHERE username = ?)", q.Username)
	}
	if q.Visibility != "" {
		db = db.Where("posts.visibility = ?", q.Visibility)
	}
	if q.PostType != "" {
		db = db.Where("posts.post_type = ?", q.PostType)
	}
	if q.Tag != "" {
		// Tags are stored as a JSON array of strings.
		db = db.Where("posts.tags LIKE ?", `%"`+q.Tag+`"%`)
	}
	if q.CreatedAfter != nil {
		db = db.Where("posts.created_at > ?", *q.CreatedAfter)
	}
	if q.CreatedBefore != nil {
		db = db.Where("posts.created_at < ?", *q.CreatedBefore)
	}
	return db
}

// applySort appends the ORDER BY clause for the requested sort type.
// reactions_count is a SELECT alias from applyPostDetails; referencing it in
// ORDER BY within the same query level works on both supported dialects.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("reactions_count DESC, created_at DESC")
	case "old":
		return db.Order("created_at ASC")
	default: // "new" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidatePostsList(ctx)
	return nil
}
