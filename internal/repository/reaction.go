package repository

import (
	"context"
	"errors"

	"bourse/internal/cache"
	"bourse/internal/models"
	"bourse/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionCount is one reaction type's tally for a post.
type ReactionCount struct {
	ReactionType models.ReactionType `json:"reaction_type"`
	Count        int64               `json:"count"`
}

// ReactionRepository is the persistence layer for post reactions.
//
// A user holds at most one reaction per post; the unique index on
// (post_id, user_id) enforces it and Upsert folds repeat reactions into an
// in-place type change rather than surfacing a constraint error.
type ReactionRepository interface {
	Upsert(ctx context.Context, reaction *models.PostReaction) error
	Remove(ctx context.Context, postID, userID uint) (bool, error)
	GetByPostAndUser(ctx context.Context, postID, userID uint) (*models.PostReaction, error)
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.PostReaction, error)
	CountsByPost(ctx context.Context, postID uint) ([]ReactionCount, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository returns a new ReactionRepository implementation.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Upsert inserts the reaction, or overwrites the existing reaction's type
// when the user already reacted to the post. Races between concurrent
// upserts for the same (post, user) resolve at the storage layer.
func (r *reactionRepository) Upsert(ctx context.Context, reaction *models.PostReaction) error {
	defer observability.TrackQuery("upsert", "post_reactions")()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reaction_type", "created_at"}),
		}).
		Create(reaction).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, reaction.PostID)
	return nil
}

// Remove hard-deletes the user's reaction. Returns false when none existed.
func (r *reactionRepository) Remove(ctx context.Context, postID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostReaction{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	cache.InvalidatePost(ctx, postID)
	return true, nil
}

func (r *reactionRepository) GetByPostAndUser(ctx context.Context, postID, userID uint) (*models.PostReaction, error) {
	var reaction models.PostReaction
	err := readDB(r.db).WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &reaction, nil
}

func (r *reactionRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.PostReaction, error) {
	var reactions []models.PostReaction
	err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reactions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reactions, nil
}

func (r *reactionRepository) CountsByPost(ctx context.Context, postID uint) ([]ReactionCount, error) {
	var counts []ReactionCount
	err := readDB(r.db).WithContext(ctx).
		Model(&models.PostReaction{}).
		Select("reaction_type, COUNT(*) as count").
		Where("post_id = ?", postID).
		Group("reaction_type").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return counts, nil
}
