package service

import (
	"context"

	"bourse/internal/models"
	"bourse/internal/observability"
	"bourse/internal/repository"
)

// ReactionService aggregates per-user reactions on posts. A user has at most
// one reaction per post; setting a second reaction replaces the first.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	postRepo repository.PostRepository,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
	}
}

// SetReaction creates or replaces the user's reaction on the post. The post
// must be visible to the user.
func (s *ReactionService) SetReaction(ctx context.Context, postID, userID uint, reactionType string) (*models.PostReaction, error) {
	rt := models.ReactionType(reactionType)
	if !rt.Valid() {
		return nil, models.NewValidationError("Invalid reaction_type")
	}

	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}

	reaction := &models.PostReaction{
		PostID:       postID,
		UserID:       userID,
		ReactionType: rt,
	}
	if err := s.reactionRepo.Upsert(ctx, reaction); err != nil {
		return nil, err
	}
	observability.RecordReaction("set", string(rt))

	return s.reactionRepo.GetByPostAndUser(ctx, postID, userID)
}

// RemoveReaction deletes the user's reaction on the post, if any.
func (s *ReactionService) RemoveReaction(ctx context.Context, postID, userID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return err
	}
	removed, err := s.reactionRepo.Remove(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundError("Reaction", postID)
	}
	observability.RecordReaction("remove", "")
	return nil
}

// ListReactions returns a page of individual reactions on the post.
func (s *ReactionService) ListReactions(ctx context.Context, postID, currentUserID uint, limit, offset int) ([]models.PostReaction, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, currentUserID); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)
	return s.reactionRepo.ListByPost(ctx, postID, limit, offset)
}

// ReactionSummary returns per-type tallies for the post.
func (s *ReactionService) ReactionSummary(ctx context.Context, postID, currentUserID uint) ([]repository.ReactionCount, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, currentUserID); err != nil {
		return nil, err
	}
	return s.reactionRepo.CountsByPost(ctx, postID)
}
