package server

import (
	"bourse/internal/models"

	"github.com/gofiber/fiber/v2"
)

type setReactionRequest struct {
	ReactionType string `json:"reaction_type"`
}

// SetReaction handles PUT /api/posts/:id/reaction
// @Summary Set own reaction on a post
// @Description Create or replace the caller's reaction. At most one reaction per user per post.
// @Tags reactions
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param body body setReactionRequest true "Reaction"
// @Success 200 {object} models.PostReaction
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/reaction [put]
func (s *Server) SetReaction(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req setReactionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reaction, err := s.reactionService.SetReaction(c.UserContext(), postID, currentUserID(c), req.ReactionType)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(reaction)
}

// RemoveReaction handles DELETE /api/posts/:id/reaction
// @Summary Remove own reaction from a post
// @Tags reactions
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/reaction [delete]
func (s *Server) RemoveReaction(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reactionService.RemoveReaction(c.UserContext(), postID, currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetReactions handles GET /api/posts/:id/reactions
// @Summary List reactions on a post
// @Tags reactions
// @Produce json
// @Param id path int true "Post ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.PostReaction
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/reactions [get]
func (s *Server) GetReactions(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	reactions, err := s.reactionService.ListReactions(c.UserContext(), postID, currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(reactions)
}

// GetReactionSummary handles GET /api/posts/:id/reactions/summary
// @Summary Per-type reaction tallies for a post
// @Tags reactions
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} repository.ReactionCount
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/reactions/summary [get]
func (s *Server) GetReactionSummary(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	counts, err := s.reactionService.ReactionSummary(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(counts)
}
