package server

import (
	"bourse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RecomputeAllCounts handles POST /api/admin/communities/recompute-counts
// @Summary Recompute all member counts
// @Description Reset every community's cached member count from the membership ledger and report drift.
// @Tags admin
// @Produce json
// @Success 200 {object} service.ReconcileResult
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/communities/recompute-counts [post]
func (s *Server) RecomputeAllCounts(c *fiber.Ctx) error {
	result, err := s.reconcileService.RecomputeAll(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}

// RecomputeCount handles POST /api/admin/communities/:id/recompute-count
// @Summary Recompute one community's member count
// @Tags admin
// @Produce json
// @Param id path int true "Community ID"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/communities/{id}/recompute-count [post]
func (s *Server) RecomputeCount(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.reconcileService.RecomputeOne(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"community_id": id,
		"member_count": count,
	})
}
