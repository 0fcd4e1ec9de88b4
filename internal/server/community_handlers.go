package server

import (
	"bourse/internal/models"
	"bourse/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

type updateCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   *bool  `json:"is_private"`
}

// GetCommunities handles GET /api/communities
// @Summary List communities
// @Description List communities ordered by member count.
// @Tags communities
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Community
// @Router /communities [get]
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	communities, err := s.communityService.ListCommunities(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(communities)
}

// GetCommunity handles GET /api/communities/:id
// @Summary Get a community
// @Tags communities
// @Produce json
// @Param id path int true "Community ID"
// @Success 200 {object} models.Community
// @Failure 404 {object} models.ErrorResponse
// @Router /communities/{id} [get]
func (s *Server) GetCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	community, err := s.communityService.GetCommunity(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(community)
}

// CreateCommunity handles POST /api/communities
// @Summary Create a community
// @Description Create a community; the creator joins as admin.
// @Tags communities
// @Accept json
// @Produce json
// @Param body body createCommunityRequest true "Community"
// @Success 201 {object} models.Community
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /communities [post]
func (s *Server) CreateCommunity(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req createCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.CreateCommunity(c.UserContext(), service.CreateCommunityInput{
		CreatorID:   userID,
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(community)
}

// UpdateCommunity handles PUT /api/communities/:id
// @Summary Update a community
// @Tags communities
// @Accept json
// @Produce json
// @Param id path int true "Community ID"
// @Param body body updateCommunityRequest true "Fields to update"
// @Success 200 {object} models.Community
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /communities/{id} [put]
func (s *Server) UpdateCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.UpdateCommunity(c.UserContext(), service.UpdateCommunityInput{
		UserID:      currentUserID(c),
		CommunityID: id,
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(community)
}

// DeleteCommunity handles DELETE /api/communities/:id
// @Summary Delete a community
// @Tags communities
// @Param id path int true "Community ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /communities/{id} [delete]
func (s *Server) DeleteCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.communityService.DeleteCommunity(c.UserContext(), id, currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// JoinCommunity handles POST /api/communities/:id/join
// @Summary Join a community
// @Description Join a public community. Joining twice returns 409.
// @Tags memberships
// @Produce json
// @Param id path int true "Community ID"
// @Success 201 {object} models.CommunityMembership
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /communities/{id}/join [post]
func (s *Server) JoinCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	membership, err := s.communityService.JoinCommunity(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(membership)
}

// LeaveCommunity handles DELETE /api/communities/:id/leave
// @Summary Leave a community
// @Tags memberships
// @Param id path int true "Community ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /communities/{id}/leave [delete]
func (s *Server) LeaveCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.communityService.LeaveCommunity(c.UserContext(), id, currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveCommunityMember handles DELETE /api/communities/:id/members/:userId
// @Summary Remove a member
// @Description Remove a member; allowed for the member themselves, community admins and moderators.
// @Tags memberships
// @Param id path int true "Community ID"
// @Param userId path int true "User ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /communities/{id}/members/{userId} [delete]
func (s *Server) RemoveCommunityMember(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.communityService.RemoveMember(c.UserContext(), id, targetID, currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetCommunityMembers handles GET /api/communities/:id/members
// @Summary List community members
// @Description List members in join order. Private communities restrict this to members.
// @Tags memberships
// @Produce json
// @Param id path int true "Community ID"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.CommunityMembership
// @Failure 403 {object} models.ErrorResponse
// @Router /communities/{id}/members [get]
func (s *Server) GetCommunityMembers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	members, err := s.communityService.ListMembers(c.UserContext(), id, currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(members)
}

// GetMyMemberships handles GET /api/communities/memberships/me
// @Summary List own memberships
// @Tags memberships
// @Produce json
// @Success 200 {array} models.CommunityMembership
// @Security BearerAuth
// @Router /communities/memberships/me [get]
func (s *Server) GetMyMemberships(c *fiber.Ctx) error {
	memberships, err := s.communityService.MyMemberships(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(memberships)
}
