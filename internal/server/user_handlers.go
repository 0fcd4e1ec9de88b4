package server

import (
	"bourse/internal/models"
	"bourse/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

type upsertFinancialProfileRequest struct {
	InvestmentExperience string   `json:"investment_experience"`
	RiskTolerance        string   `json:"risk_tolerance"`
	PreferredSectors     []string `json:"preferred_sectors"`
	AnnualIncome         *float64 `json:"annual_income"`
	NetWorth             *float64 `json:"net_worth"`
}

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Param body body updateProfileRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   currentUserID(c),
		FullName: req.FullName,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Security BearerAuth
// @Router /users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userService.ListUsers(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(users)
}

// GetMyFinancialProfile handles GET /api/users/me/financial-profile
// @Summary Get own financial profile
// @Tags users
// @Produce json
// @Success 200 {object} models.UserFinancialProfile
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me/financial-profile [get]
func (s *Server) GetMyFinancialProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetFinancialProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// UpsertMyFinancialProfile handles PUT /api/users/me/financial-profile
// @Summary Create or update own financial profile
// @Tags users
// @Accept json
// @Produce json
// @Param body body upsertFinancialProfileRequest true "Profile"
// @Success 200 {object} models.UserFinancialProfile
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me/financial-profile [put]
func (s *Server) UpsertMyFinancialProfile(c *fiber.Ctx) error {
	var req upsertFinancialProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.userService.UpsertFinancialProfile(c.UserContext(), service.UpsertFinancialProfileInput{
		UserID:               currentUserID(c),
		InvestmentExperience: req.InvestmentExperience,
		RiskTolerance:        req.RiskTolerance,
		PreferredSectors:     req.PreferredSectors,
		AnnualIncome:         req.AnnualIncome,
		NetWorth:             req.NetWorth,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}
