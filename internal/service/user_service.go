package service

import (
	"context"
	"strings"

	"bourse/internal/models"
	"bourse/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID   uint
	FullName *string
	Bio      *string
	Avatar   *string
}

type UpsertFinancialProfileInput struct {
	UserID               uint
	InvestmentExperience string
	RiskTolerance        string
	PreferredSectors     []string
	AnnualIncome         *float64
	NetWorth             *float64
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", 0)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	limit = clampLimit(limit)
	return s.userRepo.List(ctx, limit, offset)
}

// IsAdmin reports whether the user holds the platform admin flag. Services
// that need an admin check get this method injected so they do not depend on
// the user repository directly.
func (s *UserService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		if len(*in.FullName) > 255 {
			return nil, models.NewValidationError("full_name too long (max 255 characters)")
		}
		user.FullName = *in.FullName
	}
	if in.Bio != nil {
		if len(*in.Bio) > 5000 {
			return nil, models.NewValidationError("bio too long (max 5000 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetFinancialProfile(ctx context.Context, userID uint) (*models.UserFinancialProfile, error) {
	profile, err := s.userRepo.GetFinancialProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.NewNotFoundError("Financial profile", userID)
	}
	return profile, nil
}

func (s *UserService) UpsertFinancialProfile(ctx context.Context, in UpsertFinancialProfileInput) (*models.UserFinancialProfile, error) {
	experience := models.ExperienceLevel(in.InvestmentExperience)
	switch experience {
	case "", models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceAdvanced, models.ExperienceProfessional:
	default:
		return nil, models.NewValidationError("Invalid investment_experience")
	}

	risk := models.RiskTolerance(in.RiskTolerance)
	switch risk {
	case "", models.RiskLow, models.RiskMedium, models.RiskHigh:
	default:
		return nil, models.NewValidationError("Invalid risk_tolerance")
	}

	if len(in.PreferredSectors) > 20 {
		return nil, models.NewValidationError("Too many preferred sectors (max 20)")
	}
	sectors := make([]string, 0, len(in.PreferredSectors))
	for _, sec := range in.PreferredSectors {
		sec = strings.TrimSpace(sec)
		if sec == "" {
			return nil, models.NewValidationError("Preferred sectors must not be empty")
		}
		sectors = append(sectors, sec)
	}

	// Net worth may go negative (liabilities can exceed assets); income cannot.
	if in.AnnualIncome != nil && *in.AnnualIncome < 0 {
		return nil, models.NewValidationError("annual_income must not be negative")
	}

	// The profile belongs to the user making the call; confirm the user exists.
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, err
	}

	profile := &models.UserFinancialProfile{
		UserID:               in.UserID,
		InvestmentExperience: experience,
		RiskTolerance:        risk,
		PreferredSectors:     sectors,
		AnnualIncome:         in.AnnualIncome,
		NetWorth:             in.NetWorth,
	}
	if err := s.userRepo.UpsertFinancialProfile(ctx, profile); err != nil {
		return nil, err
	}
	return s.userRepo.GetFinancialProfile(ctx, in.UserID)
}
