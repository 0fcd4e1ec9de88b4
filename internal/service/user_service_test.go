package service

import (
	"context"
	"strings"
	"testing"

	"bourse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetUserByUsername(t *testing.T) {
	t.Parallel()

	t.Run("missing user is not found", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.GetUserByUsername(context.Background(), "ghost")
		assertNotFoundError(t, err)
	})

	t.Run("existing user returned", func(t *testing.T) {
		t.Parallel()
		ur := noopUserRepo()
		ur.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 3, Username: username}, nil
		}
		svc := NewUserService(ur)
		user, err := svc.GetUserByUsername(context.Background(), "trader")
		require.NoError(t, err)
		assert.Equal(t, uint(3), user.ID)
	})
}

func TestUserService_IsAdmin(t *testing.T) {
	t.Parallel()

	ur := noopUserRepo()
	ur.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, IsAdmin: id == 1}, nil
	}
	svc := NewUserService(ur)

	admin, err := svc.IsAdmin(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, admin)

	admin, err = svc.IsAdmin(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, admin)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("patches only provided fields", func(t *testing.T) {
		t.Parallel()
		ur := noopUserRepo()
		ur.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, FullName: "Old Name", Bio: "old bio"}, nil
		}
		svc := NewUserService(ur)

		bio := "new bio"
		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "new bio", user.Bio)
		assert.Equal(t, "Old Name", user.FullName)
	})

	t.Run("rejects oversized bio", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		bio := strings.Repeat("x", 5001)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Bio: &bio})
		assertValidationError(t, err)
	})
}

func TestUserService_FinancialProfile(t *testing.T) {
	t.Parallel()

	t.Run("missing profile is not found", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.GetFinancialProfile(context.Background(), 1)
		assertNotFoundError(t, err)
	})

	t.Run("invalid experience rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpsertFinancialProfile(context.Background(), UpsertFinancialProfileInput{
			UserID: 1, InvestmentExperience: "guru",
		})
		assertValidationError(t, err)
	})

	t.Run("invalid risk tolerance rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpsertFinancialProfile(context.Background(), UpsertFinancialProfileInput{
			UserID: 1, RiskTolerance: "yolo",
		})
		assertValidationError(t, err)
	})

	t.Run("blank sector rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		_, err := svc.UpsertFinancialProfile(context.Background(), UpsertFinancialProfileInput{
			UserID: 1, PreferredSectors: []string{"tech", "  "},
		})
		assertValidationError(t, err)
	})

	t.Run("negative income rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo())
		income := -1000.0
		_, err := svc.UpsertFinancialProfile(context.Background(), UpsertFinancialProfileInput{
			UserID: 1, AnnualIncome: &income,
		})
		assertValidationError(t, err)
	})

	t.Run("upsert persists and rereads", func(t *testing.T) {
		t.Parallel()
		var stored *models.UserFinancialProfile
		ur := noopUserRepo()
		ur.upsertFinancialFn = func(_ context.Context, p *models.UserFinancialProfile) error {
			stored = p
			return nil
		}
		ur.getFinancialFn = func(_ context.Context, userID uint) (*models.UserFinancialProfile, error) {
			return stored, nil
		}
		svc := NewUserService(ur)

		income := 95000.50
		netWorth := -12000.0 // liabilities can exceed assets
		profile, err := svc.UpsertFinancialProfile(context.Background(), UpsertFinancialProfileInput{
			UserID:               1,
			InvestmentExperience: string(models.ExperienceIntermediate),
			RiskTolerance:        string(models.RiskMedium),
			PreferredSectors:     []string{" tech ", "energy"},
			AnnualIncome:         &income,
			NetWorth:             &netWorth,
		})
		require.NoError(t, err)
		assert.Equal(t, models.ExperienceIntermediate, profile.InvestmentExperience)
		assert.Equal(t, []string{"tech", "energy"}, profile.PreferredSectors)
		require.NotNil(t, profile.AnnualIncome)
		assert.Equal(t, 95000.50, *profile.AnnualIncome)
		require.NotNil(t, profile.NetWorth)
		assert.Equal(t, -12000.0, *profile.NetWorth)
	})
}
