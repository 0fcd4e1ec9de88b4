package repository

import (
	"fmt"
	"testing"

	"bourse/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory database with the full schema. Each
// test gets its own database, so parallel tests never interfere.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// An in-memory database exists per connection, so keep the pool at one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserFinancialProfile{},
		&models.Community{},
		&models.CommunityMembership{},
		&models.Post{},
		&models.Comment{},
		&models.PostReaction{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCommunity(t *testing.T, db *gorm.DB, name string, creatorID uint) *models.Community {
	t.Helper()
	community := &models.Community{
		Name:      name,
		CreatorID: &creatorID,
	}
	require.NoError(t, db.Create(community).Error)
	return community
}

func memberCount(t *testing.T, db *gorm.DB, communityID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Community{}).
		Where("id = ?", communityID).
		Pluck("member_count", &count).Error)
	return count
}
