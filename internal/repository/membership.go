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

// MembershipRepository is the persistence layer for the membership ledger.
//
// Join and Leave mutate the ledger and the community's cached member count in
// one transaction. Uniqueness is enforced by the table's composite primary
// key, not by a read-then-write check, so concurrent duplicate joins collapse
// to a single row and a single increment.
type MembershipRepository interface {
	Join(ctx context.Context, membership *models.CommunityMembership) (bool, error)
	Leave(ctx context.Context, communityID, userID uint) (bool, error)
	Get(ctx context.Context, communityID, userID uint) (*models.CommunityMembership, error)
	IsMember(ctx context.Context, communityID, userID uint) (bool, error)
	ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]models.CommunityMembership, error)
	ListByUser(ctx context.Context, userID uint) ([]models.CommunityMembership, error)
	CountByCommunity(ctx context.Context, communityID uint) (int64, error)
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository returns a new MembershipRepository implementation.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Join inserts the membership and bumps the cached member count. Returns
// false when the user was already a member, in which case nothing changed.
func (r *membershipRepository) Join(ctx context.Context, membership *models.CommunityMembership) (bool, error) {
	defer observability.TrackQuery("insert", "community_memberships")()

	var inserted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(membership)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Row already existed; the count is untouched.
			return nil
		}
		inserted = true
		return tx.Model(&models.Community{}).
			Where("id = ?", membership.CommunityID).
			UpdateColumn("member_count", gorm.Expr("member_count + ?", 1)).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if inserted {
		cache.InvalidateCommunity(ctx, membership.CommunityID)
	}
	return inserted, nil
}

// Leave hard-deletes the membership and decrements the cached member count.
// Returns false when no membership existed.
func (r *membershipRepository) Leave(ctx context.Context, communityID, userID uint) (bool, error) {
	defer observability.TrackQuery("delete", "community_memberships")()

	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&models.CommunityMembership{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		// The count never goes below zero even if it had drifted low.
		return tx.Model(&models.Community{}).
			Where("id = ?", communityID).
			UpdateColumn("member_count",
				gorm.Expr("CASE WHEN member_count > 0 THEN member_count - 1 ELSE 0 END")).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if removed {
		cache.InvalidateCommunity(ctx, communityID)
	}
	return removed, nil
}

func (r *membershipRepository) Get(ctx context.Context, communityID, userID uint) (*models.CommunityMembership, error) {
	var membership models.CommunityMembership
	err := readDB(r.db).WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &membership, nil
}

func (r *membershipRepository) IsMember(ctx context.Context, communityID, userID uint) (bool, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.CommunityMembership{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *membershipRepository) ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]models.CommunityMembership, error) {
	var memberships []models.CommunityMembership
	err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("community_id = ?", communityID).
		Order("joined_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&memberships).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return memberships, nil
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID uint) ([]models.CommunityMembership, error) {
	var memberships []models.CommunityMembership
	err := readDB(r.db).WithContext(ctx).
		Preload("Community").
		Where("user_id = ?", userID).
		Order("joined_at DESC").
		Find(&memberships).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return memberships, nil
}

func (r *membershipRepository) CountByCommunity(ctx context.Context, communityID uint) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.CommunityMembership{}).
		Where("community_id = ?", communityID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
