package repository

import (
	"context"
	"errors"

	"bourse/internal/cache"
	"bourse/internal/models"

	"gorm.io/gorm"
)

// memberCountSubquery recounts a community's members from the ledger.
// Referenced from correlated UPDATEs, so it must stay dialect-portable.
const memberCountSubquery = "(SELECT COUNT(*) FROM community_memberships WHERE community_memberships.community_id = communities.id)"

// CountDrift describes a community whose cached member count disagrees with
// the membership ledger.
type CountDrift struct {
	CommunityID uint  `json:"community_id"`
	Cached      int64 `json:"cached"`
	Actual      int64 `json:"actual"`
}

// CommunityRepository defines persistence operations for communities.
type CommunityRepository interface {
	Create(ctx context.Context, community *models.Community) error
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	List(ctx context.Context, limit, offset int) ([]models.Community, error)
	Update(ctx context.Context, community *models.Community) error
	Delete(ctx context.Context, id uint) error
	RecomputeMemberCount(ctx context.Context, id uint) (int64, error)
	RecomputeAllMemberCounts(ctx context.Context) ([]CountDrift, int64, error)
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository returns a new CommunityRepository implementation.
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	if err := r.db.WithContext(ctx).Create(community).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Community name already taken")
		}
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.CommunityListKey)
	return nil
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	key := cache.CommunityKey(id)

	err := cache.Aside(ctx, key, &community, cache.CommunityTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).Preload("Creator").First(&community, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Community", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context, limit, offset int) ([]models.Community, error) {
	var communities []models.Community
	err := readDB(r.db).WithContext(ctx).
		Order("member_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&communities).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return communities, nil
}

func (r *communityRepository) Update(ctx context.Context, community *models.Community) error {
	if err := r.db.WithContext(ctx).Save(community).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Community name already taken")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunity(ctx, community.ID)
	return nil
}

func (r *communityRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Community{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunity(ctx, id)
	return nil
}

// RecomputeMemberCount replaces the cached count for one community with an
// exact recount from the ledger, in a single UPDATE so no window exists where
// a concurrent join or leave could be lost.
func (r *communityRepository) RecomputeMemberCount(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE communities SET member_count = "+memberCountSubquery+" WHERE id = ?", id)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, models.NewNotFoundError("Community", id)
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Community{}).
		Where("id = ?", id).
		Pluck("member_count", &count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	cache.InvalidateCommunity(ctx, id)
	return count, nil
}

// RecomputeAllMemberCounts reports which communities had drifted and then
// resets every cached count from the ledger. The second return value is the
// number of communities examined.
func (r *communityRepository) RecomputeAllMemberCounts(ctx context.Context) ([]CountDrift, int64, error) {
	var drifts []CountDrift
	var checked int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Community{}).Count(&checked).Error; err != nil {
			return err
		}
		rows := tx.Raw(
			"SELECT id AS community_id, member_count AS cached, " + memberCountSubquery + " AS actual " +
				"FROM communities WHERE deleted_at IS NULL AND member_count <> " + memberCountSubquery).
			Scan(&drifts)
		if rows.Error != nil {
			return rows.Error
		}
		return tx.Exec(
			"UPDATE communities SET member_count = " + memberCountSubquery + " WHERE deleted_at IS NULL").Error
	})
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	for _, d := range drifts {
		cache.InvalidateCommunity(ctx, d.CommunityID)
	}
	return drifts, checked, nil
}
