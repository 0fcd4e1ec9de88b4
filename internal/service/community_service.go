package service

import (
	"context"
	"strings"

	"bourse/internal/models"
	"bourse/internal/observability"
	"bourse/internal/repository"
)

// CommunityService owns community lifecycle, the membership ledger and the
// member-count maintenance around it.
type CommunityService struct {
	communityRepo  repository.CommunityRepository
	membershipRepo repository.MembershipRepository
	isAdmin        func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommunityInput struct {
	CreatorID   uint
	Name        string
	Description string
	IsPrivate   bool
}

type UpdateCommunityInput struct {
	UserID      uint
	CommunityID uint
	Name        string
	Description string
	IsPrivate   *bool
}

func NewCommunityService(
	communityRepo repository.CommunityRepository,
	membershipRepo repository.MembershipRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommunityService {
	return &CommunityService{
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		isAdmin:        isAdmin,
	}
}

func (s *CommunityService) CreateCommunity(ctx context.Context, in CreateCommunityInput) (*models.Community, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Community name is required")
	}
	if len(name) > 100 {
		return nil, models.NewValidationError("Community name too long (max 100 characters)")
	}
	if len(in.Description) > 5000 {
		return nil, models.NewValidationError("Description too long (max 5000 characters)")
	}

	creatorID := in.CreatorID
	community := &models.Community{
		Name:        name,
		Description: in.Description,
		CreatorID:   &creatorID,
		IsPrivate:   in.IsPrivate,
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, err
	}

	// The creator joins as admin immediately so the community is never
	// ownerless.
	if _, err := s.membershipRepo.Join(ctx, &models.CommunityMembership{
		CommunityID: community.ID,
		UserID:      in.CreatorID,
		Role:        models.RoleAdmin,
	}); err != nil {
		return nil, err
	}

	return s.communityRepo.GetByID(ctx, community.ID)
}

func (s *CommunityService) GetCommunity(ctx context.Context, id uint) (*models.Community, error) {
	return s.communityRepo.GetByID(ctx, id)
}

func (s *CommunityService) ListCommunities(ctx context.Context, limit, offset int) ([]models.Community, error) {
	limit = clampLimit(limit)
	return s.communityRepo.List(ctx, limit, offset)
}

func (s *CommunityService) UpdateCommunity(ctx context.Context, in UpdateCommunityInput) (*models.Community, error) {
	community, err := s.communityRepo.GetByID(ctx, in.CommunityID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canManage(ctx, community, in.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewUnauthorizedError("Only community admins can update the community")
	}

	if in.Name != "" {
		name := strings.TrimSpace(in.Name)
		if len(name) > 100 {
			return nil, models.NewValidationError("Community name too long (max 100 characters)")
		}
		community.Name = name
	}
	if in.Description != "" {
		if len(in.Description) > 5000 {
			return nil, models.NewValidationError("Description too long (max 5000 characters)")
		}
		community.Description = in.Description
	}
	if in.IsPrivate != nil {
		community.IsPrivate = *in.IsPrivate
	}

	if err := s.communityRepo.Update(ctx, community); err != nil {
		return nil, err
	}
	return community, nil
}

func (s *CommunityService) DeleteCommunity(ctx context.Context, communityID, userID uint) error {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return err
	}
	allowed, err := s.canManage(ctx, community, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewUnauthorizedError("Only community admins can delete the community")
	}
	return s.communityRepo.Delete(ctx, communityID)
}

// JoinCommunity adds the user to the community's membership ledger. Joining a
// community the user already belongs to is a conflict, not a silent no-op, so
// clients can distinguish the two outcomes. Private communities reject
// self-service joins entirely.
func (s *CommunityService) JoinCommunity(ctx context.Context, communityID, userID uint) (*models.CommunityMembership, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		observability.RecordMembershipChange("join", "error")
		return nil, err
	}
	if community.IsPrivate {
		observability.RecordMembershipChange("join", "private_rejected")
		return nil, models.NewUnauthorizedError("This community is private")
	}

	membership := &models.CommunityMembership{
		CommunityID: communityID,
		UserID:      userID,
		Role:        models.RoleMember,
	}
	inserted, err := s.membershipRepo.Join(ctx, membership)
	if err != nil {
		observability.RecordMembershipChange("join", "error")
		return nil, err
	}
	if !inserted {
		observability.RecordMembershipChange("join", "already_member")
		return nil, models.NewConflictError("Already a member of this community")
	}

	observability.RecordMembershipChange("join", "ok")
	return s.membershipRepo.Get(ctx, communityID, userID)
}

// LeaveCommunity removes the caller's own membership.
func (s *CommunityService) LeaveCommunity(ctx context.Context, communityID, userID uint) error {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return err
	}
	removed, err := s.membershipRepo.Leave(ctx, communityID, userID)
	if err != nil {
		observability.RecordMembershipChange("leave", "error")
		return err
	}
	if !removed {
		observability.RecordMembershipChange("leave", "not_member")
		return models.NewNotFoundError("Membership", communityID)
	}
	observability.RecordMembershipChange("leave", "ok")
	return nil
}

// RemoveMember removes another user from the community. Permitted for the
// member themselves, community admins and moderators, and platform admins.
func (s *CommunityService) RemoveMember(ctx context.Context, communityID, targetUserID, requesterID uint) error {
	if _, err := s.communityRepo.GetByID(ctx, communityID); err != nil {
		return err
	}

	if targetUserID != requesterID {
		allowed, err := s.canModerate(ctx, communityID, requesterID)
		if err != nil {
			return err
		}
		if !allowed {
			return models.NewUnauthorizedError("Not authorized to remove members from this community")
		}
	}

	removed, err := s.membershipRepo.Leave(ctx, communityID, targetUserID)
	if err != nil {
		observability.RecordMembershipChange("remove", "error")
		return err
	}
	if !removed {
		observability.RecordMembershipChange("remove", "not_member")
		return models.NewNotFoundError("Membership", communityID)
	}
	observability.RecordMembershipChange("remove", "ok")
	return nil
}

// ListMembers returns a page of the community's membership ledger. The member
// list of a private community is only visible to its members and platform
// admins.
func (s *CommunityService) ListMembers(ctx context.Context, communityID, requesterID uint, limit, offset int) ([]models.CommunityMembership, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}

	if community.IsPrivate {
		allowed := false
		if requesterID != 0 {
			member, err := s.membershipRepo.IsMember(ctx, communityID, requesterID)
			if err != nil {
				return nil, err
			}
			allowed = member
			if !allowed && s.isAdmin != nil {
				admin, err := s.isAdmin(ctx, requesterID)
				if err != nil {
					return nil, err
				}
				allowed = admin
			}
		}
		if !allowed {
			return nil, models.NewUnauthorizedError("Member list of a private community is restricted to members")
		}
	}

	limit = clampLimit(limit)
	return s.membershipRepo.ListByCommunity(ctx, communityID, limit, offset)
}

// MyMemberships returns all of the user's memberships with communities preloaded.
func (s *CommunityService) MyMemberships(ctx context.Context, userID uint) ([]models.CommunityMembership, error) {
	return s.membershipRepo.ListByUser(ctx, userID)
}

func (s *CommunityService) canManage(ctx context.Context, community *models.Community, userID uint) (bool, error) {
	if community.CreatorID != nil && *community.CreatorID == userID {
		return true, nil
	}
	membership, err := s.membershipRepo.Get(ctx, community.ID, userID)
	if err != nil {
		return false, err
	}
	if membership != nil && membership.Role == models.RoleAdmin {
		return true, nil
	}
	if s.isAdmin != nil {
		return s.isAdmin(ctx, userID)
	}
	return false, nil
}

func (s *CommunityService) canModerate(ctx context.Context, communityID, userID uint) (bool, error) {
	membership, err := s.membershipRepo.Get(ctx, communityID, userID)
	if err != nil {
		return false, err
	}
	if membership != nil && membership.Role.CanRemoveMembers() {
		return true, nil
	}
	if s.isAdmin != nil {
		return s.isAdmin(ctx, userID)
	}
	return false, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
