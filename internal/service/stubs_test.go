package service

import (
	"context"
	"errors"
	"testing"

	"bourse/internal/models"
	"bourse/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// communityRepoStub is a stub for repository.CommunityRepository.
type communityRepoStub struct {
	createFn             func(context.Context, *models.Community) error
	getByIDFn            func(context.Context, uint) (*models.Community, error)
	listFn               func(context.Context, int, int) ([]models.Community, error)
	updateFn             func(context.Context, *models.Community) error
	deleteFn             func(context.Context, uint) error
	recomputeOneFn       func(context.Context, uint) (int64, error)
	recomputeAllCountsFn func(context.Context) ([]repository.CountDrift, int64, error)
}

func (s *communityRepoStub) Create(ctx context.Context, c *models.Community) error {
	return s.createFn(ctx, c)
}
func (s *communityRepoStub) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	return s.getByIDFn(ctx, id)
}
func (s *communityRepoStub) List(ctx context.Context, limit, offset int) ([]models.Community, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *communityRepoStub) Update(ctx context.Context, c *models.Community) error {
	return s.updateFn(ctx, c)
}
func (s *communityRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *communityRepoStub) RecomputeMemberCount(ctx context.Context, id uint) (int64, error) {
	return s.recomputeOneFn(ctx, id)
}
func (s *communityRepoStub) RecomputeAllMemberCounts(ctx context.Context) ([]repository.CountDrift, int64, error) {
	return s.recomputeAllCountsFn(ctx)
}

func noopCommunityRepo() *communityRepoStub {
	return &communityRepoStub{
		createFn:  func(_ context.Context, _ *models.Community) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Community, error) { return &models.Community{ID: id}, nil },
		listFn:    func(_ context.Context, _, _ int) ([]models.Community, error) { return nil, nil },
		updateFn:  func(_ context.Context, _ *models.Community) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		recomputeOneFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		recomputeAllCountsFn: func(_ context.Context) ([]repository.CountDrift, int64, error) { return nil, 0, nil },
	}
}

// membershipRepoStub is a stub for repository.MembershipRepository.
type membershipRepoStub struct {
	joinFn            func(context.Context, *models.CommunityMembership) (bool, error)
	leaveFn           func(context.Context, uint, uint) (bool, error)
	getFn             func(context.Context, uint, uint) (*models.CommunityMembership, error)
	isMemberFn        func(context.Context, uint, uint) (bool, error)
	listByCommunityFn func(context.Context, uint, int, int) ([]models.CommunityMembership, error)
	listByUserFn      func(context.Context, uint) ([]models.CommunityMembership, error)
	countFn           func(context.Context, uint) (int64, error)
}

func (s *membershipRepoStub) Join(ctx context.Context, m *models.CommunityMembership) (bool, error) {
	return s.joinFn(ctx, m)
}
func (s *membershipRepoStub) Leave(ctx context.Context, communityID, userID uint) (bool, error) {
	return s.leaveFn(ctx, communityID, userID)
}
func (s *membershipRepoStub) Get(ctx context.Context, communityID, userID uint) (*models.CommunityMembership, error) {
	return s.getFn(ctx, communityID, userID)
}
func (s *membershipRepoStub) IsMember(ctx context.Context, communityID, userID uint) (bool, error) {
	return s.isMemberFn(ctx, communityID, userID)
}
func (s *membershipRepoStub) ListByCommunity(ctx context.Context, communityID uint, limit, offset int) ([]models.CommunityMembership, error) {
	return s.listByCommunityFn(ctx, communityID, limit, offset)
}
func (s *membershipRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.CommunityMembership, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *membershipRepoStub) CountByCommunity(ctx context.Context, communityID uint) (int64, error) {
	return s.countFn(ctx, communityID)
}

func noopMembershipRepo() *membershipRepoStub {
	return &membershipRepoStub{
		joinFn:  func(_ context.Context, _ *models.CommunityMembership) (bool, error) { return true, nil },
		leaveFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		getFn: func(_ context.Context, communityID, userID uint) (*models.CommunityMembership, error) {
			return &models.CommunityMembership{CommunityID: communityID, UserID: userID, Role: models.RoleMember}, nil
		},
		isMemberFn:        func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listByCommunityFn: func(_ context.Context, _ uint, _, _ int) ([]models.CommunityMembership, error) { return nil, nil },
		listByUserFn:      func(_ context.Context, _ uint) ([]models.CommunityMembership, error) { return nil, nil },
		countFn:           func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint, uint) (*models.Post, error)
	listFn    func(context.Context, repository.PostQuery, uint) ([]*models.Post, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, q repository.PostQuery, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, q, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context, _ repository.PostQuery, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	upsertFn           func(context.Context, *models.PostReaction) error
	removeFn           func(context.Context, uint, uint) (bool, error)
	getByPostAndUserFn func(context.Context, uint, uint) (*models.PostReaction, error)
	listByPostFn       func(context.Context, uint, int, int) ([]models.PostReaction, error)
	countsByPostFn     func(context.Context, uint) ([]repository.ReactionCount, error)
}

func (s *reactionRepoStub) Upsert(ctx context.Context, reaction *models.PostReaction) error {
	return s.upsertFn(ctx, reaction)
}
func (s *reactionRepoStub) Remove(ctx context.Context, postID, userID uint) (bool, error) {
	return s.removeFn(ctx, postID, userID)
}
func (s *reactionRepoStub) GetByPostAndUser(ctx context.Context, postID, userID uint) (*models.PostReaction, error) {
	return s.getByPostAndUserFn(ctx, postID, userID)
}
func (s *reactionRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.PostReaction, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *reactionRepoStub) CountsByPost(ctx context.Context, postID uint) ([]repository.ReactionCount, error) {
	return s.countsByPostFn(ctx, postID)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		upsertFn: func(_ context.Context, _ *models.PostReaction) error { return nil },
		removeFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		getByPostAndUserFn: func(_ context.Context, postID, userID uint) (*models.PostReaction, error) {
			return &models.PostReaction{PostID: postID, UserID: userID, ReactionType: models.ReactionLike}, nil
		},
		listByPostFn:   func(_ context.Context, _ uint, _, _ int) ([]models.PostReaction, error) { return nil, nil },
		countsByPostFn: func(_ context.Context, _ uint) ([]repository.ReactionCount, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	deleteFn          func(context.Context, uint) error
	listFn            func(context.Context, int, int) ([]models.User, error)
	getFinancialFn    func(context.Context, uint) (*models.UserFinancialProfile, error)
	upsertFinancialFn func(context.Context, *models.UserFinancialProfile) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) GetFinancialProfile(ctx context.Context, userID uint) (*models.UserFinancialProfile, error) {
	return s.getFinancialFn(ctx, userID)
}
func (s *userRepoStub) UpsertFinancialProfile(ctx context.Context, profile *models.UserFinancialProfile) error {
	return s.upsertFinancialFn(ctx, profile)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		getFinancialFn:  func(_ context.Context, _ uint) (*models.UserFinancialProfile, error) { return nil, nil },
		upsertFinancialFn: func(_ context.Context, _ *models.UserFinancialProfile) error { return nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

// assertConflictError asserts that err is an AppError with code CONFLICT.
func assertConflictError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "CONFLICT")
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}
