package service

import (
	"context"
	"net/url"
	"strings"

	"bourse/internal/models"
	"bourse/internal/repository"
)

type PostService struct {
	postRepo       repository.PostRepository
	membershipRepo repository.MembershipRepository
	isAdmin        func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID      uint
	Content     string
	PostType    string
	Visibility  string
	CommunityID *uint
	MediaURLs   []string
	Tags        []string
}

type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Content    string
	Visibility string
	MediaURLs  []string
	Tags       []string
}

func NewPostService(
	postRepo repository.PostRepository,
	membershipRepo repository.MembershipRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:       postRepo,
		membershipRepo: membershipRepo,
		isAdmin:        isAdmin,
	}
}

const (
	maxContentLen = 50000
	maxTags       = 10
	maxMediaURLs  = 10
)

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	postType := models.PostType(in.PostType)
	if postType == "" {
		postType = models.PostTypeText
	}
	if !postType.Valid() {
		return nil, models.NewValidationError("Invalid post_type")
	}

	visibility := models.Visibility(in.Visibility)
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, models.NewValidationError("Invalid visibility")
	}

	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if err := validateTags(in.Tags); err != nil {
		return nil, err
	}
	if err := validateMediaURLs(in.MediaURLs, postType); err != nil {
		return nil, err
	}

	// Community-scoped visibility is meaningless without a community, so it
	// is rejected at write time rather than rendering the post invisible.
	if visibility == models.VisibilityCommunity && in.CommunityID == nil {
		return nil, models.NewValidationError("community_id is required for community visibility")
	}

	if in.CommunityID != nil {
		member, err := s.membershipRepo.IsMember(ctx, *in.CommunityID, in.UserID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, models.NewUnauthorizedError("Must be a member to post in this community")
		}
	}

	post := &models.Post{
		UserID:      in.UserID,
		CommunityID: in.CommunityID,
		Content:     in.Content,
		MediaURLs:   in.MediaURLs,
		Tags:        normalizeTags(in.Tags),
		PostType:    postType,
		Visibility:  visibility,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) ListPosts(ctx context.Context, q repository.PostQuery, currentUserID uint) ([]*models.Post, error) {
	q.Limit = clampLimit(q.Limit)
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Visibility != "" && !q.Visibility.Valid() {
		return nil, models.NewValidationError("Invalid visibility filter")
	}
	if q.PostType != "" && !q.PostType.Valid() {
		return nil, models.NewValidationError("Invalid post_type filter")
	}
	switch q.Sort {
	case "", "new", "old", "top":
	default:
		return nil, models.NewValidationError("Invalid sort (must be new, old or top)")
	}
	return s.postRepo.List(ctx, q, currentUserID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("Only the author can edit this post")
	}

	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}
	if in.Visibility != "" {
		visibility := models.Visibility(in.Visibility)
		if !visibility.Valid() {
			return nil, models.NewValidationError("Invalid visibility")
		}
		if visibility == models.VisibilityCommunity && post.CommunityID == nil {
			return nil, models.NewValidationError("community_id is required for community visibility")
		}
		post.Visibility = visibility
	}
	if in.Tags != nil {
		if err := validateTags(in.Tags); err != nil {
			return nil, err
		}
		post.Tags = normalizeTags(in.Tags)
	}
	if in.MediaURLs != nil {
		if err := validateMediaURLs(in.MediaURLs, post.PostType); err != nil {
			return nil, err
		}
		post.MediaURLs = in.MediaURLs
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		admin := false
		if s.isAdmin != nil {
			admin, err = s.isAdmin(ctx, userID)
			if err != nil {
				return err
			}
		}
		if !admin {
			return models.NewUnauthorizedError("Only the author can delete this post")
		}
	}
	return s.postRepo.Delete(ctx, postID)
}

func validateTags(tags []string) error {
	if len(tags) > maxTags {
		return models.NewValidationError("Too many tags (max 10)")
	}
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			return models.NewValidationError("Tags must not be empty")
		}
		if len(t) > 50 {
			return models.NewValidationError("Tag too long (max 50 characters)")
		}
	}
	return nil
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func validateMediaURLs(urls []string, postType models.PostType) error {
	if len(urls) > maxMediaURLs {
		return models.NewValidationError("Too many media URLs (max 10)")
	}
	for _, u := range urls {
		if _, err := url.ParseRequestURI(u); err != nil {
			return models.NewValidationError("media_urls must contain valid URLs")
		}
	}
	if (postType == models.PostTypeImage || postType == models.PostTypeVideo) && len(urls) == 0 {
		return models.NewValidationError("media_urls is required for image and video posts")
	}
	return nil
}
