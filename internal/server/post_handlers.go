package server

import (
	"time"

	"bourse/internal/models"
	"bourse/internal/repository"
	"bourse/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Content     string   `json:"content"`
	PostType    string   `json:"post_type"`
	Visibility  string   `json:"visibility"`
	CommunityID *uint    `json:"community_id"`
	MediaURLs   []string `json:"media_urls"`
	Tags        []string `json:"tags"`
}

type updatePostRequest struct {
	Content    string   `json:"content"`
	Visibility string   `json:"visibility"`
	MediaURLs  []string `json:"media_urls"`
	Tags       []string `json:"tags"`
}

// parsePostQuery builds the list filter from query parameters.
func parsePostQuery(c *fiber.Ctx) (repository.PostQuery, error) {
	p := parsePagination(c, 20)
	q := repository.PostQuery{
		Username:   c.Query("username"),
		Visibility: models.Visibility(c.Query("visibility")),
		PostType:   models.PostType(c.Query("post_type")),
		Tag:        c.Query("tag"),
		Sort:       c.Query("sort", "new"),
		Limit:      p.Limit,
		Offset:     p.Offset,
	}

	if cid := c.QueryInt("community_id", 0); cid > 0 {
		id := uint(cid)
		q.CommunityID = &id
	}

	if after := c.Query("created_after"); after != "" {
		t, err := time.Parse(time.RFC3339, after)
		if err != nil {
			return q, models.NewValidationError("created_after must be RFC3339")
		}
		q.CreatedAfter = &t
	}
	if before := c.Query("created_before"); before != "" {
		t, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return q, models.NewValidationError("created_before must be RFC3339")
		}
		q.CreatedBefore = &t
	}

	return q, nil
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description List posts visible to the requester, newest first by default.
// @Tags posts
// @Produce json
// @Param community_id query int false "Filter by community"
// @Param username query string false "Filter by author username"
// @Param visibility query string false "Filter by visibility" Enums(public, private, community)
// @Param post_type query string false "Filter by type" Enums(text, link, image, video, financial_analysis)
// @Param tag query string false "Filter by tag"
// @Param created_after query string false "RFC3339 lower bound"
// @Param created_before query string false "RFC3339 upper bound"
// @Param sort query string false "Sort order" Enums(new, old, top)
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	q, err := parsePostQuery(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	posts, err := s.postService.ListPosts(c.UserContext(), q, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get a post
// @Description Get a single post. Posts the requester may not read return 404.
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param body body createPostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:      currentUserID(c),
		Content:     req.Content,
		PostType:    req.PostType,
		Visibility:  req.Visibility,
		CommunityID: req.CommunityID,
		MediaURLs:   req.MediaURLs,
		Tags:        req.Tags,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param body body updatePostRequest true "Fields to update"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:     currentUserID(c),
		PostID:     id,
		Content:    req.Content,
		Visibility: req.Visibility,
		MediaURLs:  req.MediaURLs,
		Tags:       req.Tags,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id, currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
