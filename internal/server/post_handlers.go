package server

import (
	"context"
	"fmt"
	"time"

	"aurora/internal/models"
	"aurora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts returns the global feed, newest first
// @Summary List feed posts
// @Description Public. When authenticated, each post carries the caller's like state.
// @Tags posts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.Post
// @Router /api/posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	userID, _ := s.optionalUserID(c)
	limit, offset := parsePagination(c, 20)

	posts, err := s.postService.ListFeed(ctx, limit, offset, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(posts)
}

// GetPost returns a single post
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID, _ := s.optionalUserID(c)
	post, err := s.postService.GetPost(c.UserContext(), postID, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(post)
}

// CreatePost creates a new post
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{content=string,image=string} true "Post payload"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /api/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
		Image   string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  currentUserID(c),
		Content: req.Content,
		Image:   req.Image,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.publishBroadcastEvent(EventPostCreated, post)

	return c.Status(fiber.StatusCreated).JSON(post)
}

// ToggleLike flips the caller's like on a post
// @Summary Like or unlike a post
// @Description Toggles: a second call undoes the first
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	post, result, err := s.postService.ToggleLike(c.UserContext(), postID, userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.publishUserEvent(result.PostOwnerID, EventPostLikeUpdated, fiber.Map{
		"post_id":     post.ID,
		"likes_count": post.LikesCount,
		"liked_by":    userID,
		"liked":       result.Liked,
	})

	if result.Liked {
		actor, aerr := s.userService.GetUserByID(c.UserContext(), userID)
		if aerr == nil {
			s.notify(result.PostOwnerID, actor, models.NotificationLike,
				"New like",
				fmt.Sprintf("%s liked your post", actor.Username))
		}
	}

	return c.JSON(post)
}

// GetComments returns a post's comments in creation order
// @Summary List comments on a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	comments, err := s.postService.GetComments(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(comments)
}

// CreateComment adds a comment to a post
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{content=string} true "Comment payload"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID := currentUserID(c)
	comment, post, err := s.postService.AddComment(c.UserContext(), service.AddCommentInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.publishUserEvent(post.UserID, EventCommentCreated, fiber.Map{
		"post_id": post.ID,
		"comment": comment,
	})

	actor, aerr := s.userService.GetUserByID(c.UserContext(), userID)
	if aerr == nil {
		s.notify(post.UserID, actor, models.NotificationComment,
			"New comment",
			fmt.Sprintf("%s commented on your post", actor.Username))
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeletePost removes a post owned by the caller
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), postID, currentUserID(c)); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"deleted": true, "id": postID})
}
