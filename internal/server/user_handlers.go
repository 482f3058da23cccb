package server

import (
	"context"
	"fmt"
	"time"

	"aurora/internal/models"
	"aurora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile returns the authenticated user's profile
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /api/users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile updates the authenticated user's profile
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{username=string,bio=string,avatar=string} true "Profile fields"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /api/users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Bio      string `json:"bio"`
		Avatar   string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   currentUserID(c),
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(user)
}

// GetAllUsers returns a page of users
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.User
// @Router /api/users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	limit, offset := parsePagination(c, 50)
	users, err := s.userService.ListUsers(ctx, limit, offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(users)
}

// GetUserProfile returns another user's profile
// @Summary Get a user profile
// @Description is_following reflects whether the caller follows this user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /api/users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), targetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if viewerID := currentUserID(c); viewerID != targetID {
		if following, ferr := s.followService.IsFollowing(c.UserContext(), viewerID, targetID); ferr == nil {
			user.IsFollowing = following
		}
	}

	return c.JSON(user)
}

// RecordProfileView increments the target's view counter
// @Summary Record a profile view
// @Description Self-views are ignored. A new view notifies the profile owner.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /api/users/{id}/views [post]
func (s *Server) RecordProfileView(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID := currentUserID(c)

	user, err := s.userService.RecordProfileView(c.UserContext(), viewerID, targetID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if viewerID != targetID {
		viewer, verr := s.userService.GetUserByID(c.UserContext(), viewerID)
		if verr == nil {
			s.notify(targetID, viewer, models.NotificationView,
				"Profile view",
				fmt.Sprintf("%s viewed your profile", viewer.Username))
		}
	}

	return c.JSON(user)
}

// GetUserPosts returns a user's posts
// @Summary List a user's posts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {array} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /api/users/{id}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	limit, offset := parsePagination(c, 20)
	posts, err := s.postService.GetUserPosts(ctx, targetID, limit, offset, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(posts)
}

// FollowUser creates a follow edge from the caller to the target
// @Summary Follow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID to follow"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/users/{id}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	followerID := currentUserID(c)

	followee, created, err := s.followService.Follow(c.UserContext(), followerID, followeeID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	// Only a new edge generates events; repeat follows are idempotent.
	if created {
		follower, ferr := s.userService.GetUserByID(c.UserContext(), followerID)
		if ferr == nil {
			s.publishUserEvent(followeeID, EventFollowerAdded, fiber.Map{
				"follower": userSummary(follower),
			})
			s.notify(followeeID, follower, models.NotificationFollow,
				"New follower",
				fmt.Sprintf("%s started following you", follower.Username))
		}
	}

	return c.JSON(fiber.Map{
		"following": true,
		"user":      followee,
	})
}

// UnfollowUser removes the follow edge from the caller to the target
// @Summary Unfollow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID to unfollow"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/users/{id}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	followerID := currentUserID(c)

	followee, err := s.followService.Unfollow(c.UserContext(), followerID, followeeID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	follower, ferr := s.userService.GetUserByID(c.UserContext(), followerID)
	if ferr == nil {
		s.publishUserEvent(followeeID, EventFollowerRemoved, fiber.Map{
			"follower": userSummary(follower),
		})
	}

	return c.JSON(fiber.Map{
		"following": false,
		"user":      followee,
	})
}
