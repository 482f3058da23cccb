// Package service provides application business logic (users, posts, chats, etc.).
package service

import (
	"context"

	"aurora/internal/cache"
	"aurora/internal/models"
	"aurora/internal/repository"
	"aurora/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	images   *ImageService
}

type UpdateProfileInput struct {
	UserID   uint
	Username string
	Bio      string
	Avatar   string
}

func NewUserService(userRepo repository.UserRepository, images *ImageService) *UserService {
	return &UserService{userRepo: userRepo, images: images}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// GetUserByID serves profile reads cache-aside. Every user write path
// (profile update, view counter, like totals, follow edges) invalidates the
// key.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user *models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		loaded, loadErr := s.userRepo.GetByID(ctx, id)
		if loadErr != nil {
			return loadErr
		}
		user = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

const maxBioLen = 500

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" && s.images != nil {
		avatarURL, err := s.images.Resolve(ctx, in.Avatar)
		if err != nil {
			return nil, err
		}
		user.Avatar = avatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// RecordProfileView bumps the target's view counter. Viewing your own
// profile does not count, and a zero viewerID (unauthenticated) does.
func (s *UserService) RecordProfileView(ctx context.Context, viewerID, targetID uint) (*models.User, error) {
	if viewerID != targetID {
		if err := s.userRepo.IncrementProfileViews(ctx, targetID); err != nil {
			return nil, err
		}
	}
	return s.userRepo.GetByID(ctx, targetID)
}
