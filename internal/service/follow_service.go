package service

import (
	"context"

	"aurora/internal/models"
	"aurora/internal/repository"
)

// FollowService manages the directed follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow adds the edge follower -> followee. It reports whether the edge is
// new so the caller can skip notifying on repeat follows.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint) (*models.User, bool, error) {
	if followerID == followeeID {
		return nil, false, models.NewSelfFollowError()
	}

	// Both endpoints must exist before the edge does.
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return nil, false, err
	}

	existed, err := s.followRepo.Exists(ctx, followerID, followeeID)
	if err != nil {
		return nil, false, err
	}
	if !existed {
		if err := s.followRepo.Create(ctx, followerID, followeeID); err != nil {
			return nil, false, err
		}
	}

	followee, err := s.userRepo.GetByID(ctx, followeeID)
	if err != nil {
		return nil, false, err
	}
	return followee, !existed, nil
}

// Unfollow removes the edge follower -> followee. Removing an absent edge
// is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint) (*models.User, error) {
	if followerID == followeeID {
		return nil, models.NewSelfFollowError()
	}

	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return nil, err
	}

	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, followeeID)
}

// IsFollowing reports whether follower -> followee exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followeeID)
}
