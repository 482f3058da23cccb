package service

import (
	"context"
	"errors"
	"testing"

	"aurora/internal/models"
	"aurora/internal/repository"
)

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s app error, got nil", code)
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}

type userRepoStub struct {
	getByIDFn               func(context.Context, uint) (*models.User, error)
	getByEmailFn            func(context.Context, string) (*models.User, error)
	getByUsernameFn         func(context.Context, string) (*models.User, error)
	getByGoogleIDFn         func(context.Context, string) (*models.User, error)
	createFn                func(context.Context, *models.User) error
	updateFn                func(context.Context, *models.User) error
	listFn                  func(context.Context, int, int) ([]models.User, error)
	incrementProfileViewsFn func(context.Context, uint) error
	addTotalLikesFn         func(context.Context, uint, int) error
	hydrateEdgesFn          func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return s.getByGoogleIDFn(ctx, googleID)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) IncrementProfileViews(ctx context.Context, id uint) error {
	return s.incrementProfileViewsFn(ctx, id)
}
func (s *userRepoStub) AddTotalLikes(ctx context.Context, id uint, delta int) error {
	return s.addTotalLikesFn(ctx, id, delta)
}
func (s *userRepoStub) HydrateEdges(ctx context.Context, user *models.User) error {
	return s.hydrateEdgesFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn:            func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:         func(context.Context, string) (*models.User, error) { return nil, nil },
		getByGoogleIDFn:         func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:                func(context.Context, *models.User) error { return nil },
		updateFn:                func(context.Context, *models.User) error { return nil },
		listFn:                  func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		incrementProfileViewsFn: func(context.Context, uint) error { return nil },
		addTotalLikesFn:         func(context.Context, uint, int) error { return nil },
		hydrateEdgesFn:          func(context.Context, *models.User) error { return nil },
	}
}

type followRepoStub struct {
	createFn func(context.Context, uint, uint) error
	deleteFn func(context.Context, uint, uint) error
	existsFn func(context.Context, uint, uint) (bool, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followeeID uint) error {
	return s.createFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followeeID uint) error {
	return s.deleteFn(ctx, followerID, followeeID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followeeID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn: func(context.Context, uint, uint) error { return nil },
		deleteFn: func(context.Context, uint, uint) error { return nil },
		existsFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
	}
}

type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFn        func(context.Context, int, int, uint) ([]*models.Post, error)
	deleteFn      func(context.Context, uint) error
	toggleLikeFn  func(context.Context, uint, uint) (*repository.LikeToggleResult, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, postID, userID uint) (*repository.LikeToggleResult, error) {
	return s.toggleLikeFn(ctx, postID, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		getByUserIDFn: func(context.Context, uint, int, int, uint) ([]*models.Post, error) { return nil, nil },
		listFn:        func(context.Context, int, int, uint) ([]*models.Post, error) { return nil, nil },
		deleteFn:      func(context.Context, uint) error { return nil },
		toggleLikeFn: func(context.Context, uint, uint) (*repository.LikeToggleResult, error) {
			return &repository.LikeToggleResult{}, nil
		},
	}
}

type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByPostIDFn func(context.Context, uint) ([]models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.getByPostIDFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(context.Context, *models.Comment) error { return nil },
		getByPostIDFn: func(context.Context, uint) ([]models.Comment, error) { return nil, nil },
	}
}

type chatRepoStub struct {
	getOrCreateFn   func(context.Context, uint, uint) (*models.Chat, error)
	getByIDFn       func(context.Context, uint) (*models.Chat, error)
	listForUserFn   func(context.Context, uint) ([]*models.Chat, error)
	createMessageFn func(context.Context, *models.Message) error
	getMessagesFn   func(context.Context, uint, int, int) ([]*models.Message, error)
	countMessagesFn func(context.Context, uint) (int64, error)
	markReadFn      func(context.Context, uint, uint) error
}

func (s *chatRepoStub) GetOrCreate(ctx context.Context, userA, userB uint) (*models.Chat, error) {
	return s.getOrCreateFn(ctx, userA, userB)
}
func (s *chatRepoStub) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	return s.getByIDFn(ctx, id)
}
func (s *chatRepoStub) ListForUser(ctx context.Context, userID uint) ([]*models.Chat, error) {
	return s.listForUserFn(ctx, userID)
}
func (s *chatRepoStub) CreateMessage(ctx context.Context, msg *models.Message) error {
	return s.createMessageFn(ctx, msg)
}
func (s *chatRepoStub) GetMessages(ctx context.Context, chatID uint, limit, offset int) ([]*models.Message, error) {
	return s.getMessagesFn(ctx, chatID, limit, offset)
}
func (s *chatRepoStub) CountMessages(ctx context.Context, chatID uint) (int64, error) {
	return s.countMessagesFn(ctx, chatID)
}
func (s *chatRepoStub) MarkRead(ctx context.Context, chatID, readerID uint) error {
	return s.markReadFn(ctx, chatID, readerID)
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		getOrCreateFn: func(_ context.Context, a, b uint) (*models.Chat, error) {
			if a > b {
				a, b = b, a
			}
			return &models.Chat{ID: 1, UserLowID: a, UserHighID: b}, nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Chat, error) {
			return &models.Chat{ID: id}, nil
		},
		listForUserFn:   func(context.Context, uint) ([]*models.Chat, error) { return nil, nil },
		createMessageFn: func(context.Context, *models.Message) error { return nil },
		getMessagesFn:   func(context.Context, uint, int, int) ([]*models.Message, error) { return nil, nil },
		countMessagesFn: func(context.Context, uint) (int64, error) { return 0, nil },
		markReadFn:      func(context.Context, uint, uint) error { return nil },
	}
}
