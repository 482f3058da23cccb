package service

import (
	"context"
	"strings"

	"aurora/internal/cache"
	"aurora/internal/models"
	"aurora/internal/repository"
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	images      *ImageService
}

type CreatePostInput struct {
	UserID  uint
	Content string
	Image   string // base64 data URL, remote URL, or local media path
}

type AddCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	images *ImageService,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		images:      images,
	}
}

const maxPostContentLen = 50000 // 50K characters

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewEmptyContentError("Post")
	}
	if len(content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	imageURL := ""
	if in.Image != "" && s.images != nil {
		resolved, err := s.images.Resolve(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		imageURL = resolved
	}

	post := &models.Post{
		Content:  content,
		ImageURL: imageURL,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// ListFeed returns the newest-first global feed. The anonymous first page is
// served cache-aside; authenticated requests carry per-viewer like state and
// bypass the shared cache.
func (s *PostService) ListFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if currentUserID == 0 && offset == 0 {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.FeedKey, &posts, cache.FeedTTL, func() error {
			loaded, loadErr := s.postRepo.List(ctx, limit, offset, 0)
			if loadErr != nil {
				return loadErr
			}
			posts = loaded
			return nil
		})
		if err != nil {
			return nil, err
		}
		return posts, nil
	}
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

// GetPost returns a single post. Anonymous reads go cache-aside under the
// post key; authenticated reads carry per-viewer like state and bypass the
// shared cache. Likes, comments and deletion all invalidate the key.
func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	if currentUserID == 0 {
		var post *models.Post
		err := cache.Aside(ctx, cache.PostKey(postID), &post, cache.PostTTL, func() error {
			loaded, loadErr := s.postRepo.GetByID(ctx, postID, 0)
			if loadErr != nil {
				return loadErr
			}
			post = loaded
			return nil
		})
		if err != nil {
			return nil, err
		}
		return post, nil
	}
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// ToggleLike flips the caller's like on a post and returns the refreshed
// post together with the toggle outcome.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint) (*models.Post, *repository.LikeToggleResult, error) {
	result, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, nil, err
	}
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, nil, err
	}
	return post, result, nil
}

const maxCommentContentLen = 2000

// AddComment appends a comment to a post. Comments are immutable once
// written.
func (s *PostService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, *models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, nil, models.NewEmptyContentError("Comment")
	}
	if len(content) > maxCommentContentLen {
		return nil, nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	comment := &models.Comment{
		Content: content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, nil, err
	}
	cache.InvalidatePost(ctx, in.PostID)
	return comment, post, nil
}

func (s *PostService) GetComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.commentRepo.GetByPostID(ctx, postID)
}

// DeletePost removes a post. Only the author may delete it.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
