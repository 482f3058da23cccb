// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"aurora/internal/cache"
	"aurora/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeToggleResult reports the outcome of a like toggle.
type LikeToggleResult struct {
	Liked       bool
	PostOwnerID uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, postID, userID uint) (*LikeToggleResult, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return wrapDBError(err)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, wrapDBError(err)
	}
	if err := r.hydrateLikes(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	if err := r.hydrateLikes(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// List returns the feed: every post ordered newest first.
func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	if err := r.hydrateLikes(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

// hydrateLikes fills LikeUserIDs for all posts in one batched query.
func (r *postRepository) hydrateLikes(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	var likes []models.Like
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at ASC").
		Find(&likes).Error; err != nil {
		return wrapDBError(err)
	}

	byPost := make(map[uint][]uint, len(posts))
	for _, l := range likes {
		byPost[l.PostID] = append(byPost[l.PostID], l.UserID)
	}
	for _, p := range posts {
		p.LikeUserIDs = byPost[p.ID]
		if p.LikeUserIDs == nil {
			p.LikeUserIDs = []uint{}
		}
	}
	return nil
}

// Delete removes the post together with its comments and likes in one
// transaction, so a reader never sees orphaned sub-records.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return wrapDBError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateFeed(ctx)
	return nil
}

// ToggleLike flips the user's membership in the post's like set. The insert
// (or delete) and the owner's total_likes adjustment commit atomically, so
// two consecutive toggles always restore the original state.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint) (*LikeToggleResult, error) {
	var result LikeToggleResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", postID)
			}
			return err
		}
		result.PostOwnerID = post.UserID

		like := models.Like{UserID: userID, PostID: postID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			result.Liked = true
			return tx.Model(&models.User{}).
				Where("id = ?", post.UserID).
				UpdateColumn("total_likes", gorm.Expr("total_likes + 1")).Error
		}

		// Second toggle: undo the first.
		if err := tx.Unscoped().
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		result.Liked = false
		return tx.Model(&models.User{}).
			Where("id = ?", post.UserID).
			UpdateColumn("total_likes", gorm.Expr("total_likes - 1")).Error
	})
	if err != nil {
		return nil, wrapDBError(err)
	}

	cache.InvalidatePost(ctx, postID)
	cache.InvalidateUser(ctx, result.PostOwnerID)
	return &result, nil
}
