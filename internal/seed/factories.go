// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"aurora/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Bcrypt dominates seeding time for large user counts.
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post without persisting it, for batch inserts.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Content: gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:  user.ID,
	}

	// Realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	if f.rng.Intn(3) == 0 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment persists a comment by the given user on the given post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: gofakeit.Sentence(f.rng.Intn(12) + 3),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like, silently skipping duplicates.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{PostID: post.ID, UserID: user.ID}
	if err := f.db.Create(like).Error; err != nil {
		// Duplicate pair picks happen with random sampling; not worth failing over.
		log.Printf("skipping like (user %d, post %d): %v", user.ID, post.ID, err)
	}
	return nil
}

// CreateFollow persists a follow edge, silently skipping duplicates.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	if follower.ID == followee.ID {
		return nil
	}
	follow := &models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
	if err := f.db.Create(follow).Error; err != nil {
		log.Printf("skipping follow (%d -> %d): %v", follower.ID, followee.ID, err)
	}
	return nil
}

// CreateChatWithMessages persists a chat between two users and a short
// message history alternating between them.
func (f *Factory) CreateChatWithMessages(a, b *models.User, numMessages int) (*models.Chat, error) {
	chat := &models.Chat{UserLowID: a.ID, UserHighID: b.ID}
	if err := f.db.Create(chat).Error; err != nil {
		return nil, err
	}

	var lastID *uint
	for i := 0; i < numMessages; i++ {
		sender, receiver := a, b
		if i%2 == 1 {
			sender, receiver = b, a
		}
		msg := &models.Message{
			ChatID:     chat.ID,
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			Content:    gofakeit.Sentence(f.rng.Intn(10) + 2),
			Read:       i < numMessages-2,
			CreatedAt:  time.Now().Add(-time.Duration(numMessages-i) * time.Minute),
		}
		if err := f.db.Create(msg).Error; err != nil {
			return nil, err
		}
		lastID = &msg.ID
	}

	if lastID != nil {
		if err := f.db.Model(chat).Update("last_message_id", *lastID).Error; err != nil {
			return nil, err
		}
	}
	return chat, nil
}
