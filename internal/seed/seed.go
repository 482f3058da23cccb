package seed

import (
	"fmt"
	"log"
	"os"

	"aurora/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Options configure the seeder.
type Options struct {
	NumUsers    int  `yaml:"users"`
	NumPosts    int  `yaml:"posts"`
	NumChats    int  `yaml:"chats"`
	ShouldClean bool `yaml:"clean"`
	SkipBcrypt  bool `yaml:"skip_bcrypt"`
	// MaxDays bounds how far back generated posts are dated.
	MaxDays int `yaml:"max_days"`
	// FollowDensity is the average number of accounts each user follows.
	FollowDensity int `yaml:"follow_density"`
	// LikesPerPost is the average number of likes per post.
	LikesPerPost int `yaml:"likes_per_post"`
	// CommentsPerPost is the average number of comments per post.
	CommentsPerPost int `yaml:"comments_per_post"`
}

// DefaultOptions returns a small but connected data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:        50,
		NumPosts:        200,
		NumChats:        40,
		ShouldClean:     true,
		MaxDays:         90,
		FollowDensity:   8,
		LikesPerPost:    6,
		CommentsPerPost: 3,
	}
}

// LoadPreset reads seeder options from a YAML file.
func LoadPreset(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading preset %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing preset %s: %w", path, err)
	}
	return opts, nil
}

// Run populates the database with generated users, follows, posts, likes,
// comments and chats according to the given options.
func Run(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("cleaning database: %w", err)
		}
	}

	f := NewFactory(db, opts)

	log.Printf("Creating %d users...", opts.NumUsers)
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	if len(users) < 2 {
		return fmt.Errorf("need at least 2 users to build a social mesh, got %d", len(users))
	}

	log.Printf("Building follow mesh (density %d)...", opts.FollowDensity)
	for _, follower := range users {
		for j := 0; j < opts.FollowDensity; j++ {
			followee := users[f.rng.Intn(len(users))]
			if err := f.CreateFollow(follower, followee); err != nil {
				return err
			}
		}
	}

	log.Printf("Creating %d posts...", opts.NumPosts)
	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]
		posts = append(posts, f.BuildPost(author))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("creating posts: %w", err)
	}

	log.Println("Sprinkling likes and comments...")
	for _, post := range posts {
		for j := 0; j < opts.LikesPerPost; j++ {
			if err := f.CreateLike(users[f.rng.Intn(len(users))], post); err != nil {
				return err
			}
		}
		for j := 0; j < opts.CommentsPerPost; j++ {
			if _, err := f.CreateComment(users[f.rng.Intn(len(users))], post); err != nil {
				return err
			}
		}
	}

	// Recompute denormalized like totals from the likes actually inserted,
	// since duplicate random picks are dropped.
	if err := syncTotalLikes(db); err != nil {
		return fmt.Errorf("syncing like totals: %w", err)
	}

	log.Printf("Creating %d chats...", opts.NumChats)
	seen := make(map[[2]uint]bool)
	for i := 0; i < opts.NumChats; i++ {
		a := users[f.rng.Intn(len(users))]
		b := users[f.rng.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		key := [2]uint{min(a.ID, b.ID), max(a.ID, b.ID)}
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, err := f.CreateChatWithMessages(a, b, f.rng.Intn(12)+4); err != nil {
			return fmt.Errorf("creating chat: %w", err)
		}
	}

	log.Println("Seeding complete.")
	return nil
}

func clean(db *gorm.DB) error {
	// Children before parents to respect FK constraints.
	tables := []any{
		&models.Message{}, &models.Chat{},
		&models.Like{}, &models.Comment{}, &models.Post{},
		&models.Follow{}, &models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func syncTotalLikes(db *gorm.DB) error {
	return db.Exec(`
		UPDATE users SET total_likes = (
			SELECT COUNT(*) FROM likes
			JOIN posts ON posts.id = likes.post_id
			WHERE posts.user_id = users.id
		)`).Error
}
