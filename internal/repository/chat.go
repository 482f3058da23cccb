package repository

import (
	"context"
	"errors"
	"time"

	"aurora/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines the interface for direct-message data operations
type ChatRepository interface {
	GetOrCreate(ctx context.Context, userA, userB uint) (*models.Chat, error)
	GetByID(ctx context.Context, id uint) (*models.Chat, error)
	ListForUser(ctx context.Context, userID uint) ([]*models.Chat, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessages(ctx context.Context, chatID uint, limit, offset int) ([]*models.Message, error)
	CountMessages(ctx context.Context, chatID uint) (int64, error)
	MarkRead(ctx context.Context, chatID, readerID uint) error
}

// chatRepository implements ChatRepository
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// canonicalPair orders two user ids so {A,B} and {B,A} address the same row.
func canonicalPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

func (r *chatRepository) GetOrCreate(ctx context.Context, userA, userB uint) (*models.Chat, error) {
	low, high := canonicalPair(userA, userB)

	var chat models.Chat
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		First(&chat).Error
	if err == nil {
		return r.GetByID(ctx, chat.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapDBError(err)
	}

	chat = models.Chat{UserLowID: low, UserHighID: high}
	if createErr := r.db.WithContext(ctx).Create(&chat).Error; createErr != nil {
		if isUniqueConstraintError(createErr) {
			// Lost a create race; the winner's row is the chat.
			if findErr := r.db.WithContext(ctx).
				Where("user_low_id = ? AND user_high_id = ?", low, high).
				First(&chat).Error; findErr != nil {
				return nil, wrapDBError(findErr)
			}
		} else {
			return nil, wrapDBError(createErr)
		}
	}
	return r.GetByID(ctx, chat.ID)
}

func (r *chatRepository) GetByID(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).
		Preload("UserLow").
		Preload("UserHigh").
		Preload("LastMessage").
		First(&chat, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Chat", id)
		}
		return nil, wrapDBError(err)
	}
	hydrateChat(&chat)
	return &chat, nil
}

func (r *chatRepository) ListForUser(ctx context.Context, userID uint) ([]*models.Chat, error) {
	var chats []*models.Chat
	err := r.db.WithContext(ctx).
		Preload("UserLow").
		Preload("UserHigh").
		Preload("LastMessage").
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, wrapDBError(err)
	}

	for _, chat := range chats {
		hydrateChat(chat)

		var unread int64
		if err := r.db.WithContext(ctx).
			Model(&models.Message{}).
			Where("chat_id = ? AND receiver_id = ? AND read = ?", chat.ID, userID, false).
			Count(&unread).Error; err != nil {
			return nil, wrapDBError(err)
		}
		chat.UnreadCount = int(unread)
	}
	return chats, nil
}

// hydrateChat fills the computed participant fields from the pair columns.
func hydrateChat(chat *models.Chat) {
	chat.ParticipantIDs = []uint{chat.UserLowID, chat.UserHighID}
	if chat.UserLow.ID != 0 || chat.UserHigh.ID != 0 {
		chat.Participants = []models.User{chat.UserLow, chat.UserHigh}
	}
}

// CreateMessage appends a message and refreshes the chat's last-message
// reference in the same transaction.
func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).
			Where("id = ?", msg.ChatID).
			Updates(map[string]interface{}{
				"last_message_id": msg.ID,
				"updated_at":      time.Now(),
			}).Error
	})
	return wrapDBError(err)
}

// GetMessages returns messages in chronological (insertion) order.
func (r *chatRepository) GetMessages(ctx context.Context, chatID uint, limit, offset int) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return messages, nil
}

func (r *chatRepository) CountMessages(ctx context.Context, chatID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("chat_id = ?", chatID).
		Count(&count).Error; err != nil {
		return 0, wrapDBError(err)
	}
	return count, nil
}

// MarkRead flags every message addressed to readerID in the chat as read.
func (r *chatRepository) MarkRead(ctx context.Context, chatID, readerID uint) error {
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("chat_id = ? AND receiver_id = ? AND read = ?", chatID, readerID, false).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": &now,
		}).Error
	return wrapDBError(err)
}
