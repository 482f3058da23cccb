// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Chat is a direct-message thread between exactly two users. The pair is
// stored in canonical order (lower user id first) and covered by a unique
// index, so {A,B} and {B,A} resolve to the same row and at most one chat
// exists per unordered pair.
type Chat struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserLowID     uint           `gorm:"not null;uniqueIndex:idx_chat_pair" json:"-"`
	UserHighID    uint           `gorm:"not null;uniqueIndex:idx_chat_pair" json:"-"`
	LastMessageID *uint          `json:"last_message_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	UserLow     User      `gorm:"foreignKey:UserLowID" json:"-"`
	UserHigh    User      `gorm:"foreignKey:UserHighID" json:"-"`
	LastMessage *Message  `gorm:"foreignKey:LastMessageID" json:"last_message,omitempty"`
	Messages    []Message `gorm:"foreignKey:ChatID" json:"messages,omitempty"`

	// Computed for API responses.
	ParticipantIDs []uint `gorm:"-" json:"participants"`
	Participants   []User `gorm:"-" json:"participant_users,omitempty"`
	UnreadCount    int    `gorm:"-" json:"unread_count"`
}

// BeforeCreate normalizes the participant pair to canonical order.
func (ch *Chat) BeforeCreate(_ *gorm.DB) error {
	if ch.UserLowID > ch.UserHighID {
		ch.UserLowID, ch.UserHighID = ch.UserHighID, ch.UserLowID
	}
	return nil
}

// HasParticipant reports whether the given user is one of the pair.
func (ch *Chat) HasParticipant(userID uint) bool {
	return ch.UserLowID == userID || ch.UserHighID == userID
}

// OtherParticipant returns the peer of the given user in this chat.
func (ch *Chat) OtherParticipant(userID uint) uint {
	if ch.UserLowID == userID {
		return ch.UserHighID
	}
	return ch.UserLowID
}

// Message represents a single direct message inside a chat.
type Message struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ChatID     uint       `gorm:"not null;index" json:"chat_id"`
	SenderID   uint       `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint       `gorm:"not null;index" json:"receiver_id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	Read       bool       `gorm:"not null;default:false" json:"read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
