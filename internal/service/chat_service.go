package service

import (
	"context"
	"strings"

	"aurora/internal/models"
	"aurora/internal/repository"
)

// ChatService provides direct-message business logic.
type ChatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
}

// SendMessageInput is the input for sending a message.
type SendMessageInput struct {
	UserID  uint
	ChatID  uint
	Content string
}

// NewChatService returns a new ChatService.
func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, userRepo: userRepo}
}

// GetOrCreateChat returns the unique chat between the caller and the other
// user, creating it on first contact.
func (s *ChatService) GetOrCreateChat(ctx context.Context, userID, otherID uint) (*models.Chat, error) {
	if userID == otherID {
		return nil, models.NewSelfChatError()
	}
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, err
	}
	return s.chatRepo.GetOrCreate(ctx, userID, otherID)
}

// GetChats returns the caller's chats, most recently active first.
func (s *ChatService) GetChats(ctx context.Context, userID uint) ([]*models.Chat, error) {
	return s.chatRepo.ListForUser(ctx, userID)
}

// GetChatForUser returns the chat if the user is a participant.
func (s *ChatService) GetChatForUser(ctx context.Context, chatID, userID uint) (*models.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, models.NewForbiddenError("You are not a participant in this chat")
	}
	return chat, nil
}

// GetMessages returns a chat's messages in chronological order. Only
// participants may read them.
func (s *ChatService) GetMessages(ctx context.Context, chatID, userID uint, limit, offset int) ([]*models.Message, error) {
	if _, err := s.GetChatForUser(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return s.chatRepo.GetMessages(ctx, chatID, limit, offset)
}

const maxMessageContentLen = 10000 // 10K characters

// SendMessage appends a message to a chat the caller participates in.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, *models.Chat, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, nil, models.NewEmptyContentError("Message")
	}
	if len(content) > maxMessageContentLen {
		return nil, nil, models.NewValidationError("Message too long (max 10000 characters)")
	}

	chat, err := s.chatRepo.GetByID(ctx, in.ChatID)
	if err != nil {
		return nil, nil, err
	}
	if !chat.HasParticipant(in.UserID) {
		return nil, nil, models.NewForbiddenError("You are not a participant in this chat")
	}

	msg := &models.Message{
		ChatID:     chat.ID,
		SenderID:   in.UserID,
		ReceiverID: chat.OtherParticipant(in.UserID),
		Content:    content,
	}
	if err := s.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, nil, err
	}

	if sender, getErr := s.userRepo.GetByID(ctx, in.UserID); getErr == nil {
		msg.Sender = sender
	}
	return msg, chat, nil
}

// MarkRead marks every message addressed to the caller in the chat as read.
func (s *ChatService) MarkRead(ctx context.Context, chatID, userID uint) error {
	if _, err := s.GetChatForUser(ctx, chatID, userID); err != nil {
		return err
	}
	return s.chatRepo.MarkRead(ctx, chatID, userID)
}
