package server

import (
	"fmt"

	"aurora/internal/models"
	"aurora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetOrCreateChat returns the chat with another user, creating it on first use
// @Summary Open a chat with a user
// @Description Idempotent: at most one chat exists per user pair regardless of who opened it
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{user_id=uint} true "Other user's ID"
// @Success 200 {object} models.Chat
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/chats [post]
func (s *Server) GetOrCreateChat(c *fiber.Ctx) error {
	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user id"))
	}

	chat, err := s.chatService.GetOrCreateChat(c.UserContext(), currentUserID(c), req.UserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(chat)
}

// GetChats lists the caller's chats, most recently active first
// @Summary List chats
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Chat
// @Router /api/chats [get]
func (s *Server) GetChats(c *fiber.Ctx) error {
	chats, err := s.chatService.GetChats(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(chats)
}

// GetChat returns a single chat the caller participates in
// @Summary Get a chat
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Success 200 {object} models.Chat
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/chats/{id} [get]
func (s *Server) GetChat(c *fiber.Ctx) error {
	chatID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	chat, err := s.chatService.GetChatForUser(c.UserContext(), chatID, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(chat)
}

// GetChatMessages returns a chat's messages in chronological order
// @Summary List chat messages
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.Message
// @Failure 403 {object} models.ErrorResponse
// @Router /api/chats/{id}/messages [get]
func (s *Server) GetChatMessages(c *fiber.Ctx) error {
	chatID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	limit, offset := parsePagination(c, 50)
	messages, err := s.chatService.GetMessages(c.UserContext(), chatID, currentUserID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(messages)
}

// SendMessage appends a message to a chat
// @Summary Send a chat message
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Param request body object{content=string} true "Message payload"
// @Success 201 {object} models.Message
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/chats/{id}/messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	chatID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID := currentUserID(c)
	message, chat, err := s.chatService.SendMessage(c.UserContext(), service.SendMessageInput{
		UserID:  userID,
		ChatID:  chatID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	s.publishUserEvent(message.ReceiverID, EventMessageReceived, fiber.Map{
		"chat_id": chat.ID,
		"message": message,
	})
	if message.Sender != nil {
		s.notify(message.ReceiverID, message.Sender, models.NotificationMessage,
			"New message",
			fmt.Sprintf("%s sent you a message", message.Sender.Username))
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// MarkChatRead marks all messages addressed to the caller as read
// @Summary Mark a chat as read
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} models.ErrorResponse
// @Router /api/chats/{id}/read [post]
func (s *Server) MarkChatRead(c *fiber.Ctx) error {
	chatID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.chatService.MarkRead(c.UserContext(), chatID, userID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	// Tell the other participant their messages were seen.
	chat, gerr := s.chatService.GetChatForUser(c.UserContext(), chatID, userID)
	if gerr == nil {
		s.publishUserEvent(chat.OtherParticipant(userID), EventChatRead, fiber.Map{
			"chat_id":   chatID,
			"reader_id": userID,
		})
	}

	return c.JSON(fiber.Map{"read": true, "chat_id": chatID})
}
