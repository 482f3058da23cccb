package server

import (
	"fmt"
	"net/http"
	"testing"

	"aurora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/chats/%d%s", id, suffix)
}

func TestGetOrCreateChat(t *testing.T) {
	s, app := newTestServer(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	resp := doJSON(t, app, http.MethodPost, "/api/chats/", authHeader(t, s, alice), map[string]uint{"user_id": bob.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chat models.Chat
	decodeBody(t, resp, &chat)
	assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, chat.ParticipantIDs)

	t.Run("same chat from the other side", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/chats/", authHeader(t, s, bob), map[string]uint{"user_id": alice.ID})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var second models.Chat
		decodeBody(t, resp, &second)
		assert.Equal(t, chat.ID, second.ID)
	})

	t.Run("self chat rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/chats/", authHeader(t, s, alice), map[string]uint{"user_id": alice.ID})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, models.CodeSelfChat, errorCode(t, resp))
	})

	t.Run("missing peer", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/chats/", authHeader(t, s, alice), map[string]uint{"user_id": 9999})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("missing body", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/chats/", authHeader(t, s, alice), map[string]uint{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, models.CodeValidation, errorCode(t, resp))
	})
}

func TestSendAndReadMessages(t *testing.T) {
	s, app := newTestServer(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	stranger := createUser(t, s, "stranger")

	chat, err := s.chatService.GetOrCreateChat(t.Context(), alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("send message", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, chatPath(chat.ID, "/messages"), authHeader(t, s, alice), map[string]string{
			"content": "hi bob",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var msg models.Message
		decodeBody(t, resp, &msg)
		assert.Equal(t, alice.ID, msg.SenderID)
		assert.Equal(t, bob.ID, msg.ReceiverID)
		assert.False(t, msg.Read)

		// Bob gets a message notification.
		notices := s.notificationService.List(bob.ID)
		require.Len(t, notices, 1)
		assert.Equal(t, models.NotificationMessage, notices[0].Type)
	})

	t.Run("empty message rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, chatPath(chat.ID, "/messages"), authHeader(t, s, alice), map[string]string{
			"content": "  ",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, models.CodeEmptyContent, errorCode(t, resp))
	})

	t.Run("non-participant cannot read or write", func(t *testing.T) {
		read := doJSON(t, app, http.MethodGet, chatPath(chat.ID, "/messages"), authHeader(t, s, stranger), nil)
		assert.Equal(t, http.StatusForbidden, read.StatusCode)
		assert.Equal(t, models.CodeForbidden, errorCode(t, read))

		write := doJSON(t, app, http.MethodPost, chatPath(chat.ID, "/messages"), authHeader(t, s, stranger), map[string]string{
			"content": "let me in",
		})
		assert.Equal(t, http.StatusForbidden, write.StatusCode)
		_ = write.Body.Close()
	})

	t.Run("receiver lists and marks read", func(t *testing.T) {
		list := doJSON(t, app, http.MethodGet, chatPath(chat.ID, "/messages"), authHeader(t, s, bob), nil)
		require.Equal(t, http.StatusOK, list.StatusCode)
		var messages []models.Message
		decodeBody(t, list, &messages)
		require.Len(t, messages, 1)

		read := doJSON(t, app, http.MethodPost, chatPath(chat.ID, "/read"), authHeader(t, s, bob), nil)
		require.Equal(t, http.StatusOK, read.StatusCode)
		_ = read.Body.Close()

		chats := doJSON(t, app, http.MethodGet, "/api/chats/", authHeader(t, s, bob), nil)
		require.Equal(t, http.StatusOK, chats.StatusCode)
		var listed []models.Chat
		decodeBody(t, chats, &listed)
		require.Len(t, listed, 1)
		assert.Equal(t, 0, listed[0].UnreadCount)
	})
}

func TestGetChats(t *testing.T) {
	s, app := newTestServer(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	carol := createUser(t, s, "carol")

	_, err := s.chatService.GetOrCreateChat(t.Context(), alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.chatService.GetOrCreateChat(t.Context(), alice.ID, carol.ID)
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, "/api/chats/", authHeader(t, s, alice), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chats []models.Chat
	decodeBody(t, resp, &chats)
	assert.Len(t, chats, 2)

	// Carol only sees her one chat.
	carolResp := doJSON(t, app, http.MethodGet, "/api/chats/", authHeader(t, s, carol), nil)
	require.Equal(t, http.StatusOK, carolResp.StatusCode)
	var carolChats []models.Chat
	decodeBody(t, carolResp, &carolChats)
	assert.Len(t, carolChats, 1)
}

func TestGetChatForbiddenForOutsiders(t *testing.T) {
	s, app := newTestServer(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	stranger := createUser(t, s, "stranger")

	chat, err := s.chatService.GetOrCreateChat(t.Context(), alice.ID, bob.ID)
	require.NoError(t, err)

	ok := doJSON(t, app, http.MethodGet, chatPath(chat.ID, ""), authHeader(t, s, alice), nil)
	assert.Equal(t, http.StatusOK, ok.StatusCode)
	_ = ok.Body.Close()

	denied := doJSON(t, app, http.MethodGet, chatPath(chat.ID, ""), authHeader(t, s, stranger), nil)
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)
	assert.Equal(t, models.CodeForbidden, errorCode(t, denied))
}
