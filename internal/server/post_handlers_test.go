package server

import (
	"fmt"
	"net/http"
	"testing"

	"aurora/internal/models"
	"aurora/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/posts/%d%s", id, suffix)
}

func postInput(userID uint, content string) service.CreatePostInput {
	return service.CreatePostInput{UserID: userID, Content: content}
}

func TestCreatePost(t *testing.T) {
	s, app := newTestServer(t)
	user := createUser(t, s, "poster")

	t.Run("success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", authHeader(t, s, user), map[string]string{
			"content": "hello world",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var got models.Post
		decodeBody(t, resp, &got)
		assert.Equal(t, "hello world", got.Content)
		assert.Equal(t, user.ID, got.UserID)
	})

	t.Run("empty content", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", authHeader(t, s, user), map[string]string{
			"content": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, models.CodeEmptyContent, errorCode(t, resp))
	})

	t.Run("unauthenticated", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", "", map[string]string{
			"content": "anonymous post",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetPosts(t *testing.T) {
	s, app := newTestServer(t)
	author := createUser(t, s, "author")

	for i := 0; i < 3; i++ {
		_, err := s.postService.CreatePost(t.Context(), postInput(author.ID, fmt.Sprintf("post %d", i)))
		require.NoError(t, err)
	}

	// The feed is public.
	resp := doJSON(t, app, http.MethodGet, "/api/posts/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	decodeBody(t, resp, &posts)
	assert.Len(t, posts, 3)
}

func TestGetPost(t *testing.T) {
	s, app := newTestServer(t)
	author := createUser(t, s, "author")
	post, err := s.postService.CreatePost(t.Context(), postInput(author.ID, "single post"))
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, postPath(post.ID, ""), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Post
	decodeBody(t, resp, &got)
	assert.Equal(t, "single post", got.Content)

	missing := doJSON(t, app, http.MethodGet, "/api/posts/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	_ = missing.Body.Close()
}

func TestToggleLike(t *testing.T) {
	s, app := newTestServer(t)
	author := createUser(t, s, "author")
	fan := createUser(t, s, "fan")
	post, err := s.postService.CreatePost(t.Context(), postInput(author.ID, "likeable"))
	require.NoError(t, err)

	// First toggle likes.
	resp := doJSON(t, app, http.MethodPost, postPath(post.ID, "/like"), authHeader(t, s, fan), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var liked models.Post
	decodeBody(t, resp, &liked)
	assert.True(t, liked.Liked)
	assert.Equal(t, 1, liked.LikesCount)

	// Author gets a like notification.
	notices := s.notificationService.List(author.ID)
	require.Len(t, notices, 1)
	assert.Equal(t, models.NotificationLike, notices[0].Type)

	// Second toggle unlikes and derives nothing new.
	resp = doJSON(t, app, http.MethodPost, postPath(post.ID, "/like"), authHeader(t, s, fan), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var unliked models.Post
	decodeBody(t, resp, &unliked)
	assert.False(t, unliked.Liked)
	assert.Equal(t, 0, unliked.LikesCount)
	assert.Len(t, s.notificationService.List(author.ID), 1)
}

func TestCreateComment(t *testing.T) {
	s, app := newTestServer(t)
	author := createUser(t, s, "author")
	commenter := createUser(t, s, "commenter")
	post, err := s.postService.CreatePost(t.Context(), postInput(author.ID, "discuss"))
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodPost, postPath(post.ID, "/comments"), authHeader(t, s, commenter), map[string]string{
		"content": "nice post",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	decodeBody(t, resp, &comment)
	assert.Equal(t, "nice post", comment.Content)
	assert.Equal(t, commenter.ID, comment.UserID)

	notices := s.notificationService.List(author.ID)
	require.Len(t, notices, 1)
	assert.Equal(t, models.NotificationComment, notices[0].Type)

	t.Run("empty comment", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, postPath(post.ID, "/comments"), authHeader(t, s, commenter), map[string]string{
			"content": "",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, models.CodeEmptyContent, errorCode(t, resp))
	})

	t.Run("comments are public", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, postPath(post.ID, "/comments"), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var comments []models.Comment
		decodeBody(t, resp, &comments)
		assert.Len(t, comments, 1)
	})
}

func TestDeletePost(t *testing.T) {
	s, app := newTestServer(t)
	author := createUser(t, s, "author")
	intruder := createUser(t, s, "intruder")
	post, err := s.postService.CreatePost(t.Context(), postInput(author.ID, "mine"))
	require.NoError(t, err)

	t.Run("non-owner forbidden", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, postPath(post.ID, ""), authHeader(t, s, intruder), nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, models.CodeForbidden, errorCode(t, resp))
	})

	t.Run("owner deletes", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, postPath(post.ID, ""), authHeader(t, s, author), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		missing := doJSON(t, app, http.MethodGet, postPath(post.ID, ""), "", nil)
		assert.Equal(t, http.StatusNotFound, missing.StatusCode)
		_ = missing.Body.Close()
	})
}
