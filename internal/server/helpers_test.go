package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	cases := map[string]string{
		"id":             "id",
		"userId":         "user id",
		"notificationId": "notification id",
	}
	for in, want := range cases {
		assert.Equal(t, want, humanizeParam(in))
	}
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		limit, offset := parsePagination(c, 20)
		return c.JSON(fiber.Map{"limit": limit, "offset": offset})
	})

	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=-1&offset=-5", 20, 0},
		{"?limit=500", 100, 0},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		var got struct {
			Limit  int `json:"limit"`
			Offset int `json:"offset"`
		}
		decodeBody(t, resp, &got)
		assert.Equal(t, tc.wantLimit, got.Limit, tc.query)
		assert.Equal(t, tc.wantOffset, got.Offset, tc.query)
	}
}

func TestParseIDRejectsBadInput(t *testing.T) {
	s, app := newTestServer(t)
	user := createUser(t, s, "parser")

	for _, bad := range []string{"abc", "0", "-3", "1.5"} {
		resp := doJSON(t, app, http.MethodGet, "/api/users/"+bad+"/posts", authHeader(t, s, user), nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
		_ = resp.Body.Close()
	}
}
