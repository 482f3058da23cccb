package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"aurora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a handler helper already wrote the error
// response; the caller should return nil.
var errResponseWritten = errors.New("response already written")

// parseID reads a positive integer path parameter and writes a validation
// error response on failure.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(c *fiber.Ctx, defaultLimit int) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// humanizeParam turns a camelCase path parameter name into words for error
// messages, e.g. "notificationId" -> "notification id".
func humanizeParam(param string) string {
	var b strings.Builder
	for i, r := range param {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// currentUserID returns the authenticated user id stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
