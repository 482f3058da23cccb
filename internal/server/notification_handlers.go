package server

import (
	"aurora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns the caller's notifications, newest first
// @Summary List notifications
// @Description Notifications are ephemeral: derived in memory and lost on restart
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID := currentUserID(c)
	return c.JSON(fiber.Map{
		"notifications": s.notificationService.List(userID),
		"unread_count":  s.notificationService.UnreadCount(userID),
	})
}

// MarkNotificationRead marks one notification as read
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param notificationId path string true "Notification ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/notifications/{notificationId}/read [post]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	userID := currentUserID(c)
	notificationID := c.Params("notificationId")

	if !s.notificationService.MarkAsRead(userID, notificationID) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Notification", notificationID))
	}
	return c.JSON(fiber.Map{
		"read":         true,
		"unread_count": s.notificationService.UnreadCount(userID),
	})
}

// MarkAllNotificationsRead marks every notification as read
// @Summary Mark all notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/read-all [post]
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	s.notificationService.MarkAllRead(currentUserID(c))
	return c.JSON(fiber.Map{"read": true, "unread_count": 0})
}

// ClearNotifications drops all of the caller's notifications
// @Summary Clear notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications [delete]
func (s *Server) ClearNotifications(c *fiber.Ctx) error {
	s.notificationService.ClearAll(currentUserID(c))
	return c.JSON(fiber.Map{"cleared": true})
}
