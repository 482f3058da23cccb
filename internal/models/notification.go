package models

import "time"

// NotificationType classifies the user action a notification was derived from.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMessage NotificationType = "message"
	NotificationView    NotificationType = "view"
)

// Notification is a transient, client-visible notice derived from a mutation
// event. Notifications are ephemeral: they live in memory for the current
// process and are not persisted across restarts.
type Notification struct {
	ID        string           `json:"id"`
	UserID    uint             `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Avatar    string           `json:"avatar,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}
