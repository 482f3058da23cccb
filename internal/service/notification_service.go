package service

import (
	"sync"
	"time"

	"aurora/internal/models"
	"aurora/internal/observability"

	"github.com/google/uuid"
)

// maxNotificationsPerUser bounds each user's in-memory notification list.
const maxNotificationsPerUser = 100

// NotificationService keeps a bounded, per-user, in-memory list of derived
// notices. Notifications are ephemeral: they are rebuilt from user actions
// and lost on restart, never persisted.
type NotificationService struct {
	mu      sync.RWMutex
	byUser  map[uint][]*models.Notification
	nowFunc func() time.Time
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		byUser:  make(map[uint][]*models.Notification),
		nowFunc: time.Now,
	}
}

// Derive records a notification for recipientID triggered by actor. Actions
// a user takes on their own content never notify, and a nil actor (system
// events) always does.
func (s *NotificationService) Derive(recipientID uint, actor *models.User, typ models.NotificationType, title, message string) *models.Notification {
	if actor != nil && actor.ID == recipientID {
		return nil
	}

	n := &models.Notification{
		ID:        uuid.New().String(),
		UserID:    recipientID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Timestamp: s.nowFunc(),
	}
	if actor != nil {
		n.Avatar = actor.Avatar
	}

	s.mu.Lock()
	list := append(s.byUser[recipientID], n)
	if len(list) > maxNotificationsPerUser {
		list = list[len(list)-maxNotificationsPerUser:]
	}
	s.byUser[recipientID] = list
	s.mu.Unlock()

	observability.NotificationsDerived.WithLabelValues(string(typ)).Inc()
	return n
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(userID uint) []*models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.byUser[userID]
	out := make([]*models.Notification, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *NotificationService) UnreadCount(userID uint) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.byUser[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkAsRead flags a single notification as read. It reports whether the
// notification was found.
func (s *NotificationService) MarkAsRead(userID uint, notificationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.byUser[userID] {
		if n.ID == notificationID {
			n.Read = true
			return true
		}
	}
	return false
}

// MarkAllRead flags every notification for the user as read.
func (s *NotificationService) MarkAllRead(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.byUser[userID] {
		n.Read = true
	}
}

// ClearAll discards the user's notifications.
func (s *NotificationService) ClearAll(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
}
