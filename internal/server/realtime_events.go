package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"aurora/internal/models"
	"aurora/internal/observability"
)

// Realtime event types pushed over the relay.
const (
	EventPostCreated     = "post_created"
	EventPostLikeUpdated = "post_like_updated"
	EventCommentCreated  = "comment_created"
	EventMessageReceived = "message_received"
	EventChatRead        = "chat_read"
	EventFollowerAdded   = "follower_added"
	EventFollowerRemoved = "follower_removed"
	EventNotification    = "notification"
)

// publishUserEvent fans an event out to one user: local hub connections
// directly, and the Redis channel for other instances. Delivery is best
// effort; failures are logged and never surfaced to the caller.
func (s *Server) publishUserEvent(userID uint, eventType string, payload any) {
	message, err := json.Marshal(map[string]any{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		slog.Error("failed to marshal realtime event", "type", eventType, "error", err)
		observability.RelayEventsTotal.WithLabelValues(eventType, "marshal_error").Inc()
		return
	}

	s.hub.Broadcast(userID, string(message))

	if s.notifier != nil {
		if err := s.notifier.PublishUser(s.relayContext(), userID, string(message)); err != nil {
			slog.Warn("failed to publish relay event", "type", eventType, "user_id", userID, "error", err)
			observability.RelayEventsTotal.WithLabelValues(eventType, "publish_error").Inc()
			return
		}
	}
	observability.RelayEventsTotal.WithLabelValues(eventType, "published").Inc()
}

// publishBroadcastEvent fans an event out to every connected user.
func (s *Server) publishBroadcastEvent(eventType string, payload any) {
	message, err := json.Marshal(map[string]any{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		slog.Error("failed to marshal realtime event", "type", eventType, "error", err)
		observability.RelayEventsTotal.WithLabelValues(eventType, "marshal_error").Inc()
		return
	}

	s.hub.BroadcastAll(string(message))

	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(s.relayContext(), string(message)); err != nil {
			slog.Warn("failed to publish relay broadcast", "type", eventType, "error", err)
			observability.RelayEventsTotal.WithLabelValues(eventType, "publish_error").Inc()
			return
		}
	}
	observability.RelayEventsTotal.WithLabelValues(eventType, "published").Inc()
}

// notify derives an in-memory notification for the recipient and pushes it
// over the relay. Self-directed actions derive nothing.
func (s *Server) notify(recipientID uint, actor *models.User, typ models.NotificationType, title, message string) {
	n := s.notificationService.Derive(recipientID, actor, typ, title, message)
	if n == nil {
		return
	}
	s.publishUserEvent(recipientID, EventNotification, n)
}

// relayContext returns the context bounding async relay publishes. Publishes
// outlive the request that triggered them but not the server.
func (s *Server) relayContext() context.Context {
	if s.shutdownCtx != nil {
		return s.shutdownCtx
	}
	return context.Background()
}

// userSummary is the compact actor representation embedded in event payloads.
func userSummary(u *models.User) map[string]any {
	if u == nil {
		return nil
	}
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"avatar":   u.Avatar,
	}
}
