package server

import (
	"encoding/json"
	"log/slog"

	"aurora/internal/relay"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler upgrades the connection and registers it with the relay
// hub. The client receives every event addressed to its user id for as long
// as the socket lives; delivery is best effort.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok || userID == 0 {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthenticated"))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			slog.Warn("websocket registration rejected", "user_id", userID, "error", err)
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "connection limit reached"))
			_ = conn.Close()
			return
		}

		client.IncomingHandler = s.handleClientMessage

		go client.WritePump()
		// ReadPump blocks for the lifetime of the connection; the fiber
		// websocket handler must not return before the socket is done.
		client.ReadPump()
	})
}

// handleClientMessage processes messages sent by a connected client. The
// relay is server-to-client; the only client frames honored are pings.
func (s *Server) handleClientMessage(client *relay.Client, raw []byte) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return
	}

	if envelope.Type == "ping" {
		client.TrySend([]byte(`{"type":"pong"}`))
	}
}
