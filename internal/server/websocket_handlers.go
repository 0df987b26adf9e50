package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"socialpulse/internal/observability"
	"socialpulse/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketHandler upgrades the connection and runs the client's read/write
// pumps until the peer disconnects.
func (s *Server) WebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok || userID == 0 {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			observability.Logger.Warn("websocket register rejected",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "connection limit reached"))
			_ = conn.Close()
			return
		}

		client.IncomingHandler = s.handleIncomingFrame

		// Initial roster so the client can render presence immediately.
		client.TrySend(realtime.Event{
			Event:   realtime.EventOnlineUsers,
			Payload: s.hub.OnlineUserIDs(),
		}.Encode())

		go client.WritePump()
		client.ReadPump()
	})
}

// handleIncomingFrame processes frames sent by a connected client. The only
// client-to-server frame currently supported is a message send, which is
// persisted and fanned out like its REST equivalent.
func (s *Server) handleIncomingFrame(client *realtime.Client, raw []byte) {
	var frame struct {
		Event   string `json:"event"`
		Payload struct {
			RecipientID uint   `json:"recipient_id"`
			Text        string `json:"text"`
			Image       string `json:"image"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		return
	}
	if frame.Event != "sendMessage" {
		return
	}

	ctx := context.Background()
	if _, err := s.messageService.Send(ctx, client.UserID, frame.Payload.RecipientID, frame.Payload.Text, frame.Payload.Image); err != nil {
		observability.Logger.Debug("websocket message rejected",
			slog.Uint64("user_id", uint64(client.UserID)),
			slog.String("error", err.Error()))
	}
}
