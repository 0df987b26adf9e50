package server

import (
	"context"
	"log/slog"
	"time"

	"socialpulse/internal/observability"
	"socialpulse/internal/realtime"
)

// broadcastOnlineUsers pushes the current presence roster to every connected
// client. Called from the hub's presence callbacks whenever a user comes
// online or goes offline.
func (s *Server) broadcastOnlineUsers() {
	event := realtime.Event{
		Event:   realtime.EventOnlineUsers,
		Payload: s.hub.OnlineUserIDs(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.notifier.PublishBroadcast(ctx, event); err != nil {
		observability.Logger.Warn("presence broadcast failed", slog.String("error", err.Error()))
	}
}
