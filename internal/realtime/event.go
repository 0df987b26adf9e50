// Package realtime provides WebSocket presence tracking and event delivery.
package realtime

import (
	"encoding/json"
	"strconv"
)

// Event is the envelope for every frame delivered over a WebSocket
// connection. Payload carries the event-specific body.
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Client-facing event names.
const (
	EventMessage      = "getMessage"
	EventNotification = "getNotification"
	EventOnlineUsers  = "getOnlineUsers"
	EventStory        = "getStory"
)

// Encode marshals the event for the wire. Marshal failures return an empty
// payload frame rather than an error since events are fire-and-forget.
func (e Event) Encode() []byte {
	raw, err := json.Marshal(e)
	if err != nil {
		raw, _ = json.Marshal(Event{Event: e.Event})
	}
	return raw
}

// UserChannel derives the Redis pub/sub channel name for a user.
func UserChannel(userID uint) string {
	return "events:user:" + strconv.FormatUint(uint64(userID), 10)
}

// BroadcastChannel is the Redis pub/sub channel for events sent to everyone.
const BroadcastChannel = "events:broadcast"
